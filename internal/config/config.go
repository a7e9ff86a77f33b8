package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the booking server
type Config struct {
	Port                      string
	Origin                    string
	Environment               string
	JWTSecret                 string
	JWTRefreshSecret          string
	JWTExpirationMinutes      int
	JWTRefreshExpirationHours int
	Database                  DatabaseConfig
	Booking                   BookingConfig
	WebhookURL                string
	// ModerationToken authorizes the external review-moderation caller.
	// Empty disables the moderation endpoint.
	ModerationToken string
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// BookingConfig holds the scheduling rules applied to appointments.
type BookingConfig struct {
	OpeningTime       string // "09:00"
	ClosingTime       string // "17:00"
	SlotMinutes       int
	CancellationHours int
	// ProfessionalBooking allows professionals to create appointments on a
	// patient's behalf. Off by default: only patients book, for themselves.
	ProfessionalBooking bool
	Location            *time.Location
}

// SlotDuration returns the slot granularity as a time.Duration.
func (b BookingConfig) SlotDuration() time.Duration {
	return time.Duration(b.SlotMinutes) * time.Minute
}

// CancellationWindow returns the minimum lead time required to cancel.
func (b BookingConfig) CancellationWindow() time.Duration {
	return time.Duration(b.CancellationHours) * time.Hour
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "booking"),
	}

	// Build DSN (Data Source Name) for MySQL connection
	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	jwtExpMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
	}

	jwtRefreshExpHours, err := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168")) // 7 days
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_HOURS: %w", err)
	}

	slotMinutes, err := strconv.Atoi(getEnv("BOOKING_SLOT_MINUTES", "30"))
	if err != nil || slotMinutes <= 0 {
		return nil, fmt.Errorf("invalid BOOKING_SLOT_MINUTES: %q", getEnv("BOOKING_SLOT_MINUTES", "30"))
	}

	cancellationHours, err := strconv.Atoi(getEnv("BOOKING_CANCELLATION_HOURS", "2"))
	if err != nil || cancellationHours < 0 {
		return nil, fmt.Errorf("invalid BOOKING_CANCELLATION_HOURS: %q", getEnv("BOOKING_CANCELLATION_HOURS", "2"))
	}

	loc := time.Local
	if tz := getEnv("BOOKING_TIMEZONE", ""); tz != "" {
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid BOOKING_TIMEZONE: %w", err)
		}
	}

	bookingConfig := BookingConfig{
		OpeningTime:         getEnv("BOOKING_OPENING_TIME", "09:00"),
		ClosingTime:         getEnv("BOOKING_CLOSING_TIME", "17:00"),
		SlotMinutes:         slotMinutes,
		CancellationHours:   cancellationHours,
		ProfessionalBooking: getEnv("ALLOW_PROFESSIONAL_BOOKING", "false") == "true",
		Location:            loc,
	}

	return &Config{
		Port:                      getEnv("PORT", "3001"),
		Origin:                    getEnv("ORIGIN", "http://localhost:5173"),
		Environment:               getEnv("APP_ENV", "development"),
		JWTSecret:                 getEnv("JWT_SECRET", "default_jwt_secret"),
		JWTRefreshSecret:          getEnv("JWT_REFRESH_SECRET", "default_refresh_secret"),
		JWTExpirationMinutes:      jwtExpMinutes,
		JWTRefreshExpirationHours: jwtRefreshExpHours,
		Database:                  dbConfig,
		Booking:                   bookingConfig,
		WebhookURL:                getEnv("APPOINTMENT_WEBHOOK_URL", ""),
		ModerationToken:           getEnv("REVIEW_MODERATION_TOKEN", ""),
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
