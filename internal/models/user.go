package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RolePatient      Role = "patient"
	RoleProfessional Role = "professional"
)

// User represents a patient or a health professional. A user holds exactly
// one role and the role never changes after registration.
type User struct {
	BaseModel
	Email       string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password    string     `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	FirstName   string     `gorm:"size:100" json:"firstName"`
	LastName    string     `gorm:"size:100" json:"lastName"`
	Phone       string     `gorm:"size:20" json:"phone,omitempty"`
	Role        Role       `gorm:"size:20;not null" json:"role"`
	IsActive    bool       `gorm:"default:true" json:"isActive"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`

	// Professional-only fields
	Specialty     string `gorm:"size:100" json:"specialty,omitempty"`
	LicenseNumber string `gorm:"size:50" json:"licenseNumber,omitempty"`
	ClinicName    string `gorm:"size:200" json:"clinicName,omitempty"`
	ClinicAddress string `gorm:"type:text" json:"clinicAddress,omitempty"`

	// Relations (not always preloaded)
	RefreshTokens            []RefreshToken `gorm:"foreignKey:UserID" json:"-"`
	PatientAppointments      []Appointment  `gorm:"foreignKey:PatientID" json:"-"`
	ProfessionalAppointments []Appointment  `gorm:"foreignKey:ProfessionalID" json:"-"`
	ReviewsGiven             []Review       `gorm:"foreignKey:PatientID" json:"-"`
	ReviewsReceived          []Review       `gorm:"foreignKey:ProfessionalID" json:"-"`
}

// FullName joins first and last name for display and webhook payloads.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsPatient reports whether the user holds the patient role.
func (u *User) IsPatient() bool {
	return u.Role == RolePatient
}

// IsProfessional reports whether the user holds the professional role.
func (u *User) IsProfessional() bool {
	return u.Role == RoleProfessional
}

// UserSanitized represents the user data that is safe to send in API responses.
type UserSanitized struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	Phone         string     `json:"phone,omitempty"`
	Role          Role       `json:"role"`
	IsActive      bool       `json:"isActive"`
	DateOfBirth   *time.Time `json:"dateOfBirth,omitempty"`
	Specialty     string     `json:"specialty,omitempty"`
	LicenseNumber string     `json:"licenseNumber,omitempty"`
	ClinicName    string     `json:"clinicName,omitempty"`
	ClinicAddress string     `json:"clinicAddress,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		ID:            u.ID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Phone:         u.Phone,
		Role:          u.Role,
		IsActive:      u.IsActive,
		DateOfBirth:   u.DateOfBirth,
		Specialty:     u.Specialty,
		LicenseNumber: u.LicenseNumber,
		ClinicName:    u.ClinicName,
		ClinicAddress: u.ClinicAddress,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
