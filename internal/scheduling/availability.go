package scheduling

import (
	"errors"

	"gorm.io/gorm"

	"medical-booking-server/internal/apperrors"
	"medical-booking-server/internal/config"
	"medical-booking-server/internal/models"
)

// Checker answers slot availability questions for professionals. The same
// predicate backs write-time conflict checks and read-time slot listing so
// the two can never disagree.
type Checker struct {
	DB    *gorm.DB
	Rules config.BookingConfig
}

// NewChecker creates an availability checker bound to a store and the
// configured booking rules.
func NewChecker(db *gorm.DB, rules config.BookingConfig) *Checker {
	return &Checker{DB: db, Rules: rules}
}

// IsSlotFree reports whether the professional has no blocking appointment
// at the given date and time. excludeAppointmentID, when non-empty, leaves
// one appointment out of the conflict search (the update path excludes the
// appointment being moved).
func (c *Checker) IsSlotFree(professionalID, date, timeOfDay, excludeAppointmentID string) (bool, error) {
	query := c.DB.Model(&models.Appointment{}).
		Where("professional_id = ? AND appointment_date = ? AND appointment_time = ?",
			professionalID, date, timeOfDay).
		Where("status IN ?", []models.AppointmentStatus{models.StatusScheduled, models.StatusConfirmed})
	if excludeAppointmentID != "" {
		query = query.Where("id <> ?", excludeAppointmentID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, apperrors.Unexpected("failed to check slot availability", err)
	}
	return count == 0, nil
}

// FreeSlots lists the free slot start times for a professional on a date,
// ascending. The professional must exist, hold the professional role and be
// active before any slot computation happens.
func (c *Checker) FreeSlots(professionalID, date string) ([]string, error) {
	if _, err := ParseDate(date); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if _, err := c.lookupProfessional(professionalID); err != nil {
		return nil, err
	}

	candidates, err := EnumerateSlots(c.Rules.OpeningTime, c.Rules.ClosingTime, c.Rules.SlotDuration())
	if err != nil {
		return nil, apperrors.Unexpected("invalid booking window configuration", err)
	}

	free := make([]string, 0, len(candidates))
	for _, slot := range candidates {
		ok, err := c.IsSlotFree(professionalID, date, slot, "")
		if err != nil {
			return nil, err
		}
		if ok {
			free = append(free, slot)
		}
	}
	return free, nil
}

func (c *Checker) lookupProfessional(professionalID string) (*models.User, error) {
	var professional models.User
	err := c.DB.First(&professional, "id = ?", professionalID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("professional not found")
	}
	if err != nil {
		return nil, apperrors.Unexpected("failed to load professional", err)
	}
	if !professional.IsProfessional() {
		return nil, apperrors.Validation("selected user is not a health professional")
	}
	if !professional.IsActive {
		return nil, apperrors.Validation("professional is not active")
	}
	return &professional, nil
}
