package scheduling

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"medical-booking-server/internal/apperrors"
	"medical-booking-server/internal/models"
)

// Booker owns the write side of the appointment lifecycle: creation,
// rescheduling, and status transitions. Every mutation re-checks slot
// availability inside the same transaction that performs the write, with
// the store's composite unique index as the final backstop, so concurrent
// requests for one slot get exactly one winner and the loser a conflict.
type Booker struct {
	DB      *gorm.DB
	Checker *Checker

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time

	// OnCompleted runs inside the completing transaction when an
	// appointment reaches the completed status. Wired to the visit
	// history recomputation.
	OnCompleted func(tx *gorm.DB, patientID, professionalID string) error
}

// NewBooker creates a Booker sharing the checker's store and rules.
func NewBooker(db *gorm.DB, checker *Checker) *Booker {
	return &Booker{DB: db, Checker: checker, Now: time.Now}
}

// BookingRequest carries the validated input for a new appointment.
type BookingRequest struct {
	PatientID      string
	ProfessionalID string
	ServiceID      string
	Date           string
	TimeOfDay      string
	Notes          string
}

// Book creates a scheduled appointment after verifying the professional,
// the service, that the slot lies in the future, and that it is free.
func (b *Booker) Book(req BookingRequest) (*models.Appointment, error) {
	if _, err := b.Checker.lookupProfessional(req.ProfessionalID); err != nil {
		return nil, err
	}

	pastDue, err := IsPastDue(req.Date, req.TimeOfDay, b.Checker.Rules.Location, b.Now())
	if err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if pastDue {
		return nil, apperrors.Validation("appointment date and time must be in the future")
	}

	var service models.Service
	if err := b.DB.First(&service, "id = ?", req.ServiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("service not found")
		}
		return nil, apperrors.Unexpected("failed to load service", err)
	}

	appointment := models.Appointment{
		PatientID:       req.PatientID,
		ProfessionalID:  req.ProfessionalID,
		ServiceID:       req.ServiceID,
		AppointmentDate: req.Date,
		AppointmentTime: req.TimeOfDay,
		Status:          models.StatusScheduled,
		Notes:           req.Notes,
	}

	err = b.DB.Transaction(func(tx *gorm.DB) error {
		checker := &Checker{DB: tx, Rules: b.Checker.Rules}
		free, err := checker.IsSlotFree(req.ProfessionalID, req.Date, req.TimeOfDay, "")
		if err != nil {
			return err
		}
		if !free {
			return apperrors.Conflict("the professional is not available at that time")
		}
		if err := tx.Create(&appointment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.Conflict("the professional is not available at that time")
			}
			return apperrors.Unexpected("failed to create appointment", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

// Reschedule moves an appointment to a new date and/or time, excluding the
// appointment itself from the conflict search.
func (b *Booker) Reschedule(appointment *models.Appointment, newDate, newTime string) error {
	if appointment.Status.IsTerminal() {
		return apperrors.Validation("cannot reschedule an appointment in a terminal status")
	}

	pastDue, err := IsPastDue(newDate, newTime, b.Checker.Rules.Location, b.Now())
	if err != nil {
		return apperrors.Validation(err.Error())
	}
	if pastDue {
		return apperrors.Validation("appointment date and time must be in the future")
	}

	return b.DB.Transaction(func(tx *gorm.DB) error {
		checker := &Checker{DB: tx, Rules: b.Checker.Rules}
		free, err := checker.IsSlotFree(appointment.ProfessionalID, newDate, newTime, appointment.ID)
		if err != nil {
			return err
		}
		if !free {
			return apperrors.Conflict("the professional is not available at that time")
		}
		appointment.AppointmentDate = newDate
		appointment.AppointmentTime = newTime
		if err := tx.Save(appointment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.Conflict("the professional is not available at that time")
			}
			return apperrors.Unexpected("failed to reschedule appointment", err)
		}
		return nil
	})
}

// Transition applies a status change after validating it against the
// lifecycle. Cancellations additionally require the cancellation window to
// still be open. Completion triggers the OnCompleted hook in the same
// transaction.
func (b *Booker) Transition(appointment *models.Appointment, to models.AppointmentStatus) error {
	if err := ValidateTransition(appointment.Status, to); err != nil {
		return err
	}

	if to == models.StatusCancelled {
		ok, err := CanBeCancelled(appointment.AppointmentDate, appointment.AppointmentTime,
			b.Checker.Rules.Location, b.Now(), b.Checker.Rules.CancellationWindow())
		if err != nil {
			return apperrors.Validation(err.Error())
		}
		if !ok {
			return apperrors.Conflict("appointments can no longer be cancelled this close to their start time")
		}
	}

	return b.DB.Transaction(func(tx *gorm.DB) error {
		appointment.Status = to
		if err := tx.Save(appointment).Error; err != nil {
			return apperrors.Unexpected("failed to update appointment status", err)
		}
		if to == models.StatusCompleted && b.OnCompleted != nil {
			if err := b.OnCompleted(tx, appointment.PatientID, appointment.ProfessionalID); err != nil {
				return err
			}
		}
		return nil
	})
}
