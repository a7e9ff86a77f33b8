package scheduling

import (
	"fmt"

	"medical-booking-server/internal/apperrors"
	"medical-booking-server/internal/models"
)

// transitions is the appointment state machine:
// scheduled -> confirmed -> in_progress -> completed, with scheduled and
// confirmed also able to move to cancelled or no_show. Terminal states
// admit nothing.
var transitions = map[models.AppointmentStatus][]models.AppointmentStatus{
	models.StatusScheduled: {
		models.StatusConfirmed,
		models.StatusCancelled,
		models.StatusNoShow,
	},
	models.StatusConfirmed: {
		models.StatusInProgress,
		models.StatusCancelled,
		models.StatusNoShow,
	},
	models.StatusInProgress: {
		models.StatusCompleted,
	},
	models.StatusCompleted: nil,
	models.StatusCancelled: nil,
	models.StatusNoShow:    nil,
}

// ValidStatus reports whether s is one of the known appointment statuses.
func ValidStatus(s models.AppointmentStatus) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether the lifecycle permits moving from one
// status to another.
func CanTransition(from, to models.AppointmentStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns a typed error when the requested status change
// is not legal.
func ValidateTransition(from, to models.AppointmentStatus) error {
	if !ValidStatus(to) {
		return apperrors.Validation(fmt.Sprintf("unknown appointment status %q", to))
	}
	if !CanTransition(from, to) {
		return apperrors.Validation(fmt.Sprintf("cannot change appointment status from %q to %q", from, to))
	}
	return nil
}
