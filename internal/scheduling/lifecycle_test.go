package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"medical-booking-server/internal/apperrors"
	"medical-booking-server/internal/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to models.AppointmentStatus
		want     bool
	}{
		{models.StatusScheduled, models.StatusConfirmed, true},
		{models.StatusScheduled, models.StatusCancelled, true},
		{models.StatusScheduled, models.StatusNoShow, true},
		{models.StatusScheduled, models.StatusCompleted, false},
		{models.StatusScheduled, models.StatusInProgress, false},
		{models.StatusConfirmed, models.StatusInProgress, true},
		{models.StatusConfirmed, models.StatusCancelled, true},
		{models.StatusConfirmed, models.StatusNoShow, true},
		{models.StatusConfirmed, models.StatusCompleted, false},
		{models.StatusInProgress, models.StatusCompleted, true},
		{models.StatusInProgress, models.StatusCancelled, false},
		{models.StatusCompleted, models.StatusScheduled, false},
		{models.StatusCancelled, models.StatusScheduled, false},
		{models.StatusNoShow, models.StatusScheduled, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestTerminalStatusesAdmitNothing(t *testing.T) {
	terminal := []models.AppointmentStatus{
		models.StatusCompleted, models.StatusCancelled, models.StatusNoShow,
	}
	all := []models.AppointmentStatus{
		models.StatusScheduled, models.StatusConfirmed, models.StatusInProgress,
		models.StatusCompleted, models.StatusCancelled, models.StatusNoShow,
	}
	for _, from := range terminal {
		assert.True(t, from.IsTerminal())
		for _, to := range all {
			assert.False(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestValidateTransition_Errors(t *testing.T) {
	err := ValidateTransition(models.StatusScheduled, "archived")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	err = ValidateTransition(models.StatusCompleted, models.StatusCancelled)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	assert.NoError(t, ValidateTransition(models.StatusScheduled, models.StatusConfirmed))
}
