package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"medical-booking-server/internal/apperrors"
	"medical-booking-server/internal/models"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func newTestBooker(t *testing.T, db *gorm.DB, now time.Time) *Booker {
	t.Helper()
	checker := NewChecker(db, testRules())
	booker := NewBooker(db, checker)
	booker.Now = fixedClock(now)
	return booker
}

func TestBook_CreatesScheduledAppointment(t *testing.T) {
	db := newTestDB(t)
	booker := newTestBooker(t, db, time.Date(2024, 4, 30, 12, 0, 0, 0, time.UTC))
	patient := seedUser(t, db, models.RolePatient, true)
	professional := seedUser(t, db, models.RoleProfessional, true)
	service := seedService(t, db)

	appointment, err := booker.Book(BookingRequest{
		PatientID:      patient.ID,
		ProfessionalID: professional.ID,
		ServiceID:      service.ID,
		Date:           "2024-05-01",
		TimeOfDay:      "10:00",
		Notes:          "first visit",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusScheduled, appointment.Status)
	assert.NotEmpty(t, appointment.ID)

	free, err := booker.Checker.IsSlotFree(professional.ID, "2024-05-01", "10:00", "")
	require.NoError(t, err)
	assert.False(t, free)
}

func TestBook_RejectsTakenSlot(t *testing.T) {
	db := newTestDB(t)
	booker := newTestBooker(t, db, time.Date(2024, 4, 30, 12, 0, 0, 0, time.UTC))
	patient := seedUser(t, db, models.RolePatient, true)
	other := seedUser(t, db, models.RolePatient, true)
	professional := seedUser(t, db, models.RoleProfessional, true)
	service := seedService(t, db)

	req := BookingRequest{
		PatientID:      patient.ID,
		ProfessionalID: professional.ID,
		ServiceID:      service.ID,
		Date:           "2024-05-01",
		TimeOfDay:      "10:00",
	}
	_, err := booker.Book(req)
	require.NoError(t, err)

	req.PatientID = other.ID
	_, err = booker.Book(req)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestBook_UniqueIndexIsTheBackstop(t *testing.T) {
	db := newTestDB(t)
	patient := seedUser(t, db, models.RolePatient, true)
	professional := seedUser(t, db, models.RoleProfessional, true)
	service := seedService(t, db)

	// Two writers that both passed the predicate race to insert; the
	// store's unique index lets exactly one through.
	first := models.Appointment{
		PatientID: patient.ID, ProfessionalID: professional.ID, ServiceID: service.ID,
		AppointmentDate: "2024-05-01", AppointmentTime: "10:00",
		Status: models.StatusScheduled,
	}
	second := first
	require.NoError(t, db.Create(&first).Error)

	err := db.Create(&second).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestBook_RejectsPastSlot(t *testing.T) {
	db := newTestDB(t)
	booker := newTestBooker(t, db, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	patient := seedUser(t, db, models.RolePatient, true)
	professional := seedUser(t, db, models.RoleProfessional, true)
	service := seedService(t, db)

	_, err := booker.Book(BookingRequest{
		PatientID:      patient.ID,
		ProfessionalID: professional.ID,
		ServiceID:      service.ID,
		Date:           "2024-05-01",
		TimeOfDay:      "10:00",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestBook_UnknownServiceAndProfessional(t *testing.T) {
	db := newTestDB(t)
	booker := newTestBooker(t, db, time.Date(2024, 4, 30, 12, 0, 0, 0, time.UTC))
	patient := seedUser(t, db, models.RolePatient, true)
	professional := seedUser(t, db, models.RoleProfessional, true)
	service := seedService(t, db)

	_, err := booker.Book(BookingRequest{
		PatientID:      patient.ID,
		ProfessionalID: "00000000-0000-0000-0000-000000000000",
		ServiceID:      service.ID,
		Date:           "2024-05-01",
		TimeOfDay:      "10:00",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	_, err = booker.Book(BookingRequest{
		PatientID:      patient.ID,
		ProfessionalID: professional.ID,
		ServiceID:      "00000000-0000-0000-0000-000000000000",
		Date:           "2024-05-01",
		TimeOfDay:      "10:00",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestReschedule_ExcludesOwnSlot(t *testing.T) {
	db := newTestDB(t)
	booker := newTestBooker(t, db, time.Date(2024, 4, 30, 12, 0, 0, 0, time.UTC))
	patient := seedUser(t, db, models.RolePatient, true)
	professional := seedUser(t, db, models.RoleProfessional, true)
	service := seedService(t, db)

	appointment, err := booker.Book(BookingRequest{
		PatientID:      patient.ID,
		ProfessionalID: professional.ID,
		ServiceID:      service.ID,
		Date:           "2024-05-01",
		TimeOfDay:      "10:00",
	})
	require.NoError(t, err)

	// Rescheduling to its own slot is a no-op, not a conflict.
	require.NoError(t, booker.Reschedule(appointment, "2024-05-01", "10:00"))

	// Moving to a genuinely free slot frees the old one.
	require.NoError(t, booker.Reschedule(appointment, "2024-05-01", "11:00"))
	free, err := booker.Checker.IsSlotFree(professional.ID, "2024-05-01", "10:00", "")
	require.NoError(t, err)
	assert.True(t, free)
}

func TestReschedule_ConflictAndTerminal(t *testing.T) {
	db := newTestDB(t)
	booker := newTestBooker(t, db, time.Date(2024, 4, 30, 12, 0, 0, 0, time.UTC))
	patient := seedUser(t, db, models.RolePatient, true)
	professional := seedUser(t, db, models.RoleProfessional, true)
	service := seedService(t, db)

	blocked := seedAppointment(t, db, patient, professional, service, "2024-05-01", "09:00", models.StatusConfirmed)
	_ = blocked
	appointment := seedAppointment(t, db, patient, professional, service, "2024-05-01", "10:00", models.StatusScheduled)

	err := booker.Reschedule(appointment, "2024-05-01", "09:00")
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	done := seedAppointment(t, db, patient, professional, service, "2024-05-01", "11:00", models.StatusCompleted)
	err = booker.Reschedule(done, "2024-05-01", "12:00")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestTransition_CancelReopensSlot(t *testing.T) {
	db := newTestDB(t)
	booker := newTestBooker(t, db, time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC))
	patient := seedUser(t, db, models.RolePatient, true)
	professional := seedUser(t, db, models.RoleProfessional, true)
	service := seedService(t, db)

	appointment := seedAppointment(t, db, patient, professional, service, "2024-05-01", "10:00", models.StatusScheduled)

	require.NoError(t, booker.Transition(appointment, models.StatusCancelled))

	free, err := booker.Checker.IsSlotFree(professional.ID, "2024-05-01", "10:00", "")
	require.NoError(t, err)
	assert.True(t, free)

	// The slot can immediately be rebooked despite the cancelled row.
	_, err = booker.Book(BookingRequest{
		PatientID:      patient.ID,
		ProfessionalID: professional.ID,
		ServiceID:      service.ID,
		Date:           "2024-05-01",
		TimeOfDay:      "10:00",
	})
	require.NoError(t, err)
}

func TestTransition_CancellationWindow(t *testing.T) {
	db := newTestDB(t)
	patient := seedUser(t, db, models.RolePatient, true)
	professional := seedUser(t, db, models.RoleProfessional, true)
	service := seedService(t, db)

	// One hour before start: inside the 2-hour window, cancel refused.
	booker := newTestBooker(t, db, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	appointment := seedAppointment(t, db, patient, professional, service, "2024-05-01", "10:00", models.StatusConfirmed)

	err := booker.Transition(appointment, models.StatusCancelled)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	// The window only gates cancellation, not the rest of the lifecycle.
	require.NoError(t, booker.Transition(appointment, models.StatusInProgress))
}

func TestTransition_CompletionRecomputesHistory(t *testing.T) {
	db := newTestDB(t)
	booker := newTestBooker(t, db, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	patient := seedUser(t, db, models.RolePatient, true)
	professional := seedUser(t, db, models.RoleProfessional, true)
	service := seedService(t, db)

	var recomputed [][2]string
	booker.OnCompleted = func(tx *gorm.DB, patientID, professionalID string) error {
		recomputed = append(recomputed, [2]string{patientID, professionalID})
		return nil
	}

	appointment := seedAppointment(t, db, patient, professional, service, "2024-05-01", "10:00", models.StatusInProgress)
	require.NoError(t, booker.Transition(appointment, models.StatusCompleted))

	require.Len(t, recomputed, 1)
	assert.Equal(t, patient.ID, recomputed[0][0])
	assert.Equal(t, professional.ID, recomputed[0][1])
}

func TestTransition_IllegalMove(t *testing.T) {
	db := newTestDB(t)
	booker := newTestBooker(t, db, time.Date(2024, 4, 30, 12, 0, 0, 0, time.UTC))
	patient := seedUser(t, db, models.RolePatient, true)
	professional := seedUser(t, db, models.RoleProfessional, true)
	service := seedService(t, db)

	appointment := seedAppointment(t, db, patient, professional, service, "2024-05-01", "10:00", models.StatusScheduled)

	err := booker.Transition(appointment, models.StatusCompleted)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}
