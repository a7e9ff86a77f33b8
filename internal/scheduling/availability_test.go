package scheduling

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"medical-booking-server/internal/apperrors"
	"medical-booking-server/internal/config"
	"medical-booking-server/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	return db
}

func testRules() config.BookingConfig {
	return config.BookingConfig{
		OpeningTime:       "09:00",
		ClosingTime:       "17:00",
		SlotMinutes:       30,
		CancellationHours: 2,
		Location:          time.UTC,
	}
}

func seedUser(t *testing.T, db *gorm.DB, role models.Role, active bool) *models.User {
	t.Helper()
	user := &models.User{
		Email:     string(role) + "-" + uuid.NewString() + "@example.com",
		FirstName: "Test",
		LastName:  string(role),
		Role:      role,
		IsActive:  active,
	}
	if role == models.RoleProfessional {
		user.Specialty = "Cardiology"
		user.ClinicName = "Central Clinic"
	}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedService(t *testing.T, db *gorm.DB) *models.Service {
	t.Helper()
	service := &models.Service{Name: "General consultation", Duration: 30, Price: 50}
	require.NoError(t, db.Create(service).Error)
	return service
}

func seedAppointment(t *testing.T, db *gorm.DB, patient, professional *models.User, service *models.Service, date, timeOfDay string, status models.AppointmentStatus) *models.Appointment {
	t.Helper()
	appointment := &models.Appointment{
		PatientID:       patient.ID,
		ProfessionalID:  professional.ID,
		ServiceID:       service.ID,
		AppointmentDate: date,
		AppointmentTime: timeOfDay,
		Status:          status,
	}
	require.NoError(t, db.Create(appointment).Error)
	return appointment
}

func TestIsSlotFree_BlockingStatuses(t *testing.T) {
	db := newTestDB(t)
	checker := NewChecker(db, testRules())
	patient := seedUser(t, db, models.RolePatient, true)
	professional := seedUser(t, db, models.RoleProfessional, true)
	service := seedService(t, db)

	tests := []struct {
		status models.AppointmentStatus
		slot   string
		free   bool
	}{
		{models.StatusScheduled, "09:00", false},
		{models.StatusConfirmed, "09:30", false},
		{models.StatusInProgress, "10:00", true},
		{models.StatusCompleted, "10:30", true},
		{models.StatusCancelled, "11:00", true},
		{models.StatusNoShow, "11:30", true},
	}
	for _, tt := range tests {
		seedAppointment(t, db, patient, professional, service, "2024-05-01", tt.slot, tt.status)
		free, err := checker.IsSlotFree(professional.ID, "2024-05-01", tt.slot, "")
		require.NoError(t, err)
		assert.Equal(t, tt.free, free, "status %s", tt.status)
	}
}

func TestIsSlotFree_ExcludesGivenAppointment(t *testing.T) {
	db := newTestDB(t)
	checker := NewChecker(db, testRules())
	patient := seedUser(t, db, models.RolePatient, true)
	professional := seedUser(t, db, models.RoleProfessional, true)
	service := seedService(t, db)

	appointment := seedAppointment(t, db, patient, professional, service, "2024-05-01", "10:00", models.StatusScheduled)

	free, err := checker.IsSlotFree(professional.ID, "2024-05-01", "10:00", "")
	require.NoError(t, err)
	assert.False(t, free)

	// Excluding the appointment itself frees its own slot (update path).
	free, err = checker.IsSlotFree(professional.ID, "2024-05-01", "10:00", appointment.ID)
	require.NoError(t, err)
	assert.True(t, free)
}

func TestFreeSlots_ExcludesBookedTimes(t *testing.T) {
	db := newTestDB(t)
	checker := NewChecker(db, testRules())
	patient := seedUser(t, db, models.RolePatient, true)
	professional := seedUser(t, db, models.RoleProfessional, true)
	service := seedService(t, db)

	seedAppointment(t, db, patient, professional, service, "2024-05-01", "10:00", models.StatusConfirmed)

	slots, err := checker.FreeSlots(professional.ID, "2024-05-01")
	require.NoError(t, err)

	assert.Len(t, slots, 15)
	assert.NotContains(t, slots, "10:00")
	assert.Equal(t, "09:00", slots[0])
	assert.Equal(t, "09:30", slots[1])
	assert.Equal(t, "10:30", slots[2])
	assert.Equal(t, "16:30", slots[len(slots)-1])
}

func TestFreeSlots_CancelledAppointmentReopensSlot(t *testing.T) {
	db := newTestDB(t)
	checker := NewChecker(db, testRules())
	patient := seedUser(t, db, models.RolePatient, true)
	professional := seedUser(t, db, models.RoleProfessional, true)
	service := seedService(t, db)

	appointment := seedAppointment(t, db, patient, professional, service, "2024-05-01", "10:00", models.StatusScheduled)

	slots, err := checker.FreeSlots(professional.ID, "2024-05-01")
	require.NoError(t, err)
	assert.NotContains(t, slots, "10:00")

	appointment.Status = models.StatusCancelled
	require.NoError(t, db.Save(appointment).Error)

	slots, err = checker.FreeSlots(professional.ID, "2024-05-01")
	require.NoError(t, err)
	assert.Contains(t, slots, "10:00")
	assert.Len(t, slots, 16)
}

func TestFreeSlots_ProfessionalValidation(t *testing.T) {
	db := newTestDB(t)
	checker := NewChecker(db, testRules())

	_, err := checker.FreeSlots("00000000-0000-0000-0000-000000000000", "2024-05-01")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	patient := seedUser(t, db, models.RolePatient, true)
	_, err = checker.FreeSlots(patient.ID, "2024-05-01")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	inactive := seedUser(t, db, models.RoleProfessional, false)
	_, err = checker.FreeSlots(inactive.ID, "2024-05-01")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestFreeSlots_InvalidDate(t *testing.T) {
	db := newTestDB(t)
	checker := NewChecker(db, testRules())

	_, err := checker.FreeSlots("irrelevant", "May 1st")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}
