package history

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"medical-booking-server/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		Email:     string(role) + "-" + uuid.NewString() + "@example.com",
		FirstName: "Test",
		LastName:  string(role),
		Role:      role,
		IsActive:  true,
	}
	if role == models.RoleProfessional {
		user.Specialty = "Dermatology"
		user.ClinicName = "Skin Clinic"
		user.ClinicAddress = "12 Main St"
		user.Phone = "555-0101"
	}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCompleted(t *testing.T, db *gorm.DB, patient, professional *models.User, date, timeOfDay string) {
	t.Helper()
	service := &models.Service{Name: "Consultation", Duration: 30}
	require.NoError(t, db.Create(service).Error)
	appointment := &models.Appointment{
		PatientID:       patient.ID,
		ProfessionalID:  professional.ID,
		ServiceID:       service.ID,
		AppointmentDate: date,
		AppointmentTime: timeOfDay,
		Status:          models.StatusCompleted,
	}
	require.NoError(t, db.Create(appointment).Error)
}

func TestRecompute_BuildsAggregate(t *testing.T) {
	db := newTestDB(t)
	patient := seedUser(t, db, models.RolePatient)
	professional := seedUser(t, db, models.RoleProfessional)

	seedCompleted(t, db, patient, professional, "2024-03-10", "10:00")
	seedCompleted(t, db, patient, professional, "2024-01-05", "09:00")
	seedCompleted(t, db, patient, professional, "2024-05-20", "11:30")

	require.NoError(t, Recompute(db, patient.ID, professional.ID))

	var visit models.ClinicVisit
	require.NoError(t, db.First(&visit, "patient_id = ? AND professional_id = ?", patient.ID, professional.ID).Error)

	assert.Equal(t, "2024-01-05", visit.FirstVisitDate)
	assert.Equal(t, "2024-05-20", visit.LastVisitDate)
	assert.Equal(t, 3, visit.TotalVisits)
	assert.Equal(t, "Skin Clinic", visit.ClinicName)
	assert.Equal(t, "Dermatology", visit.SpecialtyVisited)
}

func TestRecompute_UpdatesExistingRow(t *testing.T) {
	db := newTestDB(t)
	patient := seedUser(t, db, models.RolePatient)
	professional := seedUser(t, db, models.RoleProfessional)

	seedCompleted(t, db, patient, professional, "2024-03-10", "10:00")
	require.NoError(t, Recompute(db, patient.ID, professional.ID))

	seedCompleted(t, db, patient, professional, "2024-06-01", "10:00")
	require.NoError(t, Recompute(db, patient.ID, professional.ID))

	var visits []models.ClinicVisit
	require.NoError(t, db.Find(&visits).Error)
	require.Len(t, visits, 1)
	assert.Equal(t, 2, visits[0].TotalVisits)
	assert.Equal(t, "2024-06-01", visits[0].LastVisitDate)
}

func TestRecompute_IgnoresOtherStatuses(t *testing.T) {
	db := newTestDB(t)
	patient := seedUser(t, db, models.RolePatient)
	professional := seedUser(t, db, models.RoleProfessional)

	service := &models.Service{Name: "Consultation", Duration: 30}
	require.NoError(t, db.Create(service).Error)
	for i, status := range []models.AppointmentStatus{
		models.StatusScheduled, models.StatusCancelled, models.StatusNoShow,
	} {
		appointment := &models.Appointment{
			PatientID:       patient.ID,
			ProfessionalID:  professional.ID,
			ServiceID:       service.ID,
			AppointmentDate: "2024-05-01",
			AppointmentTime: []string{"09:00", "09:30", "10:00"}[i],
			Status:          status,
		}
		require.NoError(t, db.Create(appointment).Error)
	}

	require.NoError(t, Recompute(db, patient.ID, professional.ID))

	var count int64
	require.NoError(t, db.Model(&models.ClinicVisit{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestForPatientAndProfessional(t *testing.T) {
	db := newTestDB(t)
	patient := seedUser(t, db, models.RolePatient)
	firstProfessional := seedUser(t, db, models.RoleProfessional)
	secondProfessional := seedUser(t, db, models.RoleProfessional)

	seedCompleted(t, db, patient, firstProfessional, "2024-01-10", "10:00")
	seedCompleted(t, db, patient, secondProfessional, "2024-04-15", "11:00")
	require.NoError(t, Recompute(db, patient.ID, firstProfessional.ID))
	require.NoError(t, Recompute(db, patient.ID, secondProfessional.ID))

	visits, err := ForPatient(db, patient.ID)
	require.NoError(t, err)
	require.Len(t, visits, 2)
	// Most recent first
	assert.Equal(t, secondProfessional.ID, visits[0].ProfessionalID)

	visits, err = ForProfessional(db, firstProfessional.ID)
	require.NoError(t, err)
	require.Len(t, visits, 1)
	assert.Equal(t, patient.ID, visits[0].PatientID)
}
