package history

import (
	"errors"

	"gorm.io/gorm"

	"medical-booking-server/internal/apperrors"
	"medical-booking-server/internal/models"
)

// Recompute rebuilds the ClinicVisit aggregate for a (patient,
// professional) pair from the set of their completed appointments. Called
// inside the transaction that completes an appointment, so the summary can
// never contradict the appointments it derives from. With no completed
// appointments the aggregate row is removed.
func Recompute(tx *gorm.DB, patientID, professionalID string) error {
	var appointments []models.Appointment
	err := tx.Where("patient_id = ? AND professional_id = ? AND status = ?",
		patientID, professionalID, models.StatusCompleted).
		Order("appointment_date asc, appointment_time asc").
		Find(&appointments).Error
	if err != nil {
		return apperrors.Unexpected("failed to load completed appointments", err)
	}

	if len(appointments) == 0 {
		err := tx.Where("patient_id = ? AND professional_id = ?", patientID, professionalID).
			Delete(&models.ClinicVisit{}).Error
		if err != nil {
			return apperrors.Unexpected("failed to clear visit history", err)
		}
		return nil
	}

	var professional models.User
	if err := tx.First(&professional, "id = ?", professionalID).Error; err != nil {
		return apperrors.Unexpected("failed to load professional for visit history", err)
	}

	var visit models.ClinicVisit
	err = tx.Where("patient_id = ? AND professional_id = ?", patientID, professionalID).
		First(&visit).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.Unexpected("failed to load visit history", err)
	}

	visit.PatientID = patientID
	visit.ProfessionalID = professionalID
	visit.FirstVisitDate = appointments[0].AppointmentDate
	visit.LastVisitDate = appointments[len(appointments)-1].AppointmentDate
	visit.TotalVisits = len(appointments)
	visit.ClinicName = professional.ClinicName
	visit.ClinicAddress = professional.ClinicAddress
	visit.ClinicPhone = professional.Phone
	visit.SpecialtyVisited = professional.Specialty

	if err := tx.Save(&visit).Error; err != nil {
		return apperrors.Unexpected("failed to save visit history", err)
	}
	return nil
}

// ForPatient lists a patient's visit summaries, most recent first.
func ForPatient(db *gorm.DB, patientID string) ([]models.ClinicVisit, error) {
	var visits []models.ClinicVisit
	err := db.Where("patient_id = ?", patientID).
		Order("last_visit_date desc").
		Find(&visits).Error
	if err != nil {
		return nil, apperrors.Unexpected("failed to load visit history", err)
	}
	return visits, nil
}

// ForProfessional lists the visit summaries of a professional's patients,
// most recent first.
func ForProfessional(db *gorm.DB, professionalID string) ([]models.ClinicVisit, error) {
	var visits []models.ClinicVisit
	err := db.Where("professional_id = ?", professionalID).
		Order("last_visit_date desc").
		Find(&visits).Error
	if err != nil {
		return nil, apperrors.Unexpected("failed to load visit history", err)
	}
	return visits, nil
}
