package reviews

import (
	"errors"

	"gorm.io/gorm"

	"medical-booking-server/internal/apperrors"
	"medical-booking-server/internal/models"
)

// Gate decides whether a patient may attach a review to an appointment and
// performs the creation with patient and professional fixed from the
// appointment record, never from client input.
type Gate struct {
	DB *gorm.DB
}

// NewGate creates a review eligibility gate bound to a store.
func NewGate(db *gorm.DB) *Gate {
	return &Gate{DB: db}
}

// CanReview returns nil when requestingUserID may review the appointment,
// or a typed error naming the first failing condition: not the
// appointment's patient, appointment not completed, or review already
// present.
func (g *Gate) CanReview(requestingUserID string, appointment *models.Appointment) error {
	if appointment.PatientID != requestingUserID {
		return apperrors.Authorization("only the patient of the appointment can leave a review")
	}
	if appointment.Status != models.StatusCompleted {
		return apperrors.Validation("reviews can only be left for completed appointments")
	}

	var existing models.Review
	err := g.DB.First(&existing, "appointment_id = ?", appointment.ID).Error
	if err == nil {
		return apperrors.Conflict("a review already exists for this appointment")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.Unexpected("failed to check for existing review", err)
	}
	return nil
}

// Create validates eligibility and stores the review. Rating must be 1-5;
// the review starts unverified until moderation flips it.
func (g *Gate) Create(requestingUserID string, appointment *models.Appointment, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.Validation("rating must be between 1 and 5")
	}
	if len(comment) > 500 {
		return nil, apperrors.Validation("comment must be at most 500 characters")
	}
	if err := g.CanReview(requestingUserID, appointment); err != nil {
		return nil, err
	}

	review := models.Review{
		PatientID:      appointment.PatientID,
		ProfessionalID: appointment.ProfessionalID,
		AppointmentID:  appointment.ID,
		Rating:         rating,
		Comment:        comment,
		IsVerified:     false,
	}
	if err := g.DB.Create(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("a review already exists for this appointment")
		}
		return nil, apperrors.Unexpected("failed to create review", err)
	}
	return &review, nil
}
