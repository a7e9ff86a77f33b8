package handlers

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"medical-booking-server/internal/config"
	"medical-booking-server/internal/middleware"
	"medical-booking-server/internal/models"
	"medical-booking-server/internal/reviews"
	"medical-booking-server/internal/utils"
)

// ReviewHandler handles review related requests.
type ReviewHandler struct {
	DB   *gorm.DB
	Cfg  *config.Config
	Gate *reviews.Gate
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(db *gorm.DB, cfg *config.Config, gate *reviews.Gate) *ReviewHandler {
	return &ReviewHandler{DB: db, Cfg: cfg, Gate: gate}
}

// ReviewResponse is the review shape returned by the API.
type ReviewResponse struct {
	models.Review
	PatientName      string `json:"patientName"`
	ProfessionalName string `json:"professionalName"`
	AppointmentDate  string `json:"appointmentDate"`
}

func toReviewResponse(r models.Review) ReviewResponse {
	return ReviewResponse{
		Review:           r,
		PatientName:      r.Patient.FullName(),
		ProfessionalName: r.Professional.FullName(),
		AppointmentDate:  r.Appointment.AppointmentDate,
	}
}

// CreateReviewRequest represents the request body for creating a review.
// Patient and professional are never part of it; both come from the
// appointment record.
type CreateReviewRequest struct {
	AppointmentID string `json:"appointmentId" binding:"required,uuid"`
	Rating        int    `json:"rating" binding:"required,min=1,max=5"`
	Comment       string `json:"comment" binding:"max=500"`
}

// CreateReview attaches a review to a completed appointment of the caller.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req CreateReviewRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if userRole != models.RolePatient {
		utils.Forbidden(c, "Only patients can leave reviews")
		return
	}

	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", req.AppointmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	review, err := h.Gate.Create(userID, &appointment, req.Rating, req.Comment)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.Created(c, "Review created successfully", review)
}

// GetReviewsForUser lists reviews scoped to the caller: patients see the
// reviews they gave, professionals the verified reviews they received.
func (h *ReviewHandler) GetReviewsForUser(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	userRole, _ := middleware.GetUserRoleFromContext(c)

	query := h.DB.Preload("Patient").Preload("Professional").Preload("Appointment").
		Order("created_at desc")

	var list []models.Review
	var err error
	switch userRole {
	case models.RolePatient:
		err = query.Where("patient_id = ?", userID).Find(&list).Error
	case models.RoleProfessional:
		err = query.Where("professional_id = ? AND is_verified = ?", userID, true).Find(&list).Error
	default:
		utils.Forbidden(c, "User role not permitted to view reviews")
		return
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch reviews: "+err.Error())
		return
	}

	response := make([]ReviewResponse, 0, len(list))
	for _, r := range list {
		response = append(response, toReviewResponse(r))
	}
	utils.Success(c, "Reviews fetched successfully", response)
}

// GetProfessionalReviews lists the verified reviews of one professional.
func (h *ReviewHandler) GetProfessionalReviews(c *gin.Context) {
	professionalID := c.Param("id")

	var list []models.Review
	err := h.DB.Preload("Patient").Preload("Professional").Preload("Appointment").
		Where("professional_id = ? AND is_verified = ?", professionalID, true).
		Order("created_at desc").
		Find(&list).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch reviews: "+err.Error())
		return
	}

	response := make([]ReviewResponse, 0, len(list))
	for _, r := range list {
		response = append(response, toReviewResponse(r))
	}
	utils.Success(c, "Reviews fetched successfully", response)
}

// GetProfessionalStats returns the verified-review aggregates for one
// professional.
func (h *ReviewHandler) GetProfessionalStats(c *gin.Context) {
	stats, err := reviews.ComputeProfessionalStats(h.DB, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Professional stats fetched successfully", stats)
}

// VerifyReview flips a review's moderation flag. Reserved for the external
// moderation caller, authenticated with the configured token; disabled when
// no token is configured.
func (h *ReviewHandler) VerifyReview(c *gin.Context) {
	token := c.GetHeader("X-Moderation-Token")
	if h.Cfg.ModerationToken == "" ||
		subtle.ConstantTimeCompare([]byte(token), []byte(h.Cfg.ModerationToken)) != 1 {
		utils.Forbidden(c, "Review moderation is not available")
		return
	}

	var review models.Review
	if err := h.DB.First(&review, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Review not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	review.IsVerified = true
	if err := h.DB.Save(&review).Error; err != nil {
		utils.InternalServerError(c, "Failed to verify review: "+err.Error())
		return
	}

	utils.Success(c, "Review verified successfully", review)
}
