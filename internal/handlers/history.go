package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"medical-booking-server/internal/history"
	"medical-booking-server/internal/middleware"
	"medical-booking-server/internal/models"
	"medical-booking-server/internal/utils"
)

// HistoryHandler serves clinic visit history summaries.
type HistoryHandler struct {
	DB *gorm.DB
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(db *gorm.DB) *HistoryHandler {
	return &HistoryHandler{DB: db}
}

// GetVisitHistory lists visit summaries scoped to the caller: patients see
// the clinics they visited, professionals the patients who visited them.
func (h *HistoryHandler) GetVisitHistory(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	userRole, _ := middleware.GetUserRoleFromContext(c)

	var visits []models.ClinicVisit
	var err error
	switch userRole {
	case models.RolePatient:
		visits, err = history.ForPatient(h.DB, userID)
	case models.RoleProfessional:
		visits, err = history.ForProfessional(h.DB, userID)
	default:
		utils.Forbidden(c, "User role not permitted to view visit history")
		return
	}
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, "Visit history fetched successfully", visits)
}
