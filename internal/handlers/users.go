package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"medical-booking-server/internal/models"
	"medical-booking-server/internal/utils"
)

// UserHandler handles user related requests.
type UserHandler struct {
	DB *gorm.DB
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db}
}

// ProfessionalResponse is the canonical shape for professional listings.
type ProfessionalResponse struct {
	ID            string `json:"id"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	Phone         string `json:"phone,omitempty"`
	Specialty     string `json:"specialty"`
	LicenseNumber string `json:"licenseNumber,omitempty"`
	ClinicName    string `json:"clinicName,omitempty"`
	ClinicAddress string `json:"clinicAddress,omitempty"`
}

// GetProfessionals lists all active health professionals.
func (h *UserHandler) GetProfessionals(c *gin.Context) {
	var professionals []models.User
	err := h.DB.Where("role = ? AND is_active = ?", models.RoleProfessional, true).
		Order("last_name asc, first_name asc").
		Find(&professionals).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch professionals: "+err.Error())
		return
	}

	response := make([]ProfessionalResponse, 0, len(professionals))
	for _, p := range professionals {
		response = append(response, ProfessionalResponse{
			ID:            p.ID,
			FirstName:     p.FirstName,
			LastName:      p.LastName,
			Email:         p.Email,
			Phone:         p.Phone,
			Specialty:     p.Specialty,
			LicenseNumber: p.LicenseNumber,
			ClinicName:    p.ClinicName,
			ClinicAddress: p.ClinicAddress,
		})
	}

	utils.Success(c, "Professionals fetched successfully", response)
}

// GetProfessionalByID fetches a single active professional.
func (h *UserHandler) GetProfessionalByID(c *gin.Context) {
	var professional models.User
	err := h.DB.Where("id = ? AND role = ? AND is_active = ?",
		c.Param("id"), models.RoleProfessional, true).
		First(&professional).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Professional not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "Professional fetched successfully", ProfessionalResponse{
		ID:            professional.ID,
		FirstName:     professional.FirstName,
		LastName:      professional.LastName,
		Email:         professional.Email,
		Phone:         professional.Phone,
		Specialty:     professional.Specialty,
		LicenseNumber: professional.LicenseNumber,
		ClinicName:    professional.ClinicName,
		ClinicAddress: professional.ClinicAddress,
	})
}
