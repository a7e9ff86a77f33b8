package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"medical-booking-server/internal/models"
	"medical-booking-server/internal/utils"
)

// ServiceHandler handles medical service catalog requests.
type ServiceHandler struct {
	DB *gorm.DB
}

// NewServiceHandler creates a new ServiceHandler.
func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{DB: db}
}

// GetServices lists all services.
func (h *ServiceHandler) GetServices(c *gin.Context) {
	var services []models.Service
	if err := h.DB.Order("name asc").Find(&services).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch services: "+err.Error())
		return
	}
	utils.Success(c, "Services fetched successfully", services)
}

// GetServiceByID fetches a single service.
func (h *ServiceHandler) GetServiceByID(c *gin.Context) {
	var service models.Service
	if err := h.DB.First(&service, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Service not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}
	utils.Success(c, "Service fetched successfully", service)
}

// CreateServiceRequest represents the request body for creating a service.
type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Duration    int     `json:"duration" binding:"required,gt=0"`
	Price       float64 `json:"price" binding:"gte=0"`
}

// CreateService adds a service to the catalog. Professionals only.
func (h *ServiceHandler) CreateService(c *gin.Context) {
	var req CreateServiceRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	service := models.Service{
		Name:        req.Name,
		Description: req.Description,
		Duration:    req.Duration,
		Price:       req.Price,
	}
	if err := h.DB.Create(&service).Error; err != nil {
		utils.InternalServerError(c, "Failed to create service: "+err.Error())
		return
	}

	utils.Created(c, "Service created successfully", service)
}

// UpdateServiceRequest represents the request body for editing a service.
type UpdateServiceRequest struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Duration    int      `json:"duration" binding:"omitempty,gt=0"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
}

// UpdateService edits a catalog entry. Services referenced by appointments
// are only administratively edited; there is no delete.
func (h *ServiceHandler) UpdateService(c *gin.Context) {
	var req UpdateServiceRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var service models.Service
	if err := h.DB.First(&service, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Service not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if req.Name != "" {
		service.Name = req.Name
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.Duration > 0 {
		service.Duration = req.Duration
	}
	if req.Price != nil {
		service.Price = *req.Price
	}

	if err := h.DB.Save(&service).Error; err != nil {
		utils.InternalServerError(c, "Failed to update service: "+err.Error())
		return
	}

	utils.Success(c, "Service updated successfully", service)
}
