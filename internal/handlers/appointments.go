package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"medical-booking-server/internal/config"
	"medical-booking-server/internal/middleware"
	"medical-booking-server/internal/models"
	"medical-booking-server/internal/scheduling"
	"medical-booking-server/internal/utils"
	"medical-booking-server/internal/webhooks"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Checker  *scheduling.Checker
	Booker   *scheduling.Booker
	Notifier *webhooks.Notifier
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB, cfg *config.Config, checker *scheduling.Checker, booker *scheduling.Booker, notifier *webhooks.Notifier) *AppointmentHandler {
	return &AppointmentHandler{DB: db, Cfg: cfg, Checker: checker, Booker: booker, Notifier: notifier}
}

// AppointmentResponse is the appointment shape returned by the API,
// including the names and the computed cancellation/past-due flags.
type AppointmentResponse struct {
	models.Appointment
	PatientName      string `json:"patientName"`
	ProfessionalName string `json:"professionalName"`
	ServiceName      string `json:"serviceName"`
	CanBeCancelled   bool   `json:"canBeCancelled"`
	IsPastDue        bool   `json:"isPastDue"`
}

func (h *AppointmentHandler) toResponse(a models.Appointment) AppointmentResponse {
	now := h.Booker.Now()
	rules := h.Cfg.Booking
	canCancel, _ := scheduling.CanBeCancelled(a.AppointmentDate, a.AppointmentTime,
		rules.Location, now, rules.CancellationWindow())
	pastDue, _ := scheduling.IsPastDue(a.AppointmentDate, a.AppointmentTime, rules.Location, now)
	return AppointmentResponse{
		Appointment:      a,
		PatientName:      a.Patient.FullName(),
		ProfessionalName: a.Professional.FullName(),
		ServiceName:      a.Service.Name,
		CanBeCancelled:   canCancel,
		IsPastDue:        pastDue,
	}
}

// CreateAppointmentRequest represents the request body for creating an appointment.
type CreateAppointmentRequest struct {
	ProfessionalID  string `json:"professionalId" binding:"required,uuid"`
	ServiceID       string `json:"serviceId" binding:"required,uuid"`
	AppointmentDate string `json:"appointmentDate" binding:"required"`
	AppointmentTime string `json:"appointmentTime" binding:"required"`
	Notes           string `json:"notes"`
	// PatientID is only honored for professional-initiated bookings, and
	// only when the server allows those.
	PatientID string `json:"patientId" binding:"omitempty,uuid"`
}

// CreateAppointment books a new appointment. Patients book for themselves;
// professionals may book on a patient's behalf when the configuration
// allows it.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	userRole, _ := middleware.GetUserRoleFromContext(c)

	patientID := userID
	switch userRole {
	case models.RolePatient:
		if req.PatientID != "" && req.PatientID != userID {
			utils.Forbidden(c, "Patients can only book appointments for themselves")
			return
		}
	case models.RoleProfessional:
		if !h.Cfg.Booking.ProfessionalBooking {
			utils.Forbidden(c, "Only patients can create appointments")
			return
		}
		if req.PatientID == "" {
			utils.BadRequest(c, "A patient id is required for professional-initiated bookings")
			return
		}
		patientID = req.PatientID
	default:
		utils.Forbidden(c, "Only patients can create appointments")
		return
	}

	var patient models.User
	if err := h.DB.Where("id = ? AND role = ?", patientID, models.RolePatient).First(&patient).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error verifying patient: "+err.Error())
		}
		return
	}

	appointment, err := h.Booker.Book(scheduling.BookingRequest{
		PatientID:      patientID,
		ProfessionalID: req.ProfessionalID,
		ServiceID:      req.ServiceID,
		Date:           req.AppointmentDate,
		TimeOfDay:      req.AppointmentTime,
		Notes:          req.Notes,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	h.notify(webhooks.EventAppointmentCreated, appointment.ID)
	utils.Created(c, "Appointment created successfully", h.toResponse(h.loaded(appointment.ID)))
}

// GetAppointmentsForUser lists the caller's appointments: patients see the
// ones they booked, professionals their agenda.
func (h *AppointmentHandler) GetAppointmentsForUser(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	userRole, _ := middleware.GetUserRoleFromContext(c)

	query := h.DB.Preload("Patient").Preload("Professional").Preload("Service").
		Order("appointment_date desc, appointment_time asc")

	var appointments []models.Appointment
	var err error
	switch userRole {
	case models.RolePatient:
		err = query.Where("patient_id = ?", userID).Find(&appointments).Error
	case models.RoleProfessional:
		err = query.Where("professional_id = ?", userID).Find(&appointments).Error
	default:
		utils.Forbidden(c, "User role not permitted to view appointments")
		return
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	response := make([]AppointmentResponse, 0, len(appointments))
	for _, a := range appointments {
		response = append(response, h.toResponse(a))
	}
	utils.Success(c, "Appointments fetched successfully", response)
}

// GetAppointmentByID fetches a single appointment. Only the involved
// patient or professional may see it.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	var appointment models.Appointment
	err := h.DB.Preload("Patient").Preload("Professional").Preload("Service").
		First(&appointment, "id = ?", c.Param("id")).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	if userID != appointment.PatientID && userID != appointment.ProfessionalID {
		utils.Forbidden(c, "You are not authorized to view this appointment")
		return
	}

	utils.Success(c, "Appointment fetched successfully", h.toResponse(appointment))
}

// UpdateAppointmentStatusRequest represents the request body for updating
// an appointment's status.
type UpdateAppointmentStatusRequest struct {
	Status models.AppointmentStatus `json:"status" binding:"required,oneof=scheduled confirmed in_progress completed cancelled no_show"`
	Notes  string                   `json:"notes"`
}

// UpdateAppointmentStatus applies a lifecycle transition. Professionals
// drive the normal progression on their own appointments; patients may
// only cancel theirs, and only while the cancellation window is open.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	var req UpdateAppointmentStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)

	switch {
	case userRole == models.RoleProfessional && userID == appointment.ProfessionalID:
		// Professionals may apply any legal transition on their own agenda.
	case userRole == models.RolePatient && userID == appointment.PatientID:
		if req.Status != models.StatusCancelled {
			utils.Forbidden(c, "Patients can only cancel appointments")
			return
		}
	default:
		utils.Forbidden(c, "You are not authorized to update this appointment's status")
		return
	}

	if req.Notes != "" {
		appointment.Notes = req.Notes
	}

	if err := h.Booker.Transition(&appointment, req.Status); err != nil {
		utils.RespondError(c, err)
		return
	}

	switch req.Status {
	case models.StatusConfirmed:
		h.notify(webhooks.EventAppointmentConfirmed, appointment.ID)
	case models.StatusCancelled:
		h.notify(webhooks.EventAppointmentCancelled, appointment.ID)
	}

	utils.Success(c, "Appointment status updated successfully", h.toResponse(h.loaded(appointment.ID)))
}

// RescheduleAppointmentRequest represents the request body for moving an
// appointment to a new date and time.
type RescheduleAppointmentRequest struct {
	AppointmentDate string `json:"appointmentDate" binding:"required"`
	AppointmentTime string `json:"appointmentTime" binding:"required"`
	Notes           string `json:"notes"`
}

// RescheduleAppointment moves an appointment, re-validating availability
// for the new slot while excluding the appointment itself.
func (h *AppointmentHandler) RescheduleAppointment(c *gin.Context) {
	var req RescheduleAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	if userID != appointment.PatientID && userID != appointment.ProfessionalID {
		utils.Forbidden(c, "You are not authorized to reschedule this appointment")
		return
	}

	if req.Notes != "" {
		appointment.Notes = req.Notes
	}

	if err := h.Booker.Reschedule(&appointment, req.AppointmentDate, req.AppointmentTime); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, "Appointment rescheduled successfully", h.toResponse(h.loaded(appointment.ID)))
}

// GetAvailableSlots lists the free slot times for a professional on a date.
func (h *AppointmentHandler) GetAvailableSlots(c *gin.Context) {
	professionalID := c.Query("professional_id")
	date := c.Query("date")
	if professionalID == "" || date == "" {
		utils.BadRequest(c, "professional_id and date query parameters are required")
		return
	}

	slots, err := h.Checker.FreeSlots(professionalID, date)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, "Available slots fetched successfully", gin.H{
		"professionalId": professionalID,
		"date":           date,
		"availableSlots": slots,
	})
}

// loaded re-reads an appointment with its relations for response building.
func (h *AppointmentHandler) loaded(id string) models.Appointment {
	var appointment models.Appointment
	h.DB.Preload("Patient").Preload("Professional").Preload("Service").
		First(&appointment, "id = ?", id)
	return appointment
}

// notify loads the appointment with relations and emits a webhook event.
func (h *AppointmentHandler) notify(eventType, appointmentID string) {
	if h.Notifier == nil {
		return
	}
	appointment := h.loaded(appointmentID)
	if appointment.ID == "" {
		return
	}
	h.Notifier.NotifyAppointment(eventType, &appointment)
}
