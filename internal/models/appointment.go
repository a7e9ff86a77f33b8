package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "scheduled"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
	StatusNoShow     AppointmentStatus = "no_show"
)

// Blocks reports whether an appointment in this status occupies its slot.
// Only scheduled and confirmed appointments block; everything else leaves
// the slot bookable.
func (s AppointmentStatus) Blocks() bool {
	return s == StatusScheduled || s == StatusConfirmed
}

// IsTerminal reports whether no further transition may leave this status.
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// Appointment is the authoritative booking record. Date and time-of-day are
// stored as "2006-01-02" and "15:04" strings so the composite uniqueness
// index compares exact values on both MySQL and the sqlite test driver.
//
// SlotGuard backs the uniqueness invariant: it is the empty string while
// the appointment blocks its slot and the row's own id once it stops
// blocking. The unique index over (professional, date, time, slot_guard)
// therefore admits at most one blocking row per slot while letting
// cancelled or finished appointments coexist with a rebooking.
type Appointment struct {
	BaseModel
	PatientID       string            `gorm:"size:36;index;not null" json:"patientId"`
	ProfessionalID  string            `gorm:"size:36;not null;uniqueIndex:idx_professional_slot" json:"professionalId"`
	ServiceID       string            `gorm:"size:36;not null" json:"serviceId"`
	AppointmentDate string            `gorm:"size:10;not null;uniqueIndex:idx_professional_slot" json:"appointmentDate"`
	AppointmentTime string            `gorm:"size:5;not null;uniqueIndex:idx_professional_slot" json:"appointmentTime"`
	Status          AppointmentStatus `gorm:"size:20;default:'scheduled'" json:"status"`
	SlotGuard       string            `gorm:"size:36;not null;default:'';uniqueIndex:idx_professional_slot" json:"-"`
	Notes           string            `gorm:"type:text" json:"notes"`

	ReminderSent   bool       `gorm:"default:false" json:"reminderSent"`
	ReminderSentAt *time.Time `json:"reminderSentAt,omitempty"`

	// Relations
	Patient      User    `gorm:"foreignKey:PatientID" json:"-"`
	Professional User    `gorm:"foreignKey:ProfessionalID" json:"-"`
	Service      Service `gorm:"foreignKey:ServiceID" json:"-"`
}

// BeforeSave keeps SlotGuard in sync with the status on every write.
func (a *Appointment) BeforeSave(tx *gorm.DB) error {
	if a.Status.Blocks() {
		a.SlotGuard = ""
		return nil
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.SlotGuard = a.ID
	return nil
}
