package models

// Review is a one-to-one attachment to a completed appointment. Patient and
// professional are copied from the appointment at creation time, never
// accepted as client input. IsVerified starts false and only the moderation
// endpoint flips it; stats count verified reviews exclusively.
type Review struct {
	BaseModel
	PatientID      string `gorm:"size:36;index;not null" json:"patientId"`
	ProfessionalID string `gorm:"size:36;index;not null" json:"professionalId"`
	AppointmentID  string `gorm:"size:36;uniqueIndex;not null" json:"appointmentId"`
	Rating         int    `gorm:"not null" json:"rating"` // 1-5
	Comment        string `gorm:"size:500" json:"comment,omitempty"`
	IsVerified     bool   `gorm:"default:false" json:"isVerified"`

	// Relations
	Patient      User        `gorm:"foreignKey:PatientID" json:"-"`
	Professional User        `gorm:"foreignKey:ProfessionalID" json:"-"`
	Appointment  Appointment `gorm:"foreignKey:AppointmentID" json:"-"`
}
