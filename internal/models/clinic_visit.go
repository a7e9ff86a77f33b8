package models

// ClinicVisit summarizes the completed appointments between one patient and
// one professional: first/last visit dates and the total count, plus a
// snapshot of the clinic details. It is derived data, recomputed whenever
// an appointment between the pair completes, and never contradicts the
// appointments it summarizes.
type ClinicVisit struct {
	BaseModel
	PatientID      string `gorm:"size:36;not null;uniqueIndex:idx_patient_professional" json:"patientId"`
	ProfessionalID string `gorm:"size:36;not null;uniqueIndex:idx_patient_professional" json:"professionalId"`

	FirstVisitDate string `gorm:"size:10" json:"firstVisitDate"`
	LastVisitDate  string `gorm:"size:10" json:"lastVisitDate"`
	TotalVisits    int    `gorm:"default:1" json:"totalVisits"`

	// Clinic snapshot at recompute time
	ClinicName       string `gorm:"size:200" json:"clinicName"`
	ClinicAddress    string `gorm:"type:text" json:"clinicAddress"`
	ClinicPhone      string `gorm:"size:20" json:"clinicPhone,omitempty"`
	SpecialtyVisited string `gorm:"size:100" json:"specialtyVisited"`

	// Relations
	Patient      User `gorm:"foreignKey:PatientID" json:"-"`
	Professional User `gorm:"foreignKey:ProfessionalID" json:"-"`
}
