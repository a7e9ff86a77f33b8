package models

// Service represents a medical service offered for booking. Edited only
// administratively once appointments reference it.
type Service struct {
	BaseModel
	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Duration    int     `gorm:"not null;default:30" json:"duration"` // minutes
	Price       float64 `gorm:"type:decimal(10,2);default:0" json:"price"`
}
