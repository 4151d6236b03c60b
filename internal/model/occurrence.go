package model

import "gorm.io/gorm"

const (
	OccurrenceStatusOpen       = "open"
	OccurrenceStatusInProgress = "in_progress"
	OccurrenceStatusResolved   = "resolved"
)

// Occurrence is an ocorrência reported by a resident (leak, noise, damage).
type Occurrence struct {
	gorm.Model
	CondoID      uint   `json:"condo_id" gorm:"index;not null"`
	UnitID       *uint  `json:"unit_id"`
	ReportedByID uint   `json:"reported_by_id"`
	Title        string `json:"title" gorm:"not null"`
	Description  string `json:"description" gorm:"type:text"`
	Category     string `json:"category"`
	Status       string `json:"status" gorm:"default:'open'"`
	PhotoURL     string `json:"photo_url"`

	// Relações
	Condo      Condo `json:"-" gorm:"foreignKey:CondoID"`
	ReportedBy User  `json:"-" gorm:"foreignKey:ReportedByID"`
}
