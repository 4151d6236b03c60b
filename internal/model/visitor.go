package model

import (
	"time"

	"gorm.io/gorm"
)

// VisitorLog is a portaria entry. EnteredAt is set on registration and
// LeftAt when the porteiro records the exit.
type VisitorLog struct {
	gorm.Model
	CondoID        uint       `json:"condo_id" gorm:"index;not null"`
	UnitID         uint       `json:"unit_id" gorm:"index;not null"`
	Name           string     `json:"name" gorm:"not null"`
	Document       string     `json:"document"`
	AuthorizedByID *uint      `json:"authorized_by_id"`
	RegisteredByID uint       `json:"registered_by_id"`
	EnteredAt      time.Time  `json:"entered_at"`
	LeftAt         *time.Time `json:"left_at"`
	Notes          string     `json:"notes"`

	// Relações
	Condo Condo `json:"-" gorm:"foreignKey:CondoID"`
	Unit  Unit  `json:"-" gorm:"foreignKey:UnitID"`
}
