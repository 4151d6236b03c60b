package model

import (
	"time"

	"gorm.io/gorm"
)

type MaintenanceTask struct {
	gorm.Model
	CondoID     uint       `json:"condo_id" gorm:"index;not null"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description" gorm:"type:text"`
	DueDate     time.Time  `json:"due_date" gorm:"index"`
	Status      string     `json:"status" gorm:"default:'pending'"` // pending, done
	NotifiedAt  *time.Time `json:"notified_at"`

	// Relações
	Condo Condo `json:"-" gorm:"foreignKey:CondoID"`
}
