package model

import (
	"time"

	"gorm.io/gorm"
)

// DemoSession links the operator who provisioned a demo condo to the condo
// and its expiry, so the sales flow can find it again by email.
type DemoSession struct {
	gorm.Model
	CondoID       uint      `json:"condo_id" gorm:"index;not null"`
	OperatorEmail string    `json:"operator_email" gorm:"index;not null"`
	Token         string    `json:"token" gorm:"uniqueIndex;not null"`
	ExpiresAt     time.Time `json:"expires_at"`

	// Relações
	Condo Condo `json:"-" gorm:"foreignKey:CondoID"`
}
