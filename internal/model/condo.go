package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	CondoStatusActive    = "active"
	CondoStatusDemo      = "demo"
	CondoStatusSuspended = "suspended"
	CondoStatusCancelled = "cancelled"
)

// Condo é o tenant: every row owned by a condo carries its CondoID.
type Condo struct {
	gorm.Model
	Name    string `json:"name" gorm:"not null"`
	Slug    string `json:"slug" gorm:"uniqueIndex;not null"`
	CNPJ    string `json:"cnpj"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Status  string `json:"status" gorm:"default:'active'"`

	PlanID *uint `json:"plan_id"`

	// Trial / demo lifecycle
	IsDemo         bool       `json:"is_demo" gorm:"default:false"`
	TrialStartedAt *time.Time `json:"trial_started_at"`
	TrialEndsAt    *time.Time `json:"trial_ends_at" gorm:"index"`

	// LGPD: set when the condo asks to be erased; hard-deleted 30 days later
	DeletionRequestedAt *time.Time `json:"deletion_requested_at"`

	// Relações
	Plan  *Plan  `json:"-" gorm:"foreignKey:PlanID"`
	Units []Unit `json:"-"`
}
