package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"
	SubscriptionStatusPastDue   = "past_due"
)

// Subscription links a condo to a plan. The billing flows treat the newest
// active row as the current one; older rows stay for history.
type Subscription struct {
	gorm.Model
	CondoID     uint       `json:"condo_id" gorm:"index;not null"`
	PlanID      uint       `json:"plan_id" gorm:"not null"`
	Status      string     `json:"status" gorm:"default:'active'"`
	StripeSubID string     `json:"stripe_subscription_id"`
	ExpiresAt   *time.Time `json:"expires_at"`

	// Relações
	Condo Condo `json:"-" gorm:"foreignKey:CondoID"`
	Plan  Plan  `json:"-" gorm:"foreignKey:PlanID"`
}
