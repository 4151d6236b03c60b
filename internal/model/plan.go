package model

import "gorm.io/gorm"

// Plan is a global catalog entry shared by many condos; it is never deleted
// while an active subscription references it.
type Plan struct {
	gorm.Model
	Name            string  `json:"name" gorm:"uniqueIndex;not null"`
	Description     string  `json:"description"`
	MonthlyPrice    float64 `json:"monthly_price" gorm:"not null"`
	StripeProductID string  `json:"stripe_product_id"`
	StripePriceID   string  `json:"stripe_price_id"`

	// Relações
	Features      []PlanFeature  `json:"-"`
	Subscriptions []Subscription `json:"-"`
}
