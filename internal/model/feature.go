package model

import (
	"time"

	"gorm.io/gorm"
)

// FeatureFlag is the global feature catalog. IsAvailable=false marks features
// that exist in the catalog but cannot be enabled for anyone yet
// (ex: reconhecimento_facial while the integration is a stub).
type FeatureFlag struct {
	gorm.Model
	Key         string `json:"key" gorm:"uniqueIndex;not null"`
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description"`
	IsAvailable bool   `json:"is_available" gorm:"default:true"`
}

// PlanFeature associates a plan with a feature. At most one row per
// (plan, feature) pair.
type PlanFeature struct {
	gorm.Model
	PlanID           uint `json:"plan_id" gorm:"uniqueIndex:idx_plan_feature;not null"`
	FeatureFlagID    uint `json:"feature_flag_id" gorm:"uniqueIndex:idx_plan_feature;not null"`
	EnabledByDefault bool `json:"enabled_by_default" gorm:"default:false"`
	CanBeToggled     bool `json:"can_be_toggled" gorm:"default:true"`

	// Relações
	Plan        Plan        `json:"-" gorm:"foreignKey:PlanID"`
	FeatureFlag FeatureFlag `json:"-" gorm:"foreignKey:FeatureFlagID"`
}

// CondoFeature overrides the plan default for one condo. Unique on
// (condo_id, feature_key); upserted by the toggle flow.
type CondoFeature struct {
	gorm.Model
	CondoID            uint    `json:"condo_id" gorm:"uniqueIndex:idx_condo_feature;not null"`
	FeatureKey         string  `json:"feature_key" gorm:"uniqueIndex:idx_condo_feature;not null"`
	IsActive           bool    `json:"is_active"`
	MonthlyFee         float64 `json:"monthly_fee"`
	ImplementationPaid bool    `json:"implementation_paid"`

	// Relações
	Condo Condo `json:"-" gorm:"foreignKey:CondoID"`
}

// FeatureActivationLog is append-only: one row per enable/disable action,
// never updated. Replaces the mutable activation_log array the product
// UI used to show.
type FeatureActivationLog struct {
	ID         uint      `gorm:"primaryKey"`
	CondoID    uint      `json:"condo_id" gorm:"index;not null"`
	FeatureKey string    `json:"feature_key" gorm:"index;not null"`
	Action     string    `json:"action"` // "enabled" | "disabled"
	ActorID    uint      `json:"actor_id"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (FeatureActivationLog) TableName() string {
	return "feature_activation_logs"
}
