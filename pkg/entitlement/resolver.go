package entitlement

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"condofacil_backend/internal/model"
)

var (
	// ErrFeatureNotFound means the key does not exist in the catalog (404).
	ErrFeatureNotFound = errors.New("feature not found")
	// ErrFeatureUnavailable means the feature exists but is globally switched
	// off (is_available = false); toggling it is a validation error, not a
	// not-found (400).
	ErrFeatureUnavailable = errors.New("feature is not available yet")
	// ErrFeatureNotToggleable means the condo's plan does not carry the
	// feature or carries it as fixed.
	ErrFeatureNotToggleable = errors.New("feature cannot be toggled on this plan")
)

// Resolution is the merged answer for one (condo, feature) pair.
type Resolution struct {
	FeatureKey         string  `json:"feature_key"`
	Available          bool    `json:"available"`
	Enabled            bool    `json:"enabled"`
	Overridden         bool    `json:"overridden"`
	MonthlyFee         float64 `json:"monthly_fee"`
	ImplementationPaid bool    `json:"implementation_paid"`
}

// Resolve answers "is feature X enabled for condo Y". A feature the plan does
// not carry resolves to disabled, never to an error: gating fails closed.
func Resolve(db *gorm.DB, condoID uint, featureKey string) (Resolution, error) {
	res := Resolution{FeatureKey: featureKey}

	var condo model.Condo
	if err := db.First(&condo, condoID).Error; err != nil {
		return res, err
	}
	if condo.PlanID == nil {
		return res, nil
	}

	var flag model.FeatureFlag
	if err := db.Where("key = ?", featureKey).First(&flag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return res, nil
		}
		return res, err
	}

	var planFeature model.PlanFeature
	err := db.Where("plan_id = ? AND feature_flag_id = ?", *condo.PlanID, flag.ID).
		First(&planFeature).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return res, nil
		}
		return res, err
	}

	res.Available = true
	res.Enabled = planFeature.EnabledByDefault

	var override model.CondoFeature
	err = db.Where("condo_id = ? AND feature_key = ?", condoID, featureKey).
		First(&override).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return res, nil
		}
		return res, err
	}

	res.Overridden = true
	res.Enabled = override.IsActive
	res.MonthlyFee = override.MonthlyFee
	res.ImplementationPaid = override.ImplementationPaid
	return res, nil
}

// ResolveAll resolves every feature the condo's plan carries, keyed by
// feature key. Used by the dashboard to render the whole feature matrix in
// one call.
func ResolveAll(db *gorm.DB, condoID uint) (map[string]Resolution, error) {
	out := map[string]Resolution{}

	var condo model.Condo
	if err := db.First(&condo, condoID).Error; err != nil {
		return nil, err
	}
	if condo.PlanID == nil {
		return out, nil
	}

	var planFeatures []model.PlanFeature
	if err := db.Preload("FeatureFlag").
		Where("plan_id = ?", *condo.PlanID).
		Find(&planFeatures).Error; err != nil {
		return nil, err
	}

	var overrides []model.CondoFeature
	if err := db.Where("condo_id = ?", condoID).Find(&overrides).Error; err != nil {
		return nil, err
	}
	byKey := make(map[string]model.CondoFeature, len(overrides))
	for _, o := range overrides {
		byKey[o.FeatureKey] = o
	}

	for _, pf := range planFeatures {
		res := Resolution{
			FeatureKey: pf.FeatureFlag.Key,
			Available:  true,
			Enabled:    pf.EnabledByDefault,
		}
		if o, ok := byKey[pf.FeatureFlag.Key]; ok {
			res.Overridden = true
			res.Enabled = o.IsActive
			res.MonthlyFee = o.MonthlyFee
			res.ImplementationPaid = o.ImplementationPaid
		}
		out[res.FeatureKey] = res
	}
	return out, nil
}

// Toggle flips a feature for one condo. The override upsert, the activation
// log append and the audit trail entry commit or roll back as one unit.
func Toggle(db *gorm.DB, condoID uint, featureKey string, enable bool, actorID uint) (Resolution, error) {
	var res Resolution

	err := db.Transaction(func(tx *gorm.DB) error {
		var flag model.FeatureFlag
		if err := tx.Where("key = ?", featureKey).First(&flag).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFeatureNotFound
			}
			return err
		}
		if !flag.IsAvailable {
			return ErrFeatureUnavailable
		}

		var condo model.Condo
		if err := tx.First(&condo, condoID).Error; err != nil {
			return err
		}
		if condo.PlanID == nil {
			return ErrFeatureNotToggleable
		}

		var planFeature model.PlanFeature
		err := tx.Where("plan_id = ? AND feature_flag_id = ?", *condo.PlanID, flag.ID).
			First(&planFeature).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFeatureNotToggleable
			}
			return err
		}
		if !planFeature.CanBeToggled {
			return ErrFeatureNotToggleable
		}

		override := model.CondoFeature{
			CondoID:    condoID,
			FeatureKey: featureKey,
			IsActive:   enable,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "condo_id"}, {Name: "feature_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_active", "updated_at"}),
		}).Create(&override).Error; err != nil {
			return err
		}

		action := "disabled"
		if enable {
			action = "enabled"
		}

		// append, never replace: history survives repeated toggles
		if err := tx.Create(&model.FeatureActivationLog{
			CondoID:    condoID,
			FeatureKey: featureKey,
			Action:     action,
			ActorID:    actorID,
		}).Error; err != nil {
			return err
		}

		return tx.Create(&model.AuditLog{
			CondoID: &condoID,
			ActorID: actorID,
			Action:  "feature_" + action,
			Entity:  "condo_feature",
			Detail:  fmt.Sprintf("feature %s %s", featureKey, action),
		}).Error
	})
	if err != nil {
		return res, err
	}

	return Resolve(db, condoID, featureKey)
}
