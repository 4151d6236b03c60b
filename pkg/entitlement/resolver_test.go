package entitlement_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"condofacil_backend/internal/model"
	"condofacil_backend/pkg/entitlement"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.Condo{},
		&model.Plan{},
		&model.FeatureFlag{},
		&model.PlanFeature{},
		&model.CondoFeature{},
		&model.FeatureActivationLog{},
		&model.AuditLog{},
	)
	require.NoError(t, err)
	return db
}

type fixture struct {
	condo model.Condo
	plan  model.Plan
	flags map[string]model.FeatureFlag
}

func seedEntitlements(t *testing.T, db *gorm.DB) fixture {
	plan := model.Plan{Name: "Profissional", MonthlyPrice: 199.90}
	require.NoError(t, db.Create(&plan).Error)

	flags := map[string]model.FeatureFlag{
		"portaria_digital":      {Key: "portaria_digital", Name: "Portaria Digital", IsAvailable: true},
		"chat_sindico":          {Key: "chat_sindico", Name: "Chat com o Síndico", IsAvailable: true},
		"suporte_prioritario":   {Key: "suporte_prioritario", Name: "Suporte Prioritário", IsAvailable: true},
		"reconhecimento_facial": {Key: "reconhecimento_facial", Name: "Reconhecimento Facial", IsAvailable: false},
	}
	for key, flag := range flags {
		require.NoError(t, db.Create(&flag).Error)
		flags[key] = flag
	}

	planFeatures := []model.PlanFeature{
		{PlanID: plan.ID, FeatureFlagID: flags["portaria_digital"].ID, EnabledByDefault: false, CanBeToggled: true},
		{PlanID: plan.ID, FeatureFlagID: flags["chat_sindico"].ID, EnabledByDefault: true, CanBeToggled: true},
		{PlanID: plan.ID, FeatureFlagID: flags["suporte_prioritario"].ID, EnabledByDefault: true, CanBeToggled: false},
		{PlanID: plan.ID, FeatureFlagID: flags["reconhecimento_facial"].ID, EnabledByDefault: false, CanBeToggled: true},
	}
	require.NoError(t, db.Create(&planFeatures).Error)

	condo := model.Condo{Name: "Residencial Aurora", Slug: "residencial-aurora", PlanID: &plan.ID}
	require.NoError(t, db.Create(&condo).Error)

	return fixture{condo: condo, plan: plan, flags: flags}
}

func TestResolvePlanDefaults(t *testing.T) {
	db := setupTestDB(t)
	f := seedEntitlements(t, db)

	res, err := entitlement.Resolve(db, f.condo.ID, "chat_sindico")
	require.NoError(t, err)
	assert.True(t, res.Available)
	assert.True(t, res.Enabled)
	assert.False(t, res.Overridden)

	res, err = entitlement.Resolve(db, f.condo.ID, "portaria_digital")
	require.NoError(t, err)
	assert.True(t, res.Available)
	assert.False(t, res.Enabled)
}

func TestResolveOverrideWins(t *testing.T) {
	db := setupTestDB(t)
	f := seedEntitlements(t, db)

	override := model.CondoFeature{
		CondoID:    f.condo.ID,
		FeatureKey: "portaria_digital",
		IsActive:   true,
		MonthlyFee: 49.90,
	}
	require.NoError(t, db.Create(&override).Error)

	res, err := entitlement.Resolve(db, f.condo.ID, "portaria_digital")
	require.NoError(t, err)
	assert.True(t, res.Enabled)
	assert.True(t, res.Overridden)
	assert.Equal(t, 49.90, res.MonthlyFee)
}

func TestResolveUnknownFeatureFailsClosed(t *testing.T) {
	db := setupTestDB(t)
	f := seedEntitlements(t, db)

	res, err := entitlement.Resolve(db, f.condo.ID, "piscina_aquecida")
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.False(t, res.Enabled)
}

func TestResolveFeatureOutsidePlanFailsClosed(t *testing.T) {
	db := setupTestDB(t)
	f := seedEntitlements(t, db)

	// the flag exists in the catalog but this plan does not carry it
	extra := model.FeatureFlag{Key: "reserva_espacos", Name: "Reserva de Espaços", IsAvailable: true}
	require.NoError(t, db.Create(&extra).Error)

	res, err := entitlement.Resolve(db, f.condo.ID, "reserva_espacos")
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.False(t, res.Enabled)
}

func TestResolveCondoWithoutPlan(t *testing.T) {
	db := setupTestDB(t)
	seedEntitlements(t, db)

	bare := model.Condo{Name: "Sem Plano", Slug: "sem-plano"}
	require.NoError(t, db.Create(&bare).Error)

	res, err := entitlement.Resolve(db, bare.ID, "chat_sindico")
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.False(t, res.Enabled)
}

func TestToggleUpsertsOverrideAndAppendsLogs(t *testing.T) {
	db := setupTestDB(t)
	f := seedEntitlements(t, db)

	res, err := entitlement.Toggle(db, f.condo.ID, "portaria_digital", true, 42)
	require.NoError(t, err)
	assert.True(t, res.Enabled)
	assert.True(t, res.Overridden)

	res, err = entitlement.Toggle(db, f.condo.ID, "portaria_digital", false, 42)
	require.NoError(t, err)
	assert.False(t, res.Enabled)

	// repeated toggles reuse one override row but keep the full history
	var overrides int64
	db.Model(&model.CondoFeature{}).
		Where("condo_id = ? AND feature_key = ?", f.condo.ID, "portaria_digital").
		Count(&overrides)
	assert.Equal(t, int64(1), overrides)

	var logs []model.FeatureActivationLog
	require.NoError(t, db.Where("condo_id = ?", f.condo.ID).Order("id asc").Find(&logs).Error)
	require.Len(t, logs, 2)
	assert.Equal(t, "enabled", logs[0].Action)
	assert.Equal(t, "disabled", logs[1].Action)
	assert.Equal(t, uint(42), logs[0].ActorID)

	var audits int64
	db.Model(&model.AuditLog{}).Where("condo_id = ?", f.condo.ID).Count(&audits)
	assert.Equal(t, int64(2), audits)
}

func TestToggleUnavailableFeatureLeavesNoOverride(t *testing.T) {
	db := setupTestDB(t)
	f := seedEntitlements(t, db)

	_, err := entitlement.Toggle(db, f.condo.ID, "reconhecimento_facial", true, 1)
	assert.True(t, errors.Is(err, entitlement.ErrFeatureUnavailable))

	var count int64
	db.Model(&model.CondoFeature{}).Where("condo_id = ?", f.condo.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	db.Model(&model.FeatureActivationLog{}).Where("condo_id = ?", f.condo.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestToggleFixedFeature(t *testing.T) {
	db := setupTestDB(t)
	f := seedEntitlements(t, db)

	_, err := entitlement.Toggle(db, f.condo.ID, "suporte_prioritario", false, 1)
	assert.True(t, errors.Is(err, entitlement.ErrFeatureNotToggleable))
}

func TestToggleUnknownFeature(t *testing.T) {
	db := setupTestDB(t)
	f := seedEntitlements(t, db)

	_, err := entitlement.Toggle(db, f.condo.ID, "piscina_aquecida", true, 1)
	assert.True(t, errors.Is(err, entitlement.ErrFeatureNotFound))
}

func TestResolveAllMatrix(t *testing.T) {
	db := setupTestDB(t)
	f := seedEntitlements(t, db)

	_, err := entitlement.Toggle(db, f.condo.ID, "portaria_digital", true, 1)
	require.NoError(t, err)

	matrix, err := entitlement.ResolveAll(db, f.condo.ID)
	require.NoError(t, err)
	require.Len(t, matrix, 4)
	assert.True(t, matrix["portaria_digital"].Enabled)
	assert.True(t, matrix["portaria_digital"].Overridden)
	assert.True(t, matrix["chat_sindico"].Enabled)
	assert.False(t, matrix["chat_sindico"].Overridden)
}
