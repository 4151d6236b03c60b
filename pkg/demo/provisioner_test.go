package demo_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"condofacil_backend/internal/model"
	"condofacil_backend/pkg/demo"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.Condo{},
		&model.Unit{},
		&model.User{},
		&model.Plan{},
		&model.CondoFeature{},
		&model.FeatureActivationLog{},
		&model.Subscription{},
		&model.Charge{},
		&model.Payment{},
		&model.Notice{},
		&model.Occurrence{},
		&model.VisitorLog{},
		&model.Assembly{},
		&model.Poll{},
		&model.Vote{},
		&model.SupportTicket{},
		&model.TicketMessage{},
		&model.PendingNotification{},
		&model.DemoSession{},
		&model.MaintenanceTask{},
	)
	require.NoError(t, err)
	return db
}

func TestCreateDemoCondoSeedsSampleData(t *testing.T) {
	db := setupTestDB(t)

	plan := model.Plan{Name: "Profissional", MonthlyPrice: 199.90}
	require.NoError(t, db.Create(&plan).Error)

	condo, session, err := demo.CreateDemoCondo(db, "vendedor@condofacil.app", "Residencial Teste")
	require.NoError(t, err)

	assert.True(t, condo.IsDemo)
	assert.Equal(t, model.CondoStatusDemo, condo.Status)
	require.NotNil(t, condo.TrialEndsAt)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, demo.DemoWindowDays), *condo.TrialEndsAt, time.Minute)
	require.NotNil(t, condo.PlanID)
	assert.Equal(t, plan.ID, *condo.PlanID)

	assert.NotEmpty(t, session.Token)
	assert.Equal(t, condo.ID, session.CondoID)
	assert.Equal(t, "vendedor@condofacil.app", session.OperatorEmail)

	var units, notices, occurrences int64
	db.Model(&model.Unit{}).Where("condo_id = ?", condo.ID).Count(&units)
	db.Model(&model.Notice{}).Where("condo_id = ?", condo.ID).Count(&notices)
	db.Model(&model.Occurrence{}).Where("condo_id = ?", condo.ID).Count(&occurrences)
	assert.Equal(t, int64(3), units)
	assert.Equal(t, int64(1), notices)
	assert.Equal(t, int64(1), occurrences)
}

func TestCreateDemoCondoWithoutPlanCatalog(t *testing.T) {
	db := setupTestDB(t)

	condo, _, err := demo.CreateDemoCondo(db, "vendedor@condofacil.app", "Sem Catálogo")
	require.NoError(t, err)
	assert.Nil(t, condo.PlanID)
}

func TestResetDemoCondoRestoresSampleState(t *testing.T) {
	db := setupTestDB(t)

	condo, _, err := demo.CreateDemoCondo(db, "vendedor@condofacil.app", "Residencial Reset")
	require.NoError(t, err)

	// prospect leaves junk behind
	var unit model.Unit
	require.NoError(t, db.Where("condo_id = ?", condo.ID).First(&unit).Error)
	require.NoError(t, db.Create(&model.VisitorLog{
		CondoID: condo.ID, UnitID: unit.ID, Name: "Visitante", EnteredAt: time.Now(),
	}).Error)
	require.NoError(t, db.Create(&model.Notice{
		CondoID: condo.ID, Title: "Rascunho", Slug: "rascunho",
	}).Error)

	require.NoError(t, demo.ResetDemoCondo(db, condo.ID))

	var units, notices, occurrences, visits int64
	db.Model(&model.Unit{}).Where("condo_id = ?", condo.ID).Count(&units)
	db.Model(&model.Notice{}).Where("condo_id = ?", condo.ID).Count(&notices)
	db.Model(&model.Occurrence{}).Where("condo_id = ?", condo.ID).Count(&occurrences)
	db.Model(&model.VisitorLog{}).Where("condo_id = ?", condo.ID).Count(&visits)
	assert.Equal(t, int64(3), units)
	assert.Equal(t, int64(1), notices)
	assert.Equal(t, int64(1), occurrences)
	assert.Equal(t, int64(0), visits)
}

func TestResetRejectsNonDemoCondo(t *testing.T) {
	db := setupTestDB(t)

	condo := model.Condo{Name: "Produção", Slug: "producao", Status: model.CondoStatusActive}
	require.NoError(t, db.Create(&condo).Error)

	err := demo.ResetDemoCondo(db, condo.ID)
	assert.Error(t, err)
}

func TestCleanupExpiredDemosLeavesNoOrphans(t *testing.T) {
	db := setupTestDB(t)

	condo, _, err := demo.CreateDemoCondo(db, "vendedor@condofacil.app", "Residencial Expirado")
	require.NoError(t, err)

	// fill every dependent table so the fan-out is exercised
	var unit model.Unit
	require.NoError(t, db.Where("condo_id = ?", condo.ID).First(&unit).Error)

	assembly := model.Assembly{CondoID: condo.ID, Title: "AGO", ScheduledAt: time.Now()}
	require.NoError(t, db.Create(&assembly).Error)
	poll := model.Poll{
		AssemblyID: assembly.ID, CondoID: condo.ID, Question: "Aprovar orçamento?",
		Options: []byte(`["sim","não"]`), OpensAt: time.Now(), ClosesAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, db.Create(&poll).Error)
	require.NoError(t, db.Create(&model.Vote{PollID: poll.ID, UserID: 1, Option: "sim"}).Error)

	ticket := model.SupportTicket{CondoID: condo.ID, OpenedByID: 1, Subject: "Ajuda"}
	require.NoError(t, db.Create(&ticket).Error)
	require.NoError(t, db.Create(&model.TicketMessage{TicketID: ticket.ID, AuthorID: 1, Body: "Olá"}).Error)

	charge := model.Charge{CondoID: condo.ID, Description: "Taxa", Amount: 100, DueDate: time.Now()}
	require.NoError(t, db.Create(&charge).Error)
	require.NoError(t, db.Create(&model.Payment{ChargeID: charge.ID, Amount: 100, PaidAt: time.Now()}).Error)

	require.NoError(t, db.Create(&model.VisitorLog{
		CondoID: condo.ID, UnitID: unit.ID, Name: "Visitante", EnteredAt: time.Now(),
	}).Error)
	require.NoError(t, db.Create(&model.CondoFeature{
		CondoID: condo.ID, FeatureKey: "portaria_digital", IsActive: true,
	}).Error)
	require.NoError(t, db.Create(&model.FeatureActivationLog{
		CondoID: condo.ID, FeatureKey: "portaria_digital", Action: "enabled", ActorID: 1,
	}).Error)

	// push the window into the past
	expired := time.Now().AddDate(0, 0, -1)
	require.NoError(t, db.Model(&model.Condo{}).Where("id = ?", condo.ID).
		Update("trial_ends_at", expired).Error)

	// a fresh demo must survive the sweep
	alive, _, err := demo.CreateDemoCondo(db, "outra@condofacil.app", "Residencial Vivo")
	require.NoError(t, err)

	removed, err := demo.CleanupExpiredDemos(db)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	var count int64
	db.Unscoped().Model(&model.Condo{}).Where("id = ?", condo.ID).Count(&count)
	assert.Equal(t, int64(0), count)

	for name, m := range map[string]interface{}{
		"units":        &model.Unit{},
		"notices":      &model.Notice{},
		"occurrences":  &model.Occurrence{},
		"visitor logs": &model.VisitorLog{},
		"assemblies":   &model.Assembly{},
		"polls":        &model.Poll{},
		"tickets":      &model.SupportTicket{},
		"charges":      &model.Charge{},
		"overrides":    &model.CondoFeature{},
		"sessions":     &model.DemoSession{},
	} {
		var n int64
		db.Unscoped().Model(m).Where("condo_id = ?", condo.ID).Count(&n)
		assert.Zero(t, n, "orphaned %s left behind", name)
	}

	var votes, messages, payments int64
	db.Unscoped().Model(&model.Vote{}).Where("poll_id = ?", poll.ID).Count(&votes)
	db.Unscoped().Model(&model.TicketMessage{}).Where("ticket_id = ?", ticket.ID).Count(&messages)
	db.Unscoped().Model(&model.Payment{}).Where("charge_id = ?", charge.ID).Count(&payments)
	assert.Zero(t, votes)
	assert.Zero(t, messages)
	assert.Zero(t, payments)

	var aliveCount int64
	db.Model(&model.Condo{}).Where("id = ?", alive.ID).Count(&aliveCount)
	assert.Equal(t, int64(1), aliveCount)
}
