package cron_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"condofacil_backend/internal/model"
	"condofacil_backend/pkg/cron"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.Condo{},
		&model.Unit{},
		&model.User{},
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

func TestReconcileMarksOverdueCharges(t *testing.T) {
	db := setupTestDB(t)

	overdue := model.Charge{
		CondoID: 1, Description: "Taxa de março", Amount: 350,
		DueDate: time.Now().AddDate(0, 0, -3), Status: model.ChargeStatusPending,
	}
	current := model.Charge{
		CondoID: 1, Description: "Taxa de abril", Amount: 350,
		DueDate: time.Now().AddDate(0, 0, 10), Status: model.ChargeStatusPending,
	}
	require.NoError(t, db.Create(&overdue).Error)
	require.NoError(t, db.Create(&current).Error)

	touched, err := cron.ReconcilePayments(db)
	require.NoError(t, err)
	assert.Equal(t, 1, touched)

	var a, b model.Charge
	require.NoError(t, db.First(&a, overdue.ID).Error)
	require.NoError(t, db.First(&b, current.ID).Error)
	assert.Equal(t, model.ChargeStatusOverdue, a.Status)
	assert.Equal(t, model.ChargeStatusPending, b.Status)
}

func TestReconcileSettlesChargeWithRecordedPayment(t *testing.T) {
	db := setupTestDB(t)

	charge := model.Charge{
		CondoID: 1, Description: "Taxa", Amount: 350,
		DueDate: time.Now().AddDate(0, 0, 5), Status: model.ChargeStatusPending,
	}
	require.NoError(t, db.Create(&charge).Error)

	paidAt := time.Now().Add(-time.Hour)
	require.NoError(t, db.Create(&model.Payment{
		ChargeID: charge.ID, Amount: 350, Provider: "stripe", PaidAt: paidAt,
	}).Error)

	touched, err := cron.ReconcilePayments(db)
	require.NoError(t, err)
	assert.Equal(t, 1, touched)

	var settled model.Charge
	require.NoError(t, db.First(&settled, charge.ID).Error)
	assert.Equal(t, model.ChargeStatusPaid, settled.Status)
	require.NotNil(t, settled.PaidAt)
}

func TestHardDeleteSweepHonorsGraceWindow(t *testing.T) {
	db := setupTestDB(t)

	oldRequest := time.Now().AddDate(0, 0, -(cron.GraceWindowDays + 1))
	recentRequest := time.Now().AddDate(0, 0, -5)

	gone := model.Condo{
		Name: "Para Apagar", Slug: "para-apagar",
		Status: model.CondoStatusCancelled, DeletionRequestedAt: &oldRequest,
	}
	waiting := model.Condo{
		Name: "Em Carência", Slug: "em-carencia",
		Status: model.CondoStatusCancelled, DeletionRequestedAt: &recentRequest,
	}
	active := model.Condo{
		Name: "Ativo", Slug: "ativo-hd", Status: model.CondoStatusActive,
	}
	require.NoError(t, db.Create(&gone).Error)
	require.NoError(t, db.Create(&waiting).Error)
	require.NoError(t, db.Create(&active).Error)

	require.NoError(t, db.Create(&model.Unit{CondoID: gone.ID, Number: "101"}).Error)

	removed, err := cron.HardDeleteSweep(db)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	var count int64
	db.Unscoped().Model(&model.Condo{}).Where("id = ?", gone.ID).Count(&count)
	assert.Zero(t, count)
	db.Unscoped().Model(&model.Unit{}).Where("condo_id = ?", gone.ID).Count(&count)
	assert.Zero(t, count)

	db.Model(&model.Condo{}).Where("id IN ?", []uint{waiting.ID, active.ID}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestCheckExpiringTrialsQueuesWarning(t *testing.T) {
	db := setupTestDB(t)

	soon := time.Now().AddDate(0, 0, 2)
	far := time.Now().AddDate(0, 0, 20)

	warned := model.Condo{Name: "Acabando", Slug: "acabando", TrialEndsAt: &soon}
	calm := model.Condo{Name: "Tranquilo", Slug: "tranquilo", TrialEndsAt: &far}
	require.NoError(t, db.Create(&warned).Error)
	require.NoError(t, db.Create(&calm).Error)

	warnedID := warned.ID
	require.NoError(t, db.Create(&model.User{
		CondoID: &warnedID, Email: "sindico@acabando.com",
		Password: "x", Role: model.RoleSindico, FirstName: "Ana",
	}).Error)

	count, err := cron.CheckExpiringTrials(db)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	var n model.PendingNotification
	require.NoError(t, db.First(&n).Error)
	assert.Equal(t, "sindico@acabando.com", n.Recipient)
	assert.Equal(t, model.NotificationStatusPending, n.Status)
	require.NotNil(t, n.CondoID)
	assert.Equal(t, warned.ID, *n.CondoID)
}

func TestNotifyMaintenanceDueOnlyOnce(t *testing.T) {
	db := setupTestDB(t)

	condo := model.Condo{Name: "Com Obras", Slug: "com-obras"}
	require.NoError(t, db.Create(&condo).Error)
	condoID := condo.ID
	require.NoError(t, db.Create(&model.User{
		CondoID: &condoID, Email: "sindico@obras.com",
		Password: "x", Role: model.RoleSindico, FirstName: "Bruno",
	}).Error)

	task := model.MaintenanceTask{
		CondoID: condo.ID, Title: "Limpeza da caixa d'água",
		DueDate: time.Now().AddDate(0, 0, 3), Status: "pending",
	}
	require.NoError(t, db.Create(&task).Error)

	notified, err := cron.NotifyMaintenanceDue(db)
	require.NoError(t, err)
	assert.Equal(t, 1, notified)

	var refreshed model.MaintenanceTask
	require.NoError(t, db.First(&refreshed, task.ID).Error)
	require.NotNil(t, refreshed.NotifiedAt)

	// second pass: already notified, nothing queued
	notified, err = cron.NotifyMaintenanceDue(db)
	require.NoError(t, err)
	assert.Zero(t, notified)

	var queued int64
	db.Model(&model.PendingNotification{}).Count(&queued)
	assert.Equal(t, int64(1), queued)
}
