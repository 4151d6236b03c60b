package worker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"condofacil_backend/internal/model"
	"condofacil_backend/pkg/worker"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.PendingNotification{}))
	return db
}

func queueNotification(t *testing.T, db *gorm.DB, scheduledAt time.Time) model.PendingNotification {
	n := model.PendingNotification{
		Recipient:   "sindico@exemplo.com",
		Subject:     "Aviso",
		Body:        "corpo",
		Status:      model.NotificationStatusPending,
		ScheduledAt: scheduledAt,
	}
	require.NoError(t, db.Create(&n).Error)
	return n
}

func TestDispatchSendsDueNotifications(t *testing.T) {
	db := setupTestDB(t)
	queueNotification(t, db, time.Now().Add(-time.Minute))
	queueNotification(t, db, time.Now().Add(-time.Hour))
	future := queueNotification(t, db, time.Now().Add(time.Hour))

	var delivered []uint
	sent, err := worker.DispatchPending(db, worker.DispatchBatchSize, func(n *model.PendingNotification) error {
		delivered = append(delivered, n.ID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Len(t, delivered, 2)

	var sentCount int64
	db.Model(&model.PendingNotification{}).
		Where("status = ?", model.NotificationStatusSent).Count(&sentCount)
	assert.Equal(t, int64(2), sentCount)

	// the future row stays untouched
	var untouched model.PendingNotification
	require.NoError(t, db.First(&untouched, future.ID).Error)
	assert.Equal(t, model.NotificationStatusPending, untouched.Status)
	assert.Equal(t, 0, untouched.Attempts)
}

func TestDispatchSkipsAlreadyClaimedRows(t *testing.T) {
	db := setupTestDB(t)
	n := queueNotification(t, db, time.Now().Add(-time.Minute))

	// another worker got here first
	require.NoError(t, db.Model(&model.PendingNotification{}).Where("id = ?", n.ID).
		Update("status", model.NotificationStatusProcessing).Error)

	sent, err := worker.DispatchPending(db, worker.DispatchBatchSize, func(n *model.PendingNotification) error {
		t.Fatal("claimed row must not be sent again")
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestDispatchClaimIsExclusive(t *testing.T) {
	db := setupTestDB(t)
	n := queueNotification(t, db, time.Now().Add(-time.Minute))

	// the sender simulates a concurrent worker racing for the same row:
	// its guarded claim must lose because ours already flipped the status
	sent, err := worker.DispatchPending(db, worker.DispatchBatchSize, func(got *model.PendingNotification) error {
		res := db.Model(&model.PendingNotification{}).
			Where("id = ? AND status = ?", n.ID, model.NotificationStatusPending).
			Update("status", model.NotificationStatusProcessing)
		require.NoError(t, res.Error)
		assert.Zero(t, res.RowsAffected)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
}

func TestDispatchRetriesThenParksAsFailed(t *testing.T) {
	db := setupTestDB(t)
	n := queueNotification(t, db, time.Now().Add(-time.Minute))

	boom := func(*model.PendingNotification) error { return errors.New("provider down") }

	for i := 1; i <= worker.MaxAttempts; i++ {
		sent, err := worker.DispatchPending(db, worker.DispatchBatchSize, boom)
		require.NoError(t, err)
		assert.Zero(t, sent)
	}

	var row model.PendingNotification
	require.NoError(t, db.First(&row, n.ID).Error)
	assert.Equal(t, model.NotificationStatusFailed, row.Status)
	assert.Equal(t, worker.MaxAttempts, row.Attempts)
	assert.Equal(t, "provider down", row.LastError)

	// a failed row is never picked up again
	sent, err := worker.DispatchPending(db, worker.DispatchBatchSize, boom)
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestDispatchHonorsBatchSize(t *testing.T) {
	db := setupTestDB(t)
	for i := 0; i < 5; i++ {
		queueNotification(t, db, time.Now().Add(-time.Minute))
	}

	sent, err := worker.DispatchPending(db, 2, func(*model.PendingNotification) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	var pending int64
	db.Model(&model.PendingNotification{}).
		Where("status = ?", model.NotificationStatusPending).Count(&pending)
	assert.Equal(t, int64(3), pending)
}
