package worker

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"condofacil_backend/internal/model"
	"condofacil_backend/pkg/email"
)

const (
	// DispatchBatchSize bounds how many rows one pass will touch.
	DispatchBatchSize = 50
	// MaxAttempts after which a notification is parked as failed.
	MaxAttempts = 3

	pollInterval = 30 * time.Second
)

// Sender delivers one claimed notification.
type Sender func(n *model.PendingNotification) error

// StartNotificationDispatcher runs the queue processor in a goroutine.
// Each row is claimed with a guarded status flip before sending, so running
// more than one instance is safe: two workers can never deliver the same row.
func StartNotificationDispatcher(db *gorm.DB) {
	go func() {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()

		for range ticker.C {
			if email.GlobalEmailService == nil {
				continue
			}
			if _, err := DispatchPending(db, DispatchBatchSize, EmailSender); err != nil {
				log.Printf("notification dispatcher: %v", err)
			}
		}
	}()
}

// DispatchPending runs one pass over due pending notifications. Returns the
// number successfully sent.
func DispatchPending(db *gorm.DB, batchSize int, send Sender) (int, error) {
	now := time.Now()

	var pending []model.PendingNotification
	err := db.Where("status = ? AND scheduled_at <= ?", model.NotificationStatusPending, now).
		Order("scheduled_at asc, id asc").
		Limit(batchSize).
		Find(&pending).Error
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, n := range pending {
		// claim: only the worker that wins this update may send
		res := db.Model(&model.PendingNotification{}).
			Where("id = ? AND status = ?", n.ID, model.NotificationStatusPending).
			Updates(map[string]interface{}{
				"status":   model.NotificationStatusProcessing,
				"attempts": gorm.Expr("attempts + 1"),
			})
		if res.Error != nil || res.RowsAffected == 0 {
			continue
		}

		if err := send(&n); err != nil {
			status := model.NotificationStatusPending // retried next pass
			if n.Attempts+1 >= MaxAttempts {
				status = model.NotificationStatusFailed
			}
			db.Model(&model.PendingNotification{}).Where("id = ?", n.ID).
				Updates(map[string]interface{}{
					"status":     status,
					"last_error": err.Error(),
				})
			continue
		}

		sentAt := time.Now()
		db.Model(&model.PendingNotification{}).Where("id = ?", n.ID).
			Updates(map[string]interface{}{
				"status":  model.NotificationStatusSent,
				"sent_at": sentAt,
			})
		sent++
	}

	return sent, nil
}

// EmailSender delivers through the configured email provider.
func EmailSender(n *model.PendingNotification) error {
	if email.GlobalEmailService == nil {
		return errors.New("email service not configured")
	}
	return email.GlobalEmailService.SendGenericEmail(n.Recipient, n.Subject, n.Body)
}
