package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	NotificationStatusPending    = "pending"
	NotificationStatusProcessing = "processing"
	NotificationStatusSent       = "sent"
	NotificationStatusFailed     = "failed"
)

// PendingNotification is a queued outbound message. Dispatch claims a row by
// flipping pending -> processing in a guarded update, so concurrent workers
// never send the same row twice.
type PendingNotification struct {
	gorm.Model
	CondoID     *uint      `json:"condo_id" gorm:"index"`
	UserID      *uint      `json:"user_id"`
	Channel     string     `json:"channel" gorm:"default:'email'"`
	Recipient   string     `json:"recipient" gorm:"not null"`
	Subject     string     `json:"subject"`
	Body        string     `json:"body" gorm:"type:text"`
	Status      string     `json:"status" gorm:"default:'pending';index"`
	Attempts    int        `json:"attempts" gorm:"default:0"`
	ScheduledAt time.Time  `json:"scheduled_at" gorm:"index"`
	SentAt      *time.Time `json:"sent_at"`
	LastError   string     `json:"last_error"`
}
