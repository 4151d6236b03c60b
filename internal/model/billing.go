package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ChargeStatusPending   = "pending"
	ChargeStatusPaid      = "paid"
	ChargeStatusOverdue   = "overdue"
	ChargeStatusCancelled = "cancelled"
)

// Charge is a cobrança issued to a unit (condo fee, extra fee, fine).
type Charge struct {
	gorm.Model
	CondoID     uint       `json:"condo_id" gorm:"index;not null"`
	UnitID      *uint      `json:"unit_id" gorm:"index"`
	Description string     `json:"description" gorm:"not null"`
	Amount      float64    `json:"amount" gorm:"not null"`
	DueDate     time.Time  `json:"due_date" gorm:"index"`
	Status      string     `json:"status" gorm:"default:'pending';index"`
	Provider    string     `json:"provider"`
	ProviderRef string     `json:"provider_ref" gorm:"index"` // gateway-side charge id
	PaidAt      *time.Time `json:"paid_at"`

	// Relações
	Condo    Condo     `json:"-" gorm:"foreignKey:CondoID"`
	Unit     *Unit     `json:"-" gorm:"foreignKey:UnitID"`
	Payments []Payment `json:"-"`
}

type Payment struct {
	gorm.Model
	ChargeID    uint      `json:"charge_id" gorm:"index;not null"`
	Amount      float64   `json:"amount"`
	Provider    string    `json:"provider"`
	ProviderRef string    `json:"provider_ref"`
	PaidAt      time.Time `json:"paid_at"`

	// Relações
	Charge Charge `json:"-" gorm:"foreignKey:ChargeID"`
}

// PaymentWebhookLog stores the raw provider payload before anything acts on
// it, so reconciliation can replay events.
type PaymentWebhookLog struct {
	ID        uint           `gorm:"primaryKey"`
	Provider  string         `json:"provider" gorm:"index;not null"`
	EventID   string         `json:"event_id" gorm:"index"`
	EventType string         `json:"event_type"`
	Payload   datatypes.JSON `json:"payload"`
	Processed bool           `json:"processed" gorm:"default:false"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
}

func (PaymentWebhookLog) TableName() string {
	return "payment_webhook_logs"
}
