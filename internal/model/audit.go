package model

import "time"

// AuditLog is the general-purpose compliance trail. Append-only.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey"`
	CondoID   *uint     `json:"condo_id" gorm:"index"`
	ActorID   uint      `json:"actor_id"`
	Action    string    `json:"action" gorm:"not null"`
	Entity    string    `json:"entity"`
	Detail    string    `json:"detail" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
