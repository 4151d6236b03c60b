package model

import "time"

// LegalAcceptance records that a user accepted a versioned legal document
// (termos de uso, política de privacidade).
type LegalAcceptance struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"uniqueIndex:idx_user_document;not null"`
	DocumentKey string    `json:"document_key" gorm:"uniqueIndex:idx_user_document;not null"`
	Version     string    `json:"version"`
	AcceptedAt  time.Time `json:"accepted_at" gorm:"autoCreateTime"`
}

func (LegalAcceptance) TableName() string {
	return "legal_acceptances"
}
