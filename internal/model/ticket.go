package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusResolved   = "resolved"
	TicketStatusClosed     = "closed"
)

type SupportTicket struct {
	gorm.Model
	CondoID    uint       `json:"condo_id" gorm:"index;not null"`
	OpenedByID uint       `json:"opened_by_id" gorm:"index"`
	Subject    string     `json:"subject" gorm:"not null"`
	Status     string     `json:"status" gorm:"default:'open'"` // open, in_progress, resolved, closed
	Priority   string     `json:"priority" gorm:"default:'normal'"`
	ReadStatus bool       `json:"read_status" gorm:"default:false"`
	ResolvedAt *time.Time `json:"resolved_at"`

	// Relações
	Condo    Condo           `json:"-" gorm:"foreignKey:CondoID"`
	OpenedBy User            `json:"-" gorm:"foreignKey:OpenedByID"`
	Messages []TicketMessage `json:"messages" gorm:"foreignKey:TicketID"`
}

type TicketMessage struct {
	gorm.Model
	TicketID uint   `json:"ticket_id" gorm:"index;not null"`
	AuthorID uint   `json:"author_id"`
	Body     string `json:"body" gorm:"type:text;not null"`

	// Relações
	Ticket SupportTicket `json:"-" gorm:"foreignKey:TicketID"`
}
