package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Assembly is a condo meeting; MinutesURL points to the uploaded ata (PDF)
// in object storage.
type Assembly struct {
	gorm.Model
	CondoID     uint      `json:"condo_id" gorm:"index;not null"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	ScheduledAt time.Time `json:"scheduled_at"`
	MinutesURL  string    `json:"minutes_url"`

	// Relações
	Condo Condo  `json:"-" gorm:"foreignKey:CondoID"`
	Polls []Poll `json:"-"`
}

// Poll options are stored as a JSON array of strings; votes reference an
// option by its exact value.
type Poll struct {
	gorm.Model
	AssemblyID uint           `json:"assembly_id" gorm:"index;not null"`
	CondoID    uint           `json:"condo_id" gorm:"index;not null"`
	Question   string         `json:"question" gorm:"not null"`
	Options    datatypes.JSON `json:"options"`
	OpensAt    time.Time      `json:"opens_at"`
	ClosesAt   time.Time      `json:"closes_at"`

	// Relações
	Assembly Assembly `json:"-" gorm:"foreignKey:AssemblyID"`
	Votes    []Vote   `json:"-"`
}

// Vote is unique per (poll, user): one resident, one vote.
type Vote struct {
	ID        uint      `gorm:"primaryKey"`
	PollID    uint      `json:"poll_id" gorm:"uniqueIndex:idx_poll_voter;not null"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:idx_poll_voter;not null"`
	Option    string    `json:"option" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
