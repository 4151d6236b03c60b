package model

import (
	"time"

	"gorm.io/gorm"
)

// Notice is a mural entry (aviso) visible to every resident of the condo.
type Notice struct {
	gorm.Model
	CondoID     uint       `json:"condo_id" gorm:"index;not null"`
	AuthorID    uint       `json:"author_id"`
	Title       string     `json:"title" gorm:"not null"`
	Slug        string     `json:"slug" gorm:"index"`
	Body        string     `json:"body" gorm:"type:text"`
	Pinned      bool       `json:"pinned" gorm:"default:false"`
	PublishedAt *time.Time `json:"published_at"`

	// Relações
	Condo  Condo `json:"-" gorm:"foreignKey:CondoID"`
	Author User  `json:"-" gorm:"foreignKey:AuthorID"`
}
