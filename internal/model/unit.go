package model

import "gorm.io/gorm"

type Unit struct {
	gorm.Model
	CondoID uint   `json:"condo_id" gorm:"index;not null"`
	Block   string `json:"block"`
	Number  string `json:"number" gorm:"not null"`
	Floor   int    `json:"floor"`

	// Relações
	Condo     Condo  `json:"-" gorm:"foreignKey:CondoID"`
	Residents []User `json:"-" gorm:"foreignKey:UnitID"`
}
