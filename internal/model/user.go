package model

import (
	"strings"

	"gorm.io/gorm"
)

const (
	RoleAdmin    = "admin"   // platform operator
	RoleSindico  = "sindico" // condo manager
	RoleMorador  = "morador" // resident
	RolePorteiro = "porteiro"
)

type User struct {
	gorm.Model
	CondoID  *uint  `json:"condo_id" gorm:"index"`
	UnitID   *uint  `json:"unit_id"`
	Email    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null" json:"-"`
	Role     string `json:"role" gorm:"default:'morador'"`

	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Avatar      string `json:"avatar"`

	IsVerified bool `json:"is_verified" gorm:"default:false"`

	// Relações
	Condo *Condo `json:"-" gorm:"foreignKey:CondoID"`
	Unit  *Unit  `json:"-" gorm:"foreignKey:UnitID"`
}

func (u *User) GetFullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) GetPublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":           u.ID,
		"email":        u.Email,
		"full_name":    u.GetFullName(),
		"role":         u.Role,
		"phone_number": u.PhoneNumber,
		"avatar":       u.Avatar,
		"is_verified":  u.IsVerified,
		"condo_id":     u.CondoID,
		"unit_id":      u.UnitID,
	}
}
