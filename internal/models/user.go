package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleDeveloper Role = "DEV"
	RoleDesigner  Role = "DES"
	RoleBoth      Role = "BOTH"
)

func ValidRole(r Role) bool {
	return r == RoleDeveloper || r == RoleDesigner || r == RoleBoth
}

type User struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Handle string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"handle"`
	Email  string    `gorm:"uniqueIndex;not null" json:"email"`

	Password string `gorm:"not null" json:"-"`
	Role     Role   `gorm:"type:varchar(5);not null;default:'BOTH'" json:"role"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Profile *Profile `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
	Works   []Work   `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"works,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}
