package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a storefront customer account.
type User struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Email        string    `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	FirstName    string    `gorm:"column:first_name;not null"`
	LastName     string    `gorm:"column:last_name;not null"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
