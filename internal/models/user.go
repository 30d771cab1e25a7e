package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the root of ownership for every other entity. Email/password and
// Google sign-in reconcile into the same row; a user created through Google
// has a nil HashedPassword.
type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email          string    `gorm:"not null;size:255;uniqueIndex" json:"email"`
	HashedPassword *string   `gorm:"size:255" json:"-"`
	FullName       string    `gorm:"size:255" json:"full_name"`
	AuthProvider   string    `gorm:"size:50;not null;default:'email'" json:"auth_provider"`
	GoogleID       *string   `gorm:"size:255;uniqueIndex" json:"-"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Properties     []Property      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	VoiceSettings  []VoiceSetting  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	EmailTemplates []EmailTemplate `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
