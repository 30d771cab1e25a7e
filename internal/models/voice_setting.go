package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VoiceTypes is the allowed set for VoiceSetting.VoiceType.
var VoiceTypes = []string{"male", "female", "neutral"}

// VoiceSetting holds per-user voice assistant preferences. One row per user,
// enforced by VoiceService rather than a schema constraint; missing rows are
// created with these defaults on first read.
type VoiceSetting struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	WakeWord      string    `gorm:"size:50;not null;default:'Rivo Start'" json:"wake_word"`
	VoiceType     string    `gorm:"size:20;not null;default:'female'" json:"voice_type"`
	VoiceLanguage string    `gorm:"size:20;not null;default:'en-US'" json:"voice_language"`
	IsEnabled     bool      `gorm:"not null;default:true" json:"is_enabled"`
	Volume        float64   `gorm:"not null;default:0.7" json:"volume"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (v *VoiceSetting) BeforeCreate(_ *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
