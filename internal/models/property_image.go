package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PropertyImage is cascade-deleted with its parent property. At most one
// image per property carries IsPrimary=true; PropertyService clears the
// siblings in the same transaction that inserts a new primary.
type PropertyImage struct {
	ID                     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PropertyID             uuid.UUID `gorm:"type:uuid;not null;index" json:"property_id"`
	StoragePath            string    `gorm:"size:512;not null" json:"storage_path"`
	URL                    string    `gorm:"type:text;not null" json:"url"`
	Caption                *string   `gorm:"type:text" json:"caption"`
	AIGeneratedDescription *string   `gorm:"type:text" json:"ai_generated_description"`
	VoiceNoteText          *string   `gorm:"type:text" json:"voice_note_text"`
	VoiceNotePath          *string   `gorm:"size:512" json:"voice_note_path"`
	IsPrimary              bool      `gorm:"not null;default:false" json:"is_primary"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

func (i *PropertyImage) BeforeCreate(_ *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
