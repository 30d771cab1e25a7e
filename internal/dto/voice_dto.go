package dto

import (
	"time"

	"github.com/google/uuid"
)

type VoiceSettingCreateRequest struct {
	WakeWord      string   `json:"wake_word"`
	VoiceType     string   `json:"voice_type"`
	VoiceLanguage string   `json:"voice_language"`
	IsEnabled     *bool    `json:"is_enabled"`
	Volume        *float64 `json:"volume"`
}

type VoiceSettingUpdateRequest struct {
	WakeWord      *string  `json:"wake_word"`
	VoiceType     *string  `json:"voice_type"`
	VoiceLanguage *string  `json:"voice_language"`
	IsEnabled     *bool    `json:"is_enabled"`
	Volume        *float64 `json:"volume"`
}

type VoiceSettingResponse struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	WakeWord      string    `json:"wake_word"`
	VoiceType     string    `json:"voice_type"`
	VoiceLanguage string    `json:"voice_language"`
	IsEnabled     bool      `json:"is_enabled"`
	Volume        float64   `json:"volume"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// VoiceCommandResponse is the envelope returned by POST /api/voice/command.
type VoiceCommandResponse struct {
	Command  string       `json:"command"`
	Response CommandReply `json:"response"`
	Success  bool         `json:"success"`
}

// CommandReply is the parsed intent extracted from a transcribed command.
type CommandReply struct {
	Intent     string                 `json:"intent"`
	Parameters map[string]interface{} `json:"parameters"`
	Response   string                 `json:"response"`
}
