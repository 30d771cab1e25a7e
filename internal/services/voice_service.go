package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/arunanksharan/rivo/internal/dto"
	"github.com/arunanksharan/rivo/internal/models"
	"gorm.io/gorm"
)

// VoiceService manages per-user voice settings and the voice command
// pipeline (store audio, transcribe, parse intent).
type VoiceService struct {
	db      *gorm.DB
	storage ObjectStorage
	audio   Transcriber
	parser  CommandParser
}

func NewVoiceService(db *gorm.DB, storage ObjectStorage, audio Transcriber, parser CommandParser) *VoiceService {
	return &VoiceService{db: db, storage: storage, audio: audio, parser: parser}
}

// GetOrCreate returns the user's settings row, creating it with the model
// defaults when the user has none yet. A read is therefore never empty.
func (s *VoiceService) GetOrCreate(user *models.User) (*models.VoiceSetting, error) {
	var setting models.VoiceSetting
	err := s.db.Where("user_id = ?", user.ID).First(&setting).Error
	if err == nil {
		return &setting, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	setting = defaultVoiceSetting(user)
	if err := s.db.Create(&setting).Error; err != nil {
		return nil, fmt.Errorf("failed to create voice settings: %w", err)
	}
	return &setting, nil
}

// Create makes a settings row from an explicit request. If the user already
// has one it is returned unchanged rather than duplicated.
func (s *VoiceService) Create(user *models.User, req *dto.VoiceSettingCreateRequest) (*models.VoiceSetting, error) {
	var existing models.VoiceSetting
	if err := s.db.Where("user_id = ?", user.ID).First(&existing).Error; err == nil {
		return &existing, nil
	}

	setting := defaultVoiceSetting(user)
	if req.WakeWord != "" {
		setting.WakeWord = req.WakeWord
	}
	if req.VoiceType != "" {
		setting.VoiceType = req.VoiceType
	}
	if req.VoiceLanguage != "" {
		setting.VoiceLanguage = req.VoiceLanguage
	}
	if req.IsEnabled != nil {
		setting.IsEnabled = *req.IsEnabled
	}
	if req.Volume != nil {
		setting.Volume = *req.Volume
	}

	if err := validateVoiceSetting(&setting); err != nil {
		return nil, err
	}
	if err := s.db.Create(&setting).Error; err != nil {
		return nil, fmt.Errorf("failed to create voice settings: %w", err)
	}
	return &setting, nil
}

// Update patches the user's settings, creating the row with defaults first
// when none exists.
func (s *VoiceService) Update(user *models.User, req *dto.VoiceSettingUpdateRequest) (*models.VoiceSetting, error) {
	setting, err := s.GetOrCreate(user)
	if err != nil {
		return nil, err
	}

	if req.WakeWord != nil {
		setting.WakeWord = *req.WakeWord
	}
	if req.VoiceType != nil {
		setting.VoiceType = *req.VoiceType
	}
	if req.VoiceLanguage != nil {
		setting.VoiceLanguage = *req.VoiceLanguage
	}
	if req.IsEnabled != nil {
		setting.IsEnabled = *req.IsEnabled
	}
	if req.Volume != nil {
		setting.Volume = *req.Volume
	}

	if err := validateVoiceSetting(setting); err != nil {
		return nil, err
	}
	if err := s.db.Save(setting).Error; err != nil {
		return nil, fmt.Errorf("failed to update voice settings: %w", err)
	}
	return setting, nil
}

// ProcessCommand stores the audio under voice_commands/{user}/, transcribes
// it and extracts an intent. Transcription and parsing fail soft; only a
// storage failure propagates as an error.
func (s *VoiceService) ProcessCommand(ctx context.Context, user *models.User, filename, contentType string, audio []byte) (*dto.VoiceCommandResponse, error) {
	storagePath := fmt.Sprintf("voice_commands/%s/%s", user.ID, path.Base(filename))
	if _, err := s.storage.Upload(ctx, storagePath, contentType, audio); err != nil {
		return nil, fmt.Errorf("failed to store voice command audio: %w", err)
	}

	text := s.audio.Transcribe(ctx, filename, audio)
	reply := s.parser.ParseCommand(ctx, text)

	slog.Info("voice command processed", "user_id", user.ID, "intent", reply.Intent)
	return &dto.VoiceCommandResponse{
		Command:  text,
		Response: reply,
		Success:  true,
	}, nil
}

func defaultVoiceSetting(user *models.User) models.VoiceSetting {
	return models.VoiceSetting{
		UserID:        user.ID,
		WakeWord:      "Rivo Start",
		VoiceType:     "female",
		VoiceLanguage: "en-US",
		IsEnabled:     true,
		Volume:        0.7,
	}
}

func validateVoiceSetting(setting *models.VoiceSetting) error {
	validType := false
	for _, t := range models.VoiceTypes {
		if setting.VoiceType == t {
			validType = true
			break
		}
	}
	if !validType {
		return fmt.Errorf("%w: voice_type must be one of: %s",
			ErrValidation, strings.Join(models.VoiceTypes, ", "))
	}

	lang := setting.VoiceLanguage
	if len(lang) < 2 || len(lang) > 20 || !(strings.Contains(lang, "-") || strings.Contains(lang, "_")) {
		return fmt.Errorf("%w: voice_language must be a locale code like en-US", ErrValidation)
	}

	if setting.Volume < 0 || setting.Volume > 1 {
		return fmt.Errorf("%w: volume must be between 0 and 1", ErrValidation)
	}
	return nil
}
