package handlers

import (
	"github.com/arunanksharan/rivo/internal/dto"
	"github.com/arunanksharan/rivo/internal/middleware"
	"github.com/arunanksharan/rivo/internal/models"
	"github.com/arunanksharan/rivo/internal/services"
	"github.com/gofiber/fiber/v2"
)

type VoiceHandler struct {
	voice *services.VoiceService
}

func NewVoiceHandler(voice *services.VoiceService) *VoiceHandler {
	return &VoiceHandler{voice: voice}
}

func (h *VoiceHandler) GetSettings(c *fiber.Ctx) error {
	setting, err := h.voice.GetOrCreate(middleware.CurrentUser(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(voiceSettingResponse(setting))
}

func (h *VoiceHandler) CreateSettings(c *fiber.Ctx) error {
	var req dto.VoiceSettingCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	setting, err := h.voice.Create(middleware.CurrentUser(c), &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(voiceSettingResponse(setting))
}

func (h *VoiceHandler) UpdateSettings(c *fiber.Ctx) error {
	var req dto.VoiceSettingUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	setting, err := h.voice.Update(middleware.CurrentUser(c), &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(voiceSettingResponse(setting))
}

// Command accepts a multipart audio file and runs the transcribe/parse
// pipeline. The response always carries success=true when the audio was
// stored; AI failures degrade to the unknown intent.
func (h *VoiceHandler) Command(c *fiber.Ctx) error {
	filename, contentType, data, err := readUpload(c, "file")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}

	resp, err := h.voice.ProcessCommand(c.Context(), middleware.CurrentUser(c), filename, contentType, data)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}

func voiceSettingResponse(s *models.VoiceSetting) dto.VoiceSettingResponse {
	return dto.VoiceSettingResponse{
		ID:            s.ID,
		UserID:        s.UserID,
		WakeWord:      s.WakeWord,
		VoiceType:     s.VoiceType,
		VoiceLanguage: s.VoiceLanguage,
		IsEnabled:     s.IsEnabled,
		Volume:        s.Volume,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
