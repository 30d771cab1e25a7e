package handlers

import (
	"github.com/arunanksharan/rivo/internal/dto"
	"github.com/arunanksharan/rivo/internal/middleware"
	"github.com/arunanksharan/rivo/internal/models"
	"github.com/arunanksharan/rivo/internal/services"
	"github.com/gofiber/fiber/v2"
)

type TemplateHandler struct {
	templates *services.TemplateService
}

func NewTemplateHandler(templates *services.TemplateService) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

func (h *TemplateHandler) List(c *fiber.Ctx) error {
	templates, err := h.templates.List(middleware.CurrentUser(c))
	if err != nil {
		return serviceError(c, err)
	}

	out := make([]dto.EmailTemplateResponse, 0, len(templates))
	for i := range templates {
		out = append(out, templateResponse(&templates[i]))
	}
	return c.JSON(out)
}

func (h *TemplateHandler) Create(c *fiber.Ctx) error {
	var req dto.EmailTemplateCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	template, err := h.templates.Create(middleware.CurrentUser(c), &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(templateResponse(template))
}

func (h *TemplateHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid template id")
	}

	template, err := h.templates.Get(id, middleware.CurrentUser(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(templateResponse(template))
}

func (h *TemplateHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid template id")
	}

	var req dto.EmailTemplateUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	template, err := h.templates.Update(id, middleware.CurrentUser(c), &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(templateResponse(template))
}

func (h *TemplateHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid template id")
	}

	if err := h.templates.Delete(id, middleware.CurrentUser(c)); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Email template deleted successfully"})
}

func templateResponse(t *models.EmailTemplate) dto.EmailTemplateResponse {
	return dto.EmailTemplateResponse{
		ID:        t.ID,
		UserID:    t.UserID,
		Name:      t.Name,
		Subject:   t.Subject,
		Body:      t.Body,
		IsDefault: t.IsDefault,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
