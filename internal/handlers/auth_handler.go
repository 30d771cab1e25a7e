package handlers

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/arunanksharan/rivo/internal/dto"
	"github.com/arunanksharan/rivo/internal/middleware"
	"github.com/arunanksharan/rivo/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}
	if req.RefreshToken == "" {
		return respondError(c, fiber.StatusBadRequest, "refresh_token is required")
	}

	resp, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}

// GoogleAuthURL hands the frontend a consent URL with a random state.
func (h *AuthHandler) GoogleAuthURL(c *fiber.Ctx) error {
	state := randomState()
	redirectURI := c.Query("redirect_uri")

	return c.JSON(dto.GoogleAuthURLResponse{
		AuthURL: h.authService.GoogleAuthURL(state, redirectURI),
	})
}

func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	var req dto.GoogleCallbackRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	resp, err := h.authService.GoogleSignIn(c.Context(), &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return respondError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	return c.JSON(services.NewUserResponse(user))
}

func randomState() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
