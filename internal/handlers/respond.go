package handlers

import (
	"errors"
	"log/slog"

	"github.com/arunanksharan/rivo/internal/dto"
	"github.com/arunanksharan/rivo/internal/services"
	"github.com/gofiber/fiber/v2"
)

// serviceError maps service sentinel errors onto HTTP statuses. Anything
// unrecognized is a 500 with a generic message; the detail goes to the log,
// not the client.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return respondError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		return respondError(c, fiber.StatusUnauthorized, "Incorrect email or password")
	case errors.Is(err, services.ErrInvalidToken):
		return respondError(c, fiber.StatusUnauthorized, "Invalid or expired token")
	case errors.Is(err, services.ErrForbidden):
		return respondError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrNotFound):
		return respondError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrDuplicateEmail):
		return respondError(c, fiber.StatusBadRequest, "Email already registered")
	case errors.Is(err, services.ErrUpstream):
		// Provider failures during sign-in read as failed authentication to
		// the client, not as a gateway problem.
		return respondError(c, fiber.StatusUnauthorized, "Authentication failed")
	default:
		slog.Error("unhandled service error", "error", err, "path", c.Path())
		return respondError(c, fiber.StatusInternalServerError, "Internal server error")
	}
}

func respondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func badRequestBody(c *fiber.Ctx) error {
	return respondError(c, fiber.StatusBadRequest, "Invalid request body")
}
