package handlers

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/arunanksharan/rivo/internal/services"
	"github.com/gofiber/fiber/v2"
)

func TestServiceErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{services.ErrValidation, fiber.StatusBadRequest},
		{services.ErrDuplicateEmail, fiber.StatusBadRequest},
		{services.ErrInvalidCredentials, fiber.StatusUnauthorized},
		{services.ErrInvalidToken, fiber.StatusUnauthorized},
		{services.ErrUpstream, fiber.StatusUnauthorized},
		{services.ErrForbidden, fiber.StatusForbidden},
		{services.ErrNotFound, fiber.StatusNotFound},
		{errors.New("driver: bad connection"), fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error { return serviceError(c, tc.err) })

		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
		if err != nil {
			t.Fatalf("%v: %v", tc.err, err)
		}
		if resp.StatusCode != tc.status {
			t.Errorf("%v: status = %d, want %d", tc.err, resp.StatusCode, tc.status)
		}
	}
}

func TestWrappedServiceErrorKeepsMapping(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return serviceError(c, fmt.Errorf("%w: failed to exchange code for token", services.ErrUpstream))
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
	if err != nil {
		t.Fatalf("test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusUnauthorized)
	}
}
