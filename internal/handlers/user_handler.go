package handlers

import (
	"github.com/arunanksharan/rivo/internal/dto"
	"github.com/arunanksharan/rivo/internal/middleware"
	"github.com/arunanksharan/rivo/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.QueryInt("skip", 0), c.QueryInt("limit", 0))
	if err != nil {
		return serviceError(c, err)
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, services.NewUserResponse(&users[i]))
	}
	return c.JSON(out)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid user id")
	}

	user, err := h.users.Get(id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(services.NewUserResponse(user))
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid user id")
	}

	var req dto.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequestBody(c)
	}

	user, err := h.users.Update(id, middleware.CurrentUser(c), &req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(services.NewUserResponse(user))
}
