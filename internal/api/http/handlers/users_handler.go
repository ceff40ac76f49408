package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/behnamfe76/helpdesk-service/internal/api/dto"
	"github.com/behnamfe76/helpdesk-service/internal/service"
	apperrors "github.com/behnamfe76/helpdesk-service/pkg/util/errorutil"
)

// UsersHandler exposes account administration.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// CreateUser handles POST /api/user.
func (h *UsersHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.UserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.users.Create(c.UserContext(), userInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// UpdateUser handles PUT /api/user/:id.
func (h *UsersHandler) UpdateUser(c *fiber.Ctx) error {
	var req dto.UserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.users.Update(c.UserContext(), c.Params("id"), userInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// GetUser handles GET /api/user/:id.
func (h *UsersHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.users.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// DeleteUser handles DELETE /api/user/:id.
func (h *UsersHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.users.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListUsers handles GET /api/user.
func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	page, err := parseInt(c.Query("page"), 0)
	if err != nil {
		return apperrors.NewValidationError("page must be a number", nil)
	}
	size, err := parseInt(c.Query("count"), 0)
	if err != nil {
		return apperrors.NewValidationError("count must be a number", nil)
	}
	result, err := h.users.List(c.UserContext(), page, size)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPageResponse(result, dto.NewUserResponse)})
}

func userInput(req dto.UserRequest) service.UserInput {
	return service.UserInput{Email: req.Email, Password: req.Password, Role: req.Role}
}
