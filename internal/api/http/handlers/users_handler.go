package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/visage-campus/visage-backend/internal/api/dto"
	"github.com/visage-campus/visage-backend/internal/service"
	apperrors "github.com/visage-campus/visage-backend/pkg/util"
)

// UsersHandler exposes user management and self-service profile endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// List handles GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	principal, err := principalOf(c)
	if err != nil {
		return err
	}
	users, err := h.users.List(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(dto.UserListResponse{Success: true, Count: len(users), Users: users})
}

// Get handles GET /api/users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	principal, err := principalOf(c)
	if err != nil {
		return err
	}
	id, err := userIDParam(c)
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.UserContext(), principal, id)
	if err != nil {
		return err
	}
	return c.JSON(dto.UserResponse{Success: true, User: user})
}

// Create handles POST /api/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	principal, err := principalOf(c)
	if err != nil {
		return err
	}
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.users.Create(c.UserContext(), principal, req.ToNewUser())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.CreateUserResponse{
		Success: true,
		Message: "User created successfully",
		UserID:  user.ID,
		User:    user,
	})
}

// Update handles PUT /api/users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	principal, err := principalOf(c)
	if err != nil {
		return err
	}
	id, err := userIDParam(c)
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.users.Update(c.UserContext(), principal, id, req.ToUpdate())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "User updated successfully", "user": user})
}

// UpdateProfile handles PUT /api/users/profile for the caller's own record.
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, err := principalOf(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.users.UpdateProfile(c.UserContext(), principal, req.ToUpdate())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Profile updated successfully", "user": user})
}

// Delete handles DELETE /api/users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	principal, err := principalOf(c)
	if err != nil {
		return err
	}
	id, err := userIDParam(c)
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.UserContext(), principal, id); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "User deleted successfully"})
}

// Roles handles GET /api/roles.
func (h *UsersHandler) Roles(c *fiber.Ctx) error {
	principal, err := principalOf(c)
	if err != nil {
		return err
	}
	roles, err := h.users.Roles(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(dto.RoleListResponse{Success: true, Roles: roles})
}

func userIDParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid user id", map[string]any{"id": "numeric"})
	}
	return id, nil
}
