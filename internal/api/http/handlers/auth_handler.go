package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/visage-campus/visage-backend/internal/api/dto"
	"github.com/visage-campus/visage-backend/internal/auth"
	"github.com/visage-campus/visage-backend/internal/domain"
	"github.com/visage-campus/visage-backend/internal/service"
	apperrors "github.com/visage-campus/visage-backend/pkg/util"
)

// AuthHandler exposes login, profile and password endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	identifier, secret := req.Credentials()

	user, issued, err := h.auth.Login(c.UserContext(), identifier, secret)
	if err != nil {
		return err
	}

	return c.JSON(dto.LoginResponse{
		Success:   true,
		Message:   "Login successful",
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
		User:      user,
	})
}

// Logout handles POST /api/auth/logout. The client discards its token.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	if err := h.auth.Logout(c.UserContext(), principal); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Logout successful"})
}

// Profile handles GET /api/auth/profile.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	principal, err := principalOf(c)
	if err != nil {
		return err
	}
	user, err := h.auth.Profile(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(dto.UserResponse{Success: true, User: user})
}

// ChangePassword handles POST /api/auth/change-password.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal, err := principalOf(c)
	if err != nil {
		return err
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	current, next := req.Secrets()

	if err := h.auth.ChangePassword(c.UserContext(), principal, current, next); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Password changed successfully"})
}

// Verify handles GET /api/auth/verify by echoing the decoded claim.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	principal, err := principalOf(c)
	if err != nil {
		return err
	}
	return c.JSON(dto.VerifyResponse{Success: true, User: principal})
}

func principalOf(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, domain.ErrMissingClaim
	}
	return principal, nil
}
