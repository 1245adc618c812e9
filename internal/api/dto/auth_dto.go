package dto

import (
	"strings"
	"time"

	"github.com/visage-campus/visage-backend/internal/auth"
	"github.com/visage-campus/visage-backend/internal/domain"
)

// LoginRequest accepts both identifier/secret and the web client's username/password.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Username   string `json:"username"`
	Secret     string `json:"secret"`
	Password   string `json:"password"`
}

// Credentials resolves the aliases, preferring identifier/secret.
func (r LoginRequest) Credentials() (identifier, secret string) {
	identifier = strings.TrimSpace(r.Identifier)
	if identifier == "" {
		identifier = strings.TrimSpace(r.Username)
	}
	secret = r.Secret
	if secret == "" {
		secret = r.Password
	}
	return identifier, secret
}

// ChangePasswordRequest accepts currentSecret/newSecret or currentPassword/newPassword.
type ChangePasswordRequest struct {
	CurrentSecret   string `json:"currentSecret"`
	NewSecret       string `json:"newSecret"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Secrets resolves the aliases.
func (r ChangePasswordRequest) Secrets() (current, next string) {
	current = r.CurrentSecret
	if current == "" {
		current = r.CurrentPassword
	}
	next = r.NewSecret
	if next == "" {
		next = r.NewPassword
	}
	return current, next
}

// LoginResponse is returned by POST /api/auth/login.
type LoginResponse struct {
	Success   bool             `json:"success"`
	Message   string           `json:"message"`
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expiresAt"`
	User      *domain.Identity `json:"user"`
}

// UserResponse wraps a single identity.
type UserResponse struct {
	Success bool             `json:"success"`
	User    *domain.Identity `json:"user"`
}

// VerifyResponse echoes the decoded claim.
type VerifyResponse struct {
	Success bool            `json:"success"`
	User    *auth.Principal `json:"user"`
}

// MessageResponse is the body of operations that return no resource.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
