package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/visage-campus/visage-backend/internal/domain"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

// NewInternalError hides err behind a generic 500; err is kept for logging only.
func NewInternalError(err error) *DomainError {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

type sentinelMapping struct {
	target  error
	code    string
	message string
	status  int
}

// Order matters only where a wrapped chain could match twice; store failures go last.
var sentinels = []sentinelMapping{
	{domain.ErrInvalidCredentials, "INVALID_CREDENTIALS", "Invalid credentials", http.StatusUnauthorized},
	{domain.ErrAccountDeactivated, "ACCOUNT_DEACTIVATED", "Account is deactivated", http.StatusUnauthorized},
	{domain.ErrMissingClaim, "MISSING_TOKEN", "Access token required", http.StatusUnauthorized},
	{domain.ErrExpiredClaim, "TOKEN_EXPIRED", "Token has expired", http.StatusUnauthorized},
	{domain.ErrMalformedClaim, "INVALID_TOKEN", "Invalid token", http.StatusUnauthorized},
	{domain.ErrIncorrectCurrentSecret, "INCORRECT_CURRENT_PASSWORD", "Current password is incorrect", http.StatusBadRequest},
	{domain.ErrWeakSecret, "WEAK_PASSWORD", "Password must be at least 6 characters", http.StatusBadRequest},
	{domain.ErrForbidden, "FORBIDDEN", "Insufficient role", http.StatusForbidden},
	{domain.ErrDuplicateIdentity, "DUPLICATE_IDENTITY", "ID Number or email already exists", http.StatusConflict},
	{domain.ErrNotFound, "NOT_FOUND", "User not found", http.StatusNotFound},
	{domain.ErrStoreUnavailable, "STORE_UNAVAILABLE", "Service temporarily unavailable", http.StatusServiceUnavailable},
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	for _, m := range sentinels {
		if errors.Is(err, m.target) {
			return &DomainError{Code: m.code, Message: m.message, HTTPStatus: m.status, Err: err}
		}
	}
	return NewInternalError(err)
}
