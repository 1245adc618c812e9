package domain

import "errors"

var (
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrAccountDeactivated     = errors.New("account is deactivated")
	ErrMissingClaim           = errors.New("access token required")
	ErrMalformedClaim         = errors.New("invalid token")
	ErrExpiredClaim           = errors.New("token expired")
	ErrIncorrectCurrentSecret = errors.New("current password is incorrect")
	ErrWeakSecret             = errors.New("password too short")
	ErrNotFound               = errors.New("not found")
	ErrDuplicateIdentity      = errors.New("id number or email already exists")
	ErrStoreUnavailable       = errors.New("identity store unavailable")
	ErrForbidden              = errors.New("insufficient role")
)
