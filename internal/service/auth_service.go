package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/visage-campus/visage-backend/internal/auth"
	"github.com/visage-campus/visage-backend/internal/config"
	"github.com/visage-campus/visage-backend/internal/domain"
	"github.com/visage-campus/visage-backend/internal/events"
	"github.com/visage-campus/visage-backend/internal/repository"
	apperrors "github.com/visage-campus/visage-backend/pkg/util"
)

// ProfileCache is the read-through cache consulted for profile lookups.
type ProfileCache interface {
	Get(ctx context.Context, userID int64) (*domain.Identity, bool)
	Set(ctx context.Context, identity *domain.Identity)
}

type noopCache struct{}

func (noopCache) Get(context.Context, int64) (*domain.Identity, bool) { return nil, false }
func (noopCache) Set(context.Context, *domain.Identity)               {}

// AuthService coordinates credential verification, claim issuance and password changes.
type AuthService struct {
	users      repository.UserRepository
	claims     *auth.ClaimManager
	dispatcher events.Dispatcher
	cache      ProfileCache
	bcryptCost int
	dummyHash  string
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Claims     *auth.ClaimManager
	Dispatcher events.Dispatcher
	Cache      ProfileCache
}

// NewAuthService builds the service. A nil Claims manager is built from cfg.
func NewAuthService(cfg config.Config, deps AuthDependencies) (*AuthService, error) {
	claims := deps.Claims
	if claims == nil {
		claims = auth.NewClaimManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	}
	dispatcher := deps.Dispatcher
	if dispatcher == nil {
		dispatcher = events.NewInMemoryDispatcher(nil)
	}
	var cache ProfileCache = noopCache{}
	if deps.Cache != nil {
		cache = deps.Cache
	}

	// Compared against when the identifier is unknown so both failure paths pay for a bcrypt round.
	dummyHash, err := auth.HashPassword(uuid.NewString(), cfg.Auth.BcryptCost)
	if err != nil {
		return nil, err
	}

	return &AuthService{
		users:      deps.UserRepo,
		claims:     claims,
		dispatcher: dispatcher,
		cache:      cache,
		bcryptCost: cfg.Auth.BcryptCost,
		dummyHash:  dummyHash,
	}, nil
}

// Verify checks an identifier/secret pair against the stored record.
func (s *AuthService) Verify(ctx context.Context, identifier, secret string) (*domain.Identity, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || secret == "" {
		return nil, apperrors.NewValidationError("username and password required", nil)
	}

	user, err := s.users.GetByIDNumber(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			_ = auth.ComparePassword(s.dummyHash, secret)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Active {
		return nil, domain.ErrAccountDeactivated
	}
	if err := auth.ComparePassword(user.PasswordHash, secret); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user.Identity(), nil
}

// Login verifies credentials and mints a session claim.
func (s *AuthService) Login(ctx context.Context, identifier, secret string) (*domain.Identity, auth.IssuedClaim, error) {
	identity, err := s.Verify(ctx, identifier, secret)
	if err != nil {
		if reason := failureReason(err); reason != "" {
			_ = s.dispatcher.Publish(ctx, events.New(events.EventLoginFailed, 0, events.Actor{},
				events.LoginPayload{IDNumber: strings.TrimSpace(identifier), Reason: reason}))
		}
		return nil, auth.IssuedClaim{}, err
	}

	issued, err := s.claims.Issue(identity)
	if err != nil {
		return nil, auth.IssuedClaim{}, apperrors.NewInternalError(err)
	}

	_ = s.dispatcher.Publish(ctx, events.New(events.EventLoginSucceeded, identity.ID,
		events.Actor{UserID: identity.ID, Username: identity.IDNumber, Role: identity.Role},
		events.LoginPayload{IDNumber: identity.IDNumber}))
	return identity, issued, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrAccountDeactivated):
		return "account_deactivated"
	}
	return ""
}

// Logout currently no-ops for stateless claims; the client discards its token.
func (s *AuthService) Logout(_ context.Context, _ *auth.Principal) error {
	return nil
}

// Profile returns the current public identity of the caller.
func (s *AuthService) Profile(ctx context.Context, principal *auth.Principal) (*domain.Identity, error) {
	if principal == nil {
		return nil, domain.ErrMissingClaim
	}
	if identity, ok := s.cache.Get(ctx, principal.UserID); ok {
		return identity, nil
	}
	user, err := s.users.GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	identity := user.Identity()
	s.cache.Set(ctx, identity)
	return identity, nil
}

// ChangePassword verifies the current secret before storing a hash of the new one.
// Claims issued before the change stay valid until they expire.
func (s *AuthService) ChangePassword(ctx context.Context, principal *auth.Principal, currentPassword, newPassword string) error {
	if principal == nil {
		return domain.ErrMissingClaim
	}
	if currentPassword == "" {
		return apperrors.NewValidationError("current password required", map[string]any{"currentPassword": "required"})
	}
	if err := auth.CheckPasswordPolicy(newPassword); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, principal.UserID)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return domain.ErrIncorrectCurrentSecret
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return err
	}

	_ = s.dispatcher.Publish(ctx, events.New(events.EventPasswordChanged, user.ID, actorOf(principal), nil))
	return nil
}

// ClaimManager exposes the underlying claim manager for middleware usage.
func (s *AuthService) ClaimManager() *auth.ClaimManager {
	return s.claims
}

func actorOf(p *auth.Principal) events.Actor {
	if p == nil {
		return events.Actor{}
	}
	return events.Actor{UserID: p.UserID, Username: p.Username, Role: p.Role}
}
