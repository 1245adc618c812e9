package service

import (
	"context"
	"errors"
	"strings"

	"github.com/visage-campus/visage-backend/internal/auth"
	"github.com/visage-campus/visage-backend/internal/config"
	"github.com/visage-campus/visage-backend/internal/domain"
	"github.com/visage-campus/visage-backend/internal/events"
	"github.com/visage-campus/visage-backend/internal/repository"
	apperrors "github.com/visage-campus/visage-backend/pkg/util"
)

// UserService manages identity records on behalf of administrators and account holders.
type UserService struct {
	users      repository.UserRepository
	roles      repository.RoleRepository
	dispatcher events.Dispatcher
	bcryptCost int
}

// UserDependencies encapsulates repositories required for user management.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	RoleRepo   repository.RoleRepository
	Dispatcher events.Dispatcher
}

// NewUserService constructs the service.
func NewUserService(cfg config.Config, deps UserDependencies) *UserService {
	dispatcher := deps.Dispatcher
	if dispatcher == nil {
		dispatcher = events.NewInMemoryDispatcher(nil)
	}
	return &UserService{
		users:      deps.UserRepo,
		roles:      deps.RoleRepo,
		dispatcher: dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// NewUser is the input for creating an identity.
type NewUser struct {
	IDNumber string `json:"id_number" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"full_name" validate:"required,max=255"`
	Course   string `json:"course" validate:"omitempty,max=255"`
	RoleID   int    `json:"role_id" validate:"required,min=1"`
}

func requireAdmin(actor *auth.Principal) error {
	if actor == nil || actor.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	return nil
}

// List returns all identities, newest first.
func (s *UserService) List(ctx context.Context, actor *auth.Principal) ([]domain.Identity, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	identities := make([]domain.Identity, 0, len(users))
	for i := range users {
		identities = append(identities, *users[i].Identity())
	}
	return identities, nil
}

// Get looks up one identity by internal ID.
func (s *UserService) Get(ctx context.Context, actor *auth.Principal, id int64) (*domain.Identity, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Identity(), nil
}

// Roles returns the role catalogue.
func (s *UserService) Roles(ctx context.Context, actor *auth.Principal) ([]domain.Role, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.roles.List(ctx)
}

// Create inserts a new identity on behalf of an administrator.
func (s *UserService) Create(ctx context.Context, actor *auth.Principal, in NewUser) (*domain.Identity, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.create(ctx, actorOf(actor), in)
}

// Provision inserts a new identity for trusted bootstrap callers such as the seed CLI.
func (s *UserService) Provision(ctx context.Context, in NewUser) (*domain.Identity, error) {
	return s.create(ctx, events.Actor{}, in)
}

func (s *UserService) create(ctx context.Context, actor events.Actor, in NewUser) (*domain.Identity, error) {
	in.IDNumber = strings.TrimSpace(in.IDNumber)
	in.Email = normalizeEmail(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	in.Course = strings.TrimSpace(in.Course)
	if err := apperrors.ValidateStruct(in); err != nil {
		return nil, err
	}
	if err := auth.CheckPasswordPolicy(in.Password); err != nil {
		return nil, err
	}
	if err := s.ensureRole(ctx, in.RoleID); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByIDNumberOrEmail(ctx, in.IDNumber, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateIdentity
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		IDNumber:     in.IDNumber,
		FullName:     in.FullName,
		Email:        in.Email,
		PasswordHash: hash,
		Course:       in.Course,
		RoleID:       in.RoleID,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	created, err := s.users.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	_ = s.dispatcher.Publish(ctx, events.New(events.EventUserCreated, created.ID, actor, nil))
	return created.Identity(), nil
}

// Update applies an allow-listed change set to an identity.
func (s *UserService) Update(ctx context.Context, actor *auth.Principal, id int64, update domain.UserUpdate) (*domain.Identity, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if update.Empty() {
		return nil, apperrors.NewValidationError("No valid fields to update", nil)
	}

	var fields []string
	if update.FullName != nil {
		name := strings.TrimSpace(*update.FullName)
		if name == "" {
			return nil, apperrors.NewValidationError("validation failed", map[string]any{"full_name": "required"})
		}
		update.FullName = &name
		fields = append(fields, "full_name")
	}
	if update.Course != nil {
		course := strings.TrimSpace(*update.Course)
		update.Course = &course
		fields = append(fields, "course")
	}
	if update.RoleID != nil {
		if err := s.ensureRole(ctx, *update.RoleID); err != nil {
			return nil, err
		}
		fields = append(fields, "role_id")
	}
	if update.Active != nil {
		fields = append(fields, "is_active")
	}

	if err := s.users.Update(ctx, id, update); err != nil {
		return nil, err
	}
	_ = s.dispatcher.Publish(ctx, events.New(events.EventUserUpdated, id, actorOf(actor), events.UserChangedPayload{Fields: fields}))

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Identity(), nil
}

// UpdateProfile lets an account holder change their own name, email or course.
func (s *UserService) UpdateProfile(ctx context.Context, principal *auth.Principal, update domain.ProfileUpdate) (*domain.Identity, error) {
	if principal == nil {
		return nil, domain.ErrMissingClaim
	}
	if update.Empty() {
		return nil, apperrors.NewValidationError("No valid fields to update", nil)
	}

	var fields []string
	if update.FullName != nil {
		name := strings.TrimSpace(*update.FullName)
		if name == "" {
			return nil, apperrors.NewValidationError("validation failed", map[string]any{"fullName": "required"})
		}
		update.FullName = &name
		fields = append(fields, "full_name")
	}
	if update.Email != nil {
		email := normalizeEmail(*update.Email)
		if err := apperrors.ValidateVar("email", email, "required,email"); err != nil {
			return nil, err
		}
		taken, err := s.users.EmailTaken(ctx, email, principal.UserID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.ErrDuplicateIdentity
		}
		update.Email = &email
		fields = append(fields, "email")
	}
	if update.Course != nil {
		course := strings.TrimSpace(*update.Course)
		update.Course = &course
		fields = append(fields, "course")
	}

	if err := s.users.UpdateProfile(ctx, principal.UserID, update); err != nil {
		return nil, err
	}
	_ = s.dispatcher.Publish(ctx, events.New(events.EventProfileUpdated, principal.UserID, actorOf(principal), events.UserChangedPayload{Fields: fields}))

	user, err := s.users.GetByID(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	return user.Identity(), nil
}

// Delete removes an identity.
func (s *UserService) Delete(ctx context.Context, actor *auth.Principal, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.dispatcher.Publish(ctx, events.New(events.EventUserDeleted, id, actorOf(actor), nil))
	return nil
}

func (s *UserService) ensureRole(ctx context.Context, roleID int) error {
	if _, err := s.roles.GetByID(ctx, roleID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperrors.NewValidationError("unknown role", map[string]any{"role_id": "exists"})
		}
		return err
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
