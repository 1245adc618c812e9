package dto

import (
	"github.com/visage-campus/visage-backend/internal/domain"
	"github.com/visage-campus/visage-backend/internal/service"
)

// CreateUserRequest is the admin payload for POST /api/users.
type CreateUserRequest struct {
	IDNumber string `json:"id_number"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Course   string `json:"course"`
	RoleID   int    `json:"role_id"`
}

// ToNewUser maps the payload onto the service input.
func (r CreateUserRequest) ToNewUser() service.NewUser {
	return service.NewUser{
		IDNumber: r.IDNumber,
		Email:    r.Email,
		Password: r.Password,
		FullName: r.FullName,
		Course:   r.Course,
		RoleID:   r.RoleID,
	}
}

// UpdateUserRequest is the admin payload for PUT /api/users/:id.
// Keys outside this struct are ignored.
type UpdateUserRequest struct {
	FullName *string `json:"full_name"`
	Course   *string `json:"course"`
	RoleID   *int    `json:"role_id"`
	IsActive *bool   `json:"is_active"`
}

func (r UpdateUserRequest) ToUpdate() domain.UserUpdate {
	return domain.UserUpdate{
		FullName: r.FullName,
		Course:   r.Course,
		RoleID:   r.RoleID,
		Active:   r.IsActive,
	}
}

// UpdateProfileRequest is the self-service payload for PUT /api/users/profile.
type UpdateProfileRequest struct {
	FullName *string `json:"fullName"`
	Email    *string `json:"email"`
	Course   *string `json:"course"`
}

func (r UpdateProfileRequest) ToUpdate() domain.ProfileUpdate {
	return domain.ProfileUpdate{
		FullName: r.FullName,
		Email:    r.Email,
		Course:   r.Course,
	}
}

// CreateUserResponse is returned after a successful insert.
type CreateUserResponse struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	UserID  int64            `json:"user_id"`
	User    *domain.Identity `json:"user"`
}

// UserListResponse lists identities.
type UserListResponse struct {
	Success bool              `json:"success"`
	Count   int               `json:"count"`
	Users   []domain.Identity `json:"users"`
}

// RoleListResponse lists the role catalogue.
type RoleListResponse struct {
	Success bool          `json:"success"`
	Roles   []domain.Role `json:"roles"`
}
