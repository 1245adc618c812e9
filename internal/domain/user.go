package domain

import "time"

// User is the stored identity record for a campus account.
type User struct {
	ID           int64
	IDNumber     string
	FullName     string
	Email        string
	PasswordHash string
	Course       string
	RoleID       int
	RoleName     RoleName
	Active       bool
	CreatedAt    time.Time
}

// Identity is the public projection of a User. It never carries the hash.
type Identity struct {
	ID        int64     `json:"id"`
	IDNumber  string    `json:"username"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Course    string    `json:"course,omitempty"`
	Role      RoleName  `json:"role"`
	Active    bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// Identity strips the secret hash from the record.
func (u *User) Identity() *Identity {
	if u == nil {
		return nil
	}
	return &Identity{
		ID:        u.ID,
		IDNumber:  u.IDNumber,
		FullName:  u.FullName,
		Email:     u.Email,
		Course:    u.Course,
		Role:      u.RoleName,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}

// UserUpdate lists the columns an administrator may change. Nil fields are left untouched.
type UserUpdate struct {
	FullName *string
	Course   *string
	RoleID   *int
	Active   *bool
}

// Empty reports whether no field was provided.
func (u UserUpdate) Empty() bool {
	return u.FullName == nil && u.Course == nil && u.RoleID == nil && u.Active == nil
}

// ProfileUpdate lists the columns an account holder may change on their own record.
type ProfileUpdate struct {
	FullName *string
	Email    *string
	Course   *string
}

// Empty reports whether no field was provided.
func (p ProfileUpdate) Empty() bool {
	return p.FullName == nil && p.Email == nil && p.Course == nil
}
