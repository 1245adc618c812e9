package domain

// RoleName enumerates the capability tiers.
type RoleName string

const (
	RoleAdmin   RoleName = "admin"
	RoleFaculty RoleName = "faculty"
	RoleStudent RoleName = "student"
)

// Valid reports whether the name belongs to the closed role set.
func (r RoleName) Valid() bool {
	switch r {
	case RoleAdmin, RoleFaculty, RoleStudent:
		return true
	}
	return false
}

// Role is a row of the roles catalogue.
type Role struct {
	ID   int      `json:"id"`
	Name RoleName `json:"name"`
}
