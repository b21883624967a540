package models

import "time"

// UserRole is the access tier of an account.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// IsValidRole reports whether the role is one of the known tiers.
func IsValidRole(role UserRole) bool {
	return role == RoleUser || role == RoleAdmin
}

type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	FullName     string     `json:"full_name"`
	PasswordHash string     `json:"-"`
	Role         UserRole   `json:"role"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// CanMutate reports whether the user may change a template owned by ownerID.
// Owners edit their own templates; admins edit anything.
func (u User) CanMutate(ownerID string) bool {
	return u.Role == RoleAdmin || u.ID == ownerID
}
