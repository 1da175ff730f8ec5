package domain

import "time"

// Role enumerates staff roles for the club admin area.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleEditor     Role = "editor"
	RoleCommercial Role = "commercial"
	RoleOperations Role = "operations"
)

// ParseRole maps a raw string onto the closed role set. Unknown values are a
// construction error, never silently defaulted.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleSuperAdmin, RoleAdmin, RoleEditor, RoleCommercial, RoleOperations:
		return Role(raw), true
	default:
		return "", false
	}
}

// RoleDisplayName returns the human label for a role. Presentation only.
func RoleDisplayName(role Role) string {
	switch role {
	case RoleSuperAdmin:
		return "Super Admin"
	case RoleAdmin:
		return "Administrator"
	case RoleEditor:
		return "Editor"
	case RoleCommercial:
		return "Commercial"
	case RoleOperations:
		return "Operations"
	default:
		return string(role)
	}
}

// StaffAccount models a member of club staff with admin-area access.
// PasswordHash is the only stored credential; plaintext never leaves the
// login/change flows.
type StaffAccount struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Active       bool
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
