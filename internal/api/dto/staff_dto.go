package dto

import "time"

// StaffCreateRequest payload for adding a staff member.
type StaffCreateRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	InitialPassword string `json:"initial_password"`
}

// StaffSetActiveRequest payload for activation toggles.
type StaffSetActiveRequest struct {
	Active *bool `json:"active"`
}

// StaffSetRoleRequest payload for role changes.
type StaffSetRoleRequest struct {
	Role string `json:"role"`
}

// StaffResetPasswordRequest payload for admin-initiated resets. An empty
// temporary password asks the server to generate one.
type StaffResetPasswordRequest struct {
	TemporaryPassword string `json:"temporary_password"`
}

// StaffResponse is the public view of a staff account. The password hash is
// never serialized.
type StaffResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	RoleDisplay string     `json:"role_display"`
	Active      bool       `json:"active"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
