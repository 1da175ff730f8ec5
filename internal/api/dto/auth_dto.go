package dto

import "time"

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse is the public view of a session. The token is returned only
// from login; session lookups echo identity and expiry, never the token.
type SessionResponse struct {
	Token       string    `json:"token,omitempty"`
	StaffID     string    `json:"staff_id"`
	StaffName   string    `json:"staff_name"`
	StaffEmail  string    `json:"staff_email"`
	Role        string    `json:"role"`
	RoleDisplay string    `json:"role_display"`
	LoginTime   time.Time `json:"login_time"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// PasswordChangeRequest payload for authenticated password changes.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// PasswordResetRequest payload for initiating the unauthenticated reset flow.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest payload for confirming a reset.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}
