package domain

import "time"

// Session is a time-bounded proof of authentication identified by an opaque
// token. Identity fields are a snapshot taken at login; role or name changes
// after issuance do not alter the session, they revoke it instead.
type Session struct {
	Token      string
	StaffID    string
	StaffName  string
	StaffEmail string
	Role       Role
	LoginTime  time.Time
	ExpiresAt  time.Time
}

// Expired reports whether the session is past its expiry at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
