package domain

import "time"

// ActivityAction enumerates security-relevant events recorded in the
// append-only activity log.
type ActivityAction string

const (
	ActivityLogin            ActivityAction = "login"
	ActivityLogout           ActivityAction = "logout"
	ActivityPasswordChange   ActivityAction = "password_change"
	ActivityPasswordReset    ActivityAction = "password_reset"
	ActivityStaffCreated     ActivityAction = "staff_created"
	ActivityStaffActivated   ActivityAction = "staff_activated"
	ActivityStaffDeactivated ActivityAction = "staff_deactivated"
	ActivityRoleChanged      ActivityAction = "role_changed"
)

// ActivityLogEntry is one audit record. Entries are never edited or removed.
// Details is free text for operators; it must never contain credentials.
type ActivityLogEntry struct {
	ID        string
	Timestamp time.Time
	StaffID   string
	StaffName string
	Action    ActivityAction
	Details   string
}
