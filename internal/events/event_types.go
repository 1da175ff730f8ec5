package events

import (
	"time"

	"github.com/spec-kit/club-admin/internal/domain"
)

// EventType enumerates security events emitted by the auth services.
type EventType string

const (
	EventLogin            EventType = "login"
	EventLogout           EventType = "logout"
	EventPasswordChanged  EventType = "password_changed"
	EventPasswordReset    EventType = "password_reset"
	EventStaffCreated     EventType = "staff_created"
	EventStaffActivated   EventType = "staff_activated"
	EventStaffDeactivated EventType = "staff_deactivated"
	EventRoleChanged      EventType = "role_changed"
)

// AllEventTypes lists every event the dispatcher can carry, for subscribers
// that want the full security stream.
var AllEventTypes = []EventType{
	EventLogin,
	EventLogout,
	EventPasswordChanged,
	EventPasswordReset,
	EventStaffCreated,
	EventStaffActivated,
	EventStaffDeactivated,
	EventRoleChanged,
}

// ActivityAction maps an event type to its activity-log action.
func (t EventType) ActivityAction() (domain.ActivityAction, bool) {
	switch t {
	case EventLogin:
		return domain.ActivityLogin, true
	case EventLogout:
		return domain.ActivityLogout, true
	case EventPasswordChanged:
		return domain.ActivityPasswordChange, true
	case EventPasswordReset:
		return domain.ActivityPasswordReset, true
	case EventStaffCreated:
		return domain.ActivityStaffCreated, true
	case EventStaffActivated:
		return domain.ActivityStaffActivated, true
	case EventStaffDeactivated:
		return domain.ActivityStaffDeactivated, true
	case EventRoleChanged:
		return domain.ActivityRoleChanged, true
	default:
		return "", false
	}
}

// Event is one security occurrence. StaffID and StaffName identify the
// affected account; Details is operator-facing free text and must never
// contain credentials.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	StaffID   string    `json:"staff_id"`
	StaffName string    `json:"staff_name"`
	Timestamp time.Time `json:"timestamp"`
	Details   string    `json:"details"`
}
