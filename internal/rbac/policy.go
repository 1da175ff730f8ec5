// Package rbac decides whether a staff role may perform an action. The
// decision is a pure function over two closed enums; anything outside the
// enums is denied.
package rbac

import "github.com/spec-kit/club-admin/internal/domain"

// Action enumerates everything a role can be granted. Content-domain actions
// are included so callers outside this subsystem can gate their own UI with
// the same table.
type Action string

const (
	ActionManageStaff       Action = "manage_staff"
	ActionElevateSuperAdmin Action = "elevate_super_admin"
	ActionResetPassword     Action = "reset_password"
	ActionReadActivityLog   Action = "read_activity_log"
	ActionManageNews        Action = "manage_news"
	ActionManageSponsors    Action = "manage_sponsors"
	ActionManageTicketFares Action = "manage_ticket_prices"
	ActionManageProgramme   Action = "manage_programme"
)

// ParseAction maps a raw string onto the closed action set.
func ParseAction(raw string) (Action, bool) {
	switch Action(raw) {
	case ActionManageStaff, ActionElevateSuperAdmin, ActionResetPassword,
		ActionReadActivityLog, ActionManageNews, ActionManageSponsors,
		ActionManageTicketFares, ActionManageProgramme:
		return Action(raw), true
	default:
		return "", false
	}
}

// IsAllowed reports whether role may perform action. Deny by default: unknown
// roles and unknown actions are false, never an error. Self-service password
// changes are not in this table; the facade evaluates "act on self"
// separately and allows it for every role.
func IsAllowed(role domain.Role, action Action) bool {
	switch role {
	case domain.RoleSuperAdmin:
		switch action {
		case ActionManageStaff, ActionElevateSuperAdmin, ActionResetPassword,
			ActionReadActivityLog, ActionManageNews, ActionManageSponsors,
			ActionManageTicketFares, ActionManageProgramme:
			return true
		}
		return false
	case domain.RoleAdmin:
		switch action {
		case ActionManageStaff, ActionResetPassword, ActionReadActivityLog,
			ActionManageNews, ActionManageSponsors, ActionManageTicketFares,
			ActionManageProgramme:
			return true
		case ActionElevateSuperAdmin:
			// admins may not mint super admins, explicitly
			return false
		}
		return false
	case domain.RoleEditor:
		return action == ActionManageNews
	case domain.RoleCommercial:
		return action == ActionManageSponsors || action == ActionManageTicketFares
	case domain.RoleOperations:
		return action == ActionManageProgramme
	default:
		return false
	}
}
