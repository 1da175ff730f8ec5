package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/club-admin/internal/auth"
	"github.com/spec-kit/club-admin/internal/config"
	"github.com/spec-kit/club-admin/internal/domain"
	"github.com/spec-kit/club-admin/internal/events"
	"github.com/spec-kit/club-admin/internal/observability"
	"github.com/spec-kit/club-admin/internal/rbac"
	"github.com/spec-kit/club-admin/internal/repository"
	"github.com/spec-kit/club-admin/internal/session"
	"github.com/spec-kit/club-admin/pkg/util"
)

// tempPasswordAlphabet avoids characters that read ambiguously when an admin
// relays a temporary password over the phone.
const tempPasswordAlphabet = "abcdefghjkmnpqrstuvwxyzABCDEFGHJKMNPQRSTUVWXYZ23456789"

const tempPasswordLength = 12

// StaffService is the staff-management facade: account creation, activation,
// role changes, and admin-initiated password resets. Every operation takes
// the caller's session explicitly and checks the policy table before acting.
type StaffService struct {
	staff      repository.StaffRepository
	activity   repository.ActivityRepository
	sessions   *session.Manager
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	bcryptCost int
	minPwLen   int
}

// StaffDependencies bundles collaborator requirements for the staff service.
type StaffDependencies struct {
	StaffRepo    repository.StaffRepository
	ActivityRepo repository.ActivityRepository
	Sessions     *session.Manager
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	Metrics      *observability.Metrics
}

// NewStaffService builds the service.
func NewStaffService(cfg config.AuthConfig, deps StaffDependencies) *StaffService {
	return &StaffService{
		staff:      deps.StaffRepo,
		activity:   deps.ActivityRepo,
		sessions:   deps.Sessions,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
		bcryptCost: cfg.BcryptCost,
		minPwLen:   cfg.MinPasswordLength,
	}
}

// authorize enforces the policy table for the caller's snapshot role.
// Denials are logged and counted; they are recoverable at the call site.
func (s *StaffService) authorize(caller *domain.Session, action rbac.Action) error {
	if caller == nil {
		return util.NewUnauthorized("authentication required")
	}
	if !rbac.IsAllowed(caller.Role, action) {
		s.metrics.RecordAuthEvent("access_denied")
		s.logger.Info("action denied",
			zap.String("staff_id", caller.StaffID),
			zap.String("role", string(caller.Role)),
			zap.String("action", string(action)),
		)
		return util.NewForbidden("not permitted for role")
	}
	return nil
}

func (s *StaffService) publish(ctx context.Context, eventType events.EventType, actor *domain.Session, details string) {
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		StaffID:   actor.StaffID,
		StaffName: actor.StaffName,
		Timestamp: time.Now(),
		Details:   details,
	})
}

// AddStaffMember creates a staff account. Creating a super_admin requires the
// elevation permission, which only super admins hold.
func (s *StaffService) AddStaffMember(ctx context.Context, caller *domain.Session, name, email string, role domain.Role, initialPassword string) (*domain.StaffAccount, error) {
	if err := s.authorize(caller, rbac.ActionManageStaff); err != nil {
		return nil, err
	}
	if role == domain.RoleSuperAdmin {
		if err := s.authorize(caller, rbac.ActionElevateSuperAdmin); err != nil {
			return nil, err
		}
	}
	if _, ok := domain.ParseRole(string(role)); !ok {
		return nil, util.NewValidationError("unknown role", map[string]any{"role": string(role)})
	}
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return nil, util.NewValidationError("name and email required", nil)
	}
	if len(initialPassword) < s.minPwLen {
		return nil, util.NewWeakPassword(s.minPwLen)
	}

	hash, err := auth.HashPassword(initialPassword, s.bcryptCost)
	if err != nil {
		return nil, util.NewInternalError(err)
	}

	staff := &domain.StaffAccount{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	if err := s.staff.Create(ctx, staff); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, util.NewDuplicateEmail()
		}
		return nil, util.NewInternalError(err)
	}

	s.publish(ctx, events.EventStaffCreated, caller,
		fmt.Sprintf("created staff account %s (%s)", staff.Email, domain.RoleDisplayName(staff.Role)))
	return staff, nil
}

// SetActive toggles an account. Deactivation revokes every outstanding
// session for the account before the call returns.
func (s *StaffService) SetActive(ctx context.Context, caller *domain.Session, staffID string, active bool) (*domain.StaffAccount, error) {
	if err := s.authorize(caller, rbac.ActionManageStaff); err != nil {
		return nil, err
	}

	staff, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, util.NewNotFound("staff account")
		}
		return nil, util.NewInternalError(err)
	}
	if staff.Role == domain.RoleSuperAdmin && caller.Role != domain.RoleSuperAdmin {
		return nil, util.NewForbidden("only a super admin may manage super admin accounts")
	}
	if staff.Active == active {
		return staff, nil
	}

	if err := s.staff.UpdateActive(ctx, staff.ID, active); err != nil {
		return nil, util.NewInternalError(err)
	}
	staff.Active = active

	eventType := events.EventStaffActivated
	verb := "activated"
	if !active {
		if err := s.sessions.RevokeAllForStaff(ctx, staff.ID); err != nil {
			return nil, util.NewInternalError(err)
		}
		eventType = events.EventStaffDeactivated
		verb = "deactivated"
	}

	s.publish(ctx, eventType, caller, fmt.Sprintf("%s staff account %s", verb, staff.Email))
	return staff, nil
}

// SetRole changes an account's role. Both granting super_admin and touching
// an existing super_admin account require the elevation permission. All
// sessions for the account are revoked so the old role cannot linger.
func (s *StaffService) SetRole(ctx context.Context, caller *domain.Session, staffID string, newRole domain.Role) (*domain.StaffAccount, error) {
	if err := s.authorize(caller, rbac.ActionManageStaff); err != nil {
		return nil, err
	}
	if _, ok := domain.ParseRole(string(newRole)); !ok {
		return nil, util.NewValidationError("unknown role", map[string]any{"role": string(newRole)})
	}

	staff, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, util.NewNotFound("staff account")
		}
		return nil, util.NewInternalError(err)
	}

	if newRole == domain.RoleSuperAdmin || staff.Role == domain.RoleSuperAdmin {
		if err := s.authorize(caller, rbac.ActionElevateSuperAdmin); err != nil {
			return nil, err
		}
	}
	if staff.Role == newRole {
		return staff, nil
	}

	oldRole := staff.Role
	if err := s.staff.UpdateRole(ctx, staff.ID, newRole); err != nil {
		return nil, util.NewInternalError(err)
	}
	staff.Role = newRole
	if err := s.sessions.RevokeAllForStaff(ctx, staff.ID); err != nil {
		return nil, util.NewInternalError(err)
	}

	s.publish(ctx, events.EventRoleChanged, caller,
		fmt.Sprintf("changed role of %s from %s to %s", staff.Email, oldRole, newRole))
	return staff, nil
}

// ResetPassword is the admin-initiated reset. When tempPassword is empty a
// readable one is generated and returned to the caller; it is never stored in
// plaintext or logged. Every session for the target is revoked.
func (s *StaffService) ResetPassword(ctx context.Context, caller *domain.Session, staffID, tempPassword string) (string, error) {
	if err := s.authorize(caller, rbac.ActionResetPassword); err != nil {
		return "", err
	}

	staff, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", util.NewNotFound("staff account")
		}
		return "", util.NewInternalError(err)
	}
	if staff.Role == domain.RoleSuperAdmin && caller.Role != domain.RoleSuperAdmin {
		return "", util.NewForbidden("only a super admin may reset a super admin password")
	}

	if tempPassword == "" {
		tempPassword, err = generateTempPassword()
		if err != nil {
			return "", util.NewInternalError(err)
		}
	} else if len(tempPassword) < s.minPwLen {
		return "", util.NewWeakPassword(s.minPwLen)
	}

	hash, err := auth.HashPassword(tempPassword, s.bcryptCost)
	if err != nil {
		return "", util.NewInternalError(err)
	}
	if err := s.staff.UpdatePassword(ctx, staff.ID, hash); err != nil {
		return "", util.NewInternalError(err)
	}
	if err := s.sessions.RevokeAllForStaff(ctx, staff.ID); err != nil {
		return "", util.NewInternalError(err)
	}

	s.publish(ctx, events.EventPasswordReset, caller,
		fmt.Sprintf("reset password for %s", staff.Email))
	return tempPassword, nil
}

// List returns every staff account for the management page.
func (s *StaffService) List(ctx context.Context, caller *domain.Session) ([]domain.StaffAccount, error) {
	if err := s.authorize(caller, rbac.ActionManageStaff); err != nil {
		return nil, err
	}
	list, err := s.staff.List(ctx)
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	return list, nil
}

// RecentActivity returns the newest activity entries. Reading the log is
// itself a permission-gated action.
func (s *StaffService) RecentActivity(ctx context.Context, caller *domain.Session, limit int) ([]domain.ActivityLogEntry, error) {
	if err := s.authorize(caller, rbac.ActionReadActivityLog); err != nil {
		return nil, err
	}
	entries, err := s.activity.Recent(ctx, limit)
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	return entries, nil
}

func generateTempPassword() (string, error) {
	max := big.NewInt(int64(len(tempPasswordAlphabet)))
	buf := make([]byte, tempPasswordLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = tempPasswordAlphabet[n.Int64()]
	}
	return string(buf), nil
}
