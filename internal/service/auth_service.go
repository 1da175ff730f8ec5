package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/club-admin/internal/auth"
	"github.com/spec-kit/club-admin/internal/config"
	"github.com/spec-kit/club-admin/internal/domain"
	"github.com/spec-kit/club-admin/internal/events"
	"github.com/spec-kit/club-admin/internal/observability"
	"github.com/spec-kit/club-admin/internal/repository"
	"github.com/spec-kit/club-admin/internal/session"
	"github.com/spec-kit/club-admin/pkg/util"
)

// resetRequestMessage is returned for every reset request, whether or not the
// email exists, so responses cannot be used to probe for accounts.
const resetRequestMessage = "If an account exists for that address, password reset instructions have been sent."

// dummyHash is compared against when the email is unknown so a failed lookup
// costs roughly the same as a wrong password.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// ResetDelivery hands a reset token to an out-of-band channel. The default
// implementation drops it; a deployment plugs in mail or SMS. The token must
// never be persisted or logged.
type ResetDelivery interface {
	Deliver(ctx context.Context, email, token string, expiresAt time.Time) error
}

type noopResetDelivery struct{}

func (noopResetDelivery) Deliver(context.Context, string, string, time.Time) error { return nil }

// NewNoopResetDelivery returns a delivery channel that discards tokens.
func NewNoopResetDelivery() ResetDelivery { return noopResetDelivery{} }

// AuthService is the authentication facade: login, logout, session lookup,
// and the password flows a staff member performs on their own account.
type AuthService struct {
	staff       repository.StaffRepository
	sessions    *session.Manager
	dispatcher  events.Dispatcher
	resetIssuer *auth.ResetTokenIssuer
	delivery    ResetDelivery
	logger      *zap.Logger
	metrics     *observability.Metrics
	bcryptCost  int
	minPwLen    int
}

// AuthDependencies bundles collaborator requirements for the auth service.
type AuthDependencies struct {
	StaffRepo  repository.StaffRepository
	Sessions   *session.Manager
	Dispatcher events.Dispatcher
	Delivery   ResetDelivery
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	delivery := deps.Delivery
	if delivery == nil {
		delivery = NewNoopResetDelivery()
	}
	return &AuthService{
		staff:       deps.StaffRepo,
		sessions:    deps.Sessions,
		dispatcher:  deps.Dispatcher,
		resetIssuer: auth.NewResetTokenIssuer(cfg.ResetTokenSecret, cfg.ResetTokenTTL()),
		delivery:    delivery,
		logger:      deps.Logger,
		metrics:     deps.Metrics,
		bcryptCost:  cfg.BcryptCost,
		minPwLen:    cfg.MinPasswordLength,
	}
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, staffID, staffName, details string) {
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		StaffID:   staffID,
		StaffName: staffName,
		Timestamp: time.Now(),
		Details:   details,
	})
}

// Login authenticates by email and password and issues a session. Unknown
// email, wrong password, and inactive account all surface the same message;
// only the internal code and logs differ.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	staff, err := s.staff.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			auth.VerifyPassword(dummyHash, password)
			s.metrics.RecordAuthEvent("login_failed")
			s.logger.Info("login failed: unknown email")
			return nil, util.NewInvalidCredentials(util.CodeInvalidCredentials)
		}
		return nil, util.NewInternalError(err)
	}

	if !staff.Active {
		// distinct reason stays in the logs; the caller sees the same error
		// as any other failed login
		s.metrics.RecordAuthEvent("login_failed")
		s.logger.Info("login failed",
			zap.String("reason", util.CodeAccountInactive),
			zap.String("staff_id", staff.ID))
		return nil, util.NewInvalidCredentials(util.CodeInvalidCredentials)
	}

	if !auth.VerifyPassword(staff.PasswordHash, password) {
		s.metrics.RecordAuthEvent("login_failed")
		s.logger.Info("login failed",
			zap.String("reason", util.CodeInvalidCredentials),
			zap.String("staff_id", staff.ID))
		return nil, util.NewInvalidCredentials(util.CodeInvalidCredentials)
	}

	now := time.Now()
	staff.LastLogin = &now
	if err := s.staff.UpdateLastLogin(ctx, staff.ID, now); err != nil {
		return nil, util.NewInternalError(err)
	}

	sess, err := s.sessions.Create(ctx, staff)
	if err != nil {
		return nil, util.NewInternalError(err)
	}

	s.metrics.RecordAuthEvent("login_success")
	s.publish(ctx, events.EventLogin, staff.ID, staff.Name, "signed in")
	return sess, nil
}

// Logout revokes the session behind a token. Logging out an already-invalid
// token is not an error and records nothing.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	sess, err := s.sessions.Validate(ctx, token)
	if err != nil {
		return util.NewInternalError(err)
	}
	if sess == nil {
		return nil
	}
	if err := s.sessions.Revoke(ctx, token); err != nil {
		return util.NewInternalError(err)
	}
	s.publish(ctx, events.EventLogout, sess.StaffID, sess.StaffName, "signed out")
	return nil
}

// CurrentSession resolves a token to its session, refreshing expiry under
// sliding policy. A nil session with nil error is the normal logged-out state.
func (s *AuthService) CurrentSession(ctx context.Context, token string) (*domain.Session, error) {
	sess, err := s.sessions.Validate(ctx, token)
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	if sess == nil {
		return nil, nil
	}
	if err := s.sessions.Touch(ctx, token); err != nil {
		s.logger.Warn("failed to touch session", zap.Error(err))
	}
	return sess, nil
}

// ChangePassword lets the session holder change their own password after
// re-proving the current one. Every other session for the account is revoked;
// the one performing the change survives.
func (s *AuthService) ChangePassword(ctx context.Context, token, currentPassword, newPassword string) error {
	sess, err := s.sessions.Validate(ctx, token)
	if err != nil {
		return util.NewInternalError(err)
	}
	if sess == nil {
		return util.NewUnauthorized("authentication required")
	}

	if len(newPassword) < s.minPwLen {
		return util.NewWeakPassword(s.minPwLen)
	}

	staff, err := s.staff.GetByID(ctx, sess.StaffID)
	if err != nil {
		return util.NewInternalError(err)
	}
	if !auth.VerifyPassword(staff.PasswordHash, currentPassword) {
		s.metrics.RecordAuthEvent("login_failed")
		return util.NewInvalidCredentials(util.CodeInvalidCredentials)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return util.NewInternalError(err)
	}
	// only the password column is written; a deactivation or role change
	// landing between our read and this write is untouched
	if err := s.staff.UpdatePassword(ctx, staff.ID, hash); err != nil {
		return util.NewInternalError(err)
	}

	if err := s.sessions.RevokeOthers(ctx, staff.ID, token); err != nil {
		return util.NewInternalError(err)
	}

	s.publish(ctx, events.EventPasswordChanged, staff.ID, staff.Name, "changed own password")
	return nil
}

// RequestPasswordReset starts the unauthenticated reset flow. The response is
// textually identical whether or not the email exists; when it does, a signed
// reset token goes to the delivery channel and nowhere else.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) string {
	staff, err := s.staff.GetByEmail(ctx, email)
	if err != nil || !staff.Active {
		return resetRequestMessage
	}

	token, expiresAt, err := s.resetIssuer.Issue(staff.ID)
	if err != nil {
		s.logger.Error("failed to issue reset token", zap.String("staff_id", staff.ID), zap.Error(err))
		return resetRequestMessage
	}
	if err := s.delivery.Deliver(ctx, staff.Email, token, expiresAt); err != nil {
		s.logger.Error("failed to deliver reset token", zap.String("staff_id", staff.ID), zap.Error(err))
	}
	return resetRequestMessage
}

// ConfirmPasswordReset completes the unauthenticated reset flow with a token
// from the delivery channel. All sessions for the account are revoked.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, resetToken, newPassword string) error {
	staffID, err := s.resetIssuer.Verify(resetToken)
	if err != nil {
		return util.NewUnauthorized("reset token invalid or expired")
	}

	if len(newPassword) < s.minPwLen {
		return util.NewWeakPassword(s.minPwLen)
	}

	staff, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return util.NewUnauthorized("reset token invalid or expired")
		}
		return util.NewInternalError(err)
	}
	if !staff.Active {
		return util.NewUnauthorized("reset token invalid or expired")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return util.NewInternalError(err)
	}
	if err := s.staff.UpdatePassword(ctx, staff.ID, hash); err != nil {
		return util.NewInternalError(err)
	}
	if err := s.sessions.RevokeAllForStaff(ctx, staff.ID); err != nil {
		return util.NewInternalError(err)
	}

	s.publish(ctx, events.EventPasswordReset, staff.ID, staff.Name, "completed password reset")
	return nil
}
