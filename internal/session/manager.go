package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/spec-kit/club-admin/internal/domain"
	"github.com/spec-kit/club-admin/internal/observability"
	"github.com/spec-kit/club-admin/internal/repository"
)

const tokenBytes = 32

// AccountChecker is the slice of the staff store the manager needs to confirm
// a session's account is still active. repository.StaffRepository satisfies it.
type AccountChecker interface {
	GetByID(ctx context.Context, id string) (*domain.StaffAccount, error)
}

// Manager issues, validates, and revokes sessions. Expiry policy is fixed
// unless sliding is enabled at construction; Touch is a no-op under fixed
// expiry so there is exactly one policy per deployment.
type Manager struct {
	store    Store
	accounts AccountChecker
	ttl      time.Duration
	sliding  bool
	metrics  *observability.Metrics
}

// NewManager builds a session manager.
func NewManager(store Store, accounts AccountChecker, ttl time.Duration, sliding bool, metrics *observability.Metrics) *Manager {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Manager{store: store, accounts: accounts, ttl: ttl, sliding: sliding, metrics: metrics}
}

// TTL returns the configured session lifetime.
func (m *Manager) TTL() time.Duration { return m.ttl }

// newToken returns a fresh cryptographically random token. Failure means the
// entropy source is broken and is not recoverable.
func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Create issues a session for the staff account, snapshotting identity and
// role at login time.
func (m *Manager) Create(ctx context.Context, staff *domain.StaffAccount) (*domain.Session, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &domain.Session{
		Token:      token,
		StaffID:    staff.ID,
		StaffName:  staff.Name,
		StaffEmail: staff.Email,
		Role:       staff.Role,
		LoginTime:  now,
		ExpiresAt:  now.Add(m.ttl),
	}
	if err := m.store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Validate returns the session for a token, or (nil, nil) when the token is
// unknown, expired, or bound to an inactive account. Store failures return an
// error so the caller fails closed rather than treating them as logged in.
func (m *Manager) Validate(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, nil
	}

	session, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	now := time.Now()
	if session.Expired(now) {
		m.metrics.RecordAuthEvent("session_expired")
		_ = m.store.Delete(ctx, token)
		return nil, nil
	}

	staff, err := m.accounts.GetByID(ctx, session.StaffID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = m.store.Delete(ctx, token)
			return nil, nil
		}
		return nil, err
	}
	if !staff.Active {
		// deactivation should already have revoked these, but never trust a
		// session the account no longer backs
		_, _ = m.store.DeleteAllForStaff(ctx, session.StaffID)
		return nil, nil
	}

	return session, nil
}

// Touch extends the session expiry under sliding policy. Under fixed expiry
// it does nothing.
func (m *Manager) Touch(ctx context.Context, token string) error {
	if !m.sliding || token == "" {
		return nil
	}
	return m.store.ExtendExpiry(ctx, token, time.Now().Add(m.ttl))
}

// Revoke invalidates a single session. Revoking an unknown token is not an
// error; logout is idempotent.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	m.metrics.RecordAuthEvent("session_revoked")
	return m.store.Delete(ctx, token)
}

// RevokeAllForStaff invalidates every session for a staff id. Called on
// deactivation and on role or password changes so stale-privilege sessions
// cannot outlive the change.
func (m *Manager) RevokeAllForStaff(ctx context.Context, staffID string) error {
	count, err := m.store.DeleteAllForStaff(ctx, staffID)
	if err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		m.metrics.RecordAuthEvent("session_revoked")
	}
	return nil
}

// RevokeOthers invalidates all sessions for a staff id except keepToken.
// Used by password change so the session performing the change survives.
func (m *Manager) RevokeOthers(ctx context.Context, staffID, keepToken string) error {
	tokens, err := m.store.TokensForStaff(ctx, staffID)
	if err != nil {
		return err
	}
	for _, token := range tokens {
		if token == keepToken {
			continue
		}
		if err := m.Revoke(ctx, token); err != nil {
			return err
		}
	}
	return nil
}

// PurgeExpired removes expired sessions from the store.
func (m *Manager) PurgeExpired(ctx context.Context) (int, error) {
	return m.store.PurgeExpired(ctx, time.Now())
}
