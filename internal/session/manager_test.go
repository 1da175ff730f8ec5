package session

import (
	"context"
	"testing"
	"time"

	"github.com/spec-kit/club-admin/internal/domain"
	"github.com/spec-kit/club-admin/internal/repository"
)

type stubAccounts struct {
	accounts map[string]*domain.StaffAccount
}

func (s *stubAccounts) GetByID(_ context.Context, id string) (*domain.StaffAccount, error) {
	staff, ok := s.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *staff
	return &copied, nil
}

func newTestManager(t *testing.T, ttl time.Duration, sliding bool) (*Manager, *stubAccounts) {
	t.Helper()
	accounts := &stubAccounts{accounts: map[string]*domain.StaffAccount{
		"staff-1": {ID: "staff-1", Name: "Alice", Email: "alice@club.test", Role: domain.RoleAdmin, Active: true},
	}}
	return NewManager(NewMemoryStore(), accounts, ttl, sliding, nil), accounts
}

func TestCreateAndValidate(t *testing.T) {
	mgr, _ := newTestManager(t, time.Hour, false)
	ctx := context.Background()

	staff := &domain.StaffAccount{ID: "staff-1", Name: "Alice", Email: "alice@club.test", Role: domain.RoleAdmin, Active: true}
	session, err := mgr.Create(ctx, staff)
	if err != nil {
		t.Fatalf("unexpected error creating session: %v", err)
	}
	if session.Token == "" {
		t.Fatal("expected non-empty token")
	}
	if session.Role != domain.RoleAdmin {
		t.Fatalf("expected role snapshot admin, got %s", session.Role)
	}
	if !session.ExpiresAt.After(session.LoginTime) {
		t.Fatal("expected expiry after login time")
	}

	got, err := mgr.Validate(ctx, session.Token)
	if err != nil {
		t.Fatalf("unexpected error validating: %v", err)
	}
	if got == nil || got.StaffID != "staff-1" {
		t.Fatalf("expected session for staff-1, got %+v", got)
	}
}

func TestTokensAreUnique(t *testing.T) {
	mgr, _ := newTestManager(t, time.Hour, false)
	ctx := context.Background()
	staff := &domain.StaffAccount{ID: "staff-1", Active: true}

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		session, err := mgr.Create(ctx, staff)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, dup := seen[session.Token]; dup {
			t.Fatal("duplicate session token issued")
		}
		seen[session.Token] = struct{}{}
	}
}

func TestValidateUnknownTokenIsNotAnError(t *testing.T) {
	mgr, _ := newTestManager(t, time.Hour, false)

	got, err := mgr.Validate(context.Background(), "no-such-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatal("expected nil session for unknown token")
	}

	got, err = mgr.Validate(context.Background(), "")
	if err != nil || got != nil {
		t.Fatalf("expected empty token to validate as logged out, got %v, %v", got, err)
	}
}

func TestValidateExpiredSession(t *testing.T) {
	mgr, _ := newTestManager(t, time.Millisecond, false)
	ctx := context.Background()

	staff := &domain.StaffAccount{ID: "staff-1", Active: true}
	session, err := mgr.Create(ctx, staff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	got, err := mgr.Validate(ctx, session.Token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatal("expected expired session to fail validation")
	}
}

func TestValidateInactiveAccount(t *testing.T) {
	mgr, accounts := newTestManager(t, time.Hour, false)
	ctx := context.Background()

	staff := accounts.accounts["staff-1"]
	session, err := mgr.Create(ctx, staff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	staff.Active = false

	got, err := mgr.Validate(ctx, session.Token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatal("expected session for deactivated account to fail validation")
	}
}

func TestRevokeIsIdempotent(t *testing.T) {
	mgr, _ := newTestManager(t, time.Hour, false)
	ctx := context.Background()

	session, err := mgr.Create(ctx, &domain.StaffAccount{ID: "staff-1", Active: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mgr.Revoke(ctx, session.Token); err != nil {
		t.Fatalf("unexpected error revoking: %v", err)
	}
	if err := mgr.Revoke(ctx, session.Token); err != nil {
		t.Fatalf("expected second revoke to be a no-op, got %v", err)
	}

	got, err := mgr.Validate(ctx, session.Token)
	if err != nil || got != nil {
		t.Fatalf("expected revoked session to fail validation, got %v, %v", got, err)
	}
}

func TestRevokeAllForStaff(t *testing.T) {
	mgr, _ := newTestManager(t, time.Hour, false)
	ctx := context.Background()
	staff := &domain.StaffAccount{ID: "staff-1", Active: true}

	first, _ := mgr.Create(ctx, staff)
	second, _ := mgr.Create(ctx, staff)

	if err := mgr.RevokeAllForStaff(ctx, "staff-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, token := range []string{first.Token, second.Token} {
		got, err := mgr.Validate(ctx, token)
		if err != nil || got != nil {
			t.Fatalf("expected session %s to be revoked", token)
		}
	}
}

func TestRevokeOthersKeepsCurrentSession(t *testing.T) {
	mgr, _ := newTestManager(t, time.Hour, false)
	ctx := context.Background()
	staff := &domain.StaffAccount{ID: "staff-1", Active: true}

	keep, _ := mgr.Create(ctx, staff)
	other, _ := mgr.Create(ctx, staff)

	if err := mgr.RevokeOthers(ctx, "staff-1", keep.Token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, _ := mgr.Validate(ctx, keep.Token); got == nil {
		t.Fatal("expected kept session to remain valid")
	}
	if got, _ := mgr.Validate(ctx, other.Token); got != nil {
		t.Fatal("expected other session to be revoked")
	}
}

func TestTouchFixedExpiryIsNoOp(t *testing.T) {
	mgr, _ := newTestManager(t, time.Hour, false)
	ctx := context.Background()

	session, _ := mgr.Create(ctx, &domain.StaffAccount{ID: "staff-1", Active: true})
	before := session.ExpiresAt

	if err := mgr.Touch(ctx, session.Token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := mgr.Validate(ctx, session.Token)
	if !got.ExpiresAt.Equal(before) {
		t.Fatal("expected fixed-expiry Touch to leave expiry unchanged")
	}
}

func TestTouchSlidingExpiryExtends(t *testing.T) {
	mgr, _ := newTestManager(t, time.Hour, true)
	ctx := context.Background()

	session, _ := mgr.Create(ctx, &domain.StaffAccount{ID: "staff-1", Active: true})
	before := session.ExpiresAt

	time.Sleep(5 * time.Millisecond)
	if err := mgr.Touch(ctx, session.Token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := mgr.Validate(ctx, session.Token)
	if !got.ExpiresAt.After(before) {
		t.Fatal("expected sliding-expiry Touch to extend expiry")
	}
}

func TestPurgeExpired(t *testing.T) {
	store := NewMemoryStore()
	accounts := &stubAccounts{accounts: map[string]*domain.StaffAccount{
		"staff-1": {ID: "staff-1", Active: true},
	}}
	mgr := NewManager(store, accounts, time.Millisecond, false, nil)
	ctx := context.Background()

	if _, err := mgr.Create(ctx, &domain.StaffAccount{ID: "staff-1", Active: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	purged, err := mgr.PurgeExpired(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if purged != 1 {
		t.Fatalf("expected 1 purged session, got %d", purged)
	}
}

func TestValidateFailsClosedOnCancelledContext(t *testing.T) {
	mgr, _ := newTestManager(t, time.Hour, false)
	session, _ := mgr.Create(context.Background(), &domain.StaffAccount{ID: "staff-1", Active: true})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := mgr.Validate(ctx, session.Token)
	if err == nil {
		t.Fatal("expected store failure to surface an error")
	}
	if got != nil {
		t.Fatal("store failure must never validate a session")
	}
}
