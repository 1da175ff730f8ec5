package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/club-admin/internal/auth"
	"github.com/spec-kit/club-admin/internal/domain"
	"github.com/spec-kit/club-admin/internal/events"
	"github.com/spec-kit/club-admin/internal/repository"
	"github.com/spec-kit/club-admin/internal/session"
	"github.com/spec-kit/club-admin/pkg/util"
)

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var de *util.DomainError
	if !errors.As(err, &de) {
		t.Fatalf("expected DomainError, got %v", err)
	}
	return de.Code
}

func TestLoginSuccess(t *testing.T) {
	env := newTestEnv(t)
	env.mustAddStaff(t, "Alice", "alice@club.test", domain.RoleAdmin, "Secret1!pass")

	sess := env.mustLogin(t, "alice@club.test", "Secret1!pass")
	if sess.Role != domain.RoleAdmin {
		t.Fatalf("expected session role admin, got %s", sess.Role)
	}
	if sess.StaffEmail != "alice@club.test" {
		t.Fatalf("unexpected session email %s", sess.StaffEmail)
	}

	stored, err := env.staffRepo.GetByEmail(context.Background(), "alice@club.test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.LastLogin == nil {
		t.Fatal("expected lastLogin to be set after successful login")
	}

	actions := env.recentActions(t, 10)
	if len(actions) != 1 || actions[0] != domain.ActivityLogin {
		t.Fatalf("expected exactly one login entry, got %v", actions)
	}
}

func TestLoginEmailCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	env.mustAddStaff(t, "Alice", "Alice@Club.Test", domain.RoleAdmin, "Secret1!pass")

	env.mustLogin(t, "ALICE@CLUB.TEST", "Secret1!pass")
}

func TestLoginFailuresIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	env.mustAddStaff(t, "Alice", "alice@club.test", domain.RoleAdmin, "Secret1!pass")
	inactive := env.mustAddStaff(t, "Bob", "bob@club.test", domain.RoleEditor, "Secret1!pass")
	if err := env.staffRepo.UpdateActive(context.Background(), inactive.ID, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, errWrongPassword := env.authSvc.Login(context.Background(), "alice@club.test", "not-the-password")
	_, errUnknownEmail := env.authSvc.Login(context.Background(), "nobody@club.test", "whatever")
	_, errInactive := env.authSvc.Login(context.Background(), "bob@club.test", "Secret1!pass")

	for _, err := range []error{errWrongPassword, errUnknownEmail, errInactive} {
		if err == nil {
			t.Fatal("expected login to fail")
		}
	}
	if errWrongPassword.Error() != errUnknownEmail.Error() || errUnknownEmail.Error() != errInactive.Error() {
		t.Fatal("expected all login failures to read identically to the caller")
	}
	if domainCode(t, errWrongPassword) != domainCode(t, errUnknownEmail) ||
		domainCode(t, errUnknownEmail) != domainCode(t, errInactive) {
		t.Fatal("expected all login failures to carry the same error code")
	}

	if len(env.recentActions(t, 10)) != 0 {
		t.Fatal("failed logins must not append activity entries")
	}
}

func TestLogoutRevokesAndIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	env.mustAddStaff(t, "Alice", "alice@club.test", domain.RoleAdmin, "Secret1!pass")
	sess := env.mustLogin(t, "alice@club.test", "Secret1!pass")
	ctx := context.Background()

	if err := env.authSvc.Logout(ctx, sess.Token); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	current, err := env.authSvc.CurrentSession(ctx, sess.Token)
	if err != nil || current != nil {
		t.Fatalf("expected session to be gone after logout, got %v, %v", current, err)
	}

	// second logout of the same token is a quiet no-op
	if err := env.authSvc.Logout(ctx, sess.Token); err != nil {
		t.Fatalf("expected idempotent logout, got %v", err)
	}

	actions := env.recentActions(t, 10)
	if len(actions) != 2 {
		t.Fatalf("expected login+logout entries only, got %v", actions)
	}
	if actions[0] != domain.ActivityLogout {
		t.Fatalf("expected newest entry to be logout, got %s", actions[0])
	}
}

func TestCurrentSession(t *testing.T) {
	env := newTestEnv(t)
	env.mustAddStaff(t, "Alice", "alice@club.test", domain.RoleAdmin, "Secret1!pass")
	sess := env.mustLogin(t, "alice@club.test", "Secret1!pass")
	ctx := context.Background()

	current, err := env.authSvc.CurrentSession(ctx, sess.Token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if current == nil || current.StaffID != sess.StaffID {
		t.Fatalf("expected current session for %s", sess.StaffID)
	}

	current, err = env.authSvc.CurrentSession(ctx, "bogus-token")
	if err != nil || current != nil {
		t.Fatalf("expected unknown token to be treated as logged out, got %v, %v", current, err)
	}
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	env.mustAddStaff(t, "Alice", "alice@club.test", domain.RoleAdmin, "Secret1!pass")
	ctx := context.Background()

	keep := env.mustLogin(t, "alice@club.test", "Secret1!pass")
	other := env.mustLogin(t, "alice@club.test", "Secret1!pass")

	if err := env.authSvc.ChangePassword(ctx, keep.Token, "Secret1!pass", "NewSecret2!"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// the changing session survives, the other does not
	if current, _ := env.authSvc.CurrentSession(ctx, keep.Token); current == nil {
		t.Fatal("expected changing session to survive")
	}
	if current, _ := env.authSvc.CurrentSession(ctx, other.Token); current != nil {
		t.Fatal("expected other session to be revoked")
	}

	if _, err := env.authSvc.Login(ctx, "alice@club.test", "Secret1!pass"); err == nil {
		t.Fatal("expected old password to stop working")
	}
	env.mustLogin(t, "alice@club.test", "NewSecret2!")
}

func TestChangePasswordRejectsWrongCurrent(t *testing.T) {
	env := newTestEnv(t)
	env.mustAddStaff(t, "Alice", "alice@club.test", domain.RoleAdmin, "Secret1!pass")
	sess := env.mustLogin(t, "alice@club.test", "Secret1!pass")

	err := env.authSvc.ChangePassword(context.Background(), sess.Token, "wrong-current", "NewSecret2!")
	if err == nil {
		t.Fatal("expected change with wrong current password to fail")
	}
	if domainCode(t, err) != util.CodeInvalidCredentials {
		t.Fatalf("expected INVALID_CREDENTIALS, got %s", domainCode(t, err))
	}
}

func TestChangePasswordEnforcesMinLength(t *testing.T) {
	env := newTestEnv(t)
	env.mustAddStaff(t, "Alice", "alice@club.test", domain.RoleAdmin, "Secret1!pass")
	sess := env.mustLogin(t, "alice@club.test", "Secret1!pass")

	err := env.authSvc.ChangePassword(context.Background(), sess.Token, "Secret1!pass", "short")
	if err == nil {
		t.Fatal("expected weak password to be rejected")
	}
	if domainCode(t, err) != util.CodeWeakPassword {
		t.Fatalf("expected WEAK_PASSWORD, got %s", domainCode(t, err))
	}
}

func TestChangePasswordRequiresSession(t *testing.T) {
	env := newTestEnv(t)
	err := env.authSvc.ChangePassword(context.Background(), "no-such-token", "a", "NewSecret2!")
	if err == nil {
		t.Fatal("expected unauthenticated change to fail")
	}
	if domainCode(t, err) != util.CodeUnauthorized {
		t.Fatalf("expected UNAUTHORIZED, got %s", domainCode(t, err))
	}
}

func TestRequestPasswordResetUniformResponse(t *testing.T) {
	env := newTestEnv(t)
	env.mustAddStaff(t, "Alice", "alice@club.test", domain.RoleAdmin, "Secret1!pass")
	ctx := context.Background()

	known := env.authSvc.RequestPasswordReset(ctx, "alice@club.test")
	unknown := env.authSvc.RequestPasswordReset(ctx, "nonexistent@club.test")
	if known != unknown {
		t.Fatal("expected textually identical responses for known and unknown emails")
	}

	if env.delivery.calls != 1 {
		t.Fatalf("expected exactly one delivery, got %d", env.delivery.calls)
	}
	if env.delivery.email != "alice@club.test" || env.delivery.token == "" {
		t.Fatal("expected reset token delivered for the known account")
	}
}

func TestConfirmPasswordReset(t *testing.T) {
	env := newTestEnv(t)
	env.mustAddStaff(t, "Alice", "alice@club.test", domain.RoleAdmin, "Secret1!pass")
	ctx := context.Background()

	sess := env.mustLogin(t, "alice@club.test", "Secret1!pass")
	env.authSvc.RequestPasswordReset(ctx, "alice@club.test")

	if err := env.authSvc.ConfirmPasswordReset(ctx, env.delivery.token, "BrandNew3!pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if current, _ := env.authSvc.CurrentSession(ctx, sess.Token); current != nil {
		t.Fatal("expected all sessions revoked after reset")
	}
	env.mustLogin(t, "alice@club.test", "BrandNew3!pw")

	if err := env.authSvc.ConfirmPasswordReset(ctx, "garbage-token", "BrandNew3!pw"); err == nil {
		t.Fatal("expected garbage reset token to fail")
	}
}

func TestActivityTimestampsNonDecreasing(t *testing.T) {
	env := newTestEnv(t)
	env.mustAddStaff(t, "Alice", "alice@club.test", domain.RoleAdmin, "Secret1!pass")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		sess := env.mustLogin(t, "alice@club.test", "Secret1!pass")
		if err := env.authSvc.Logout(ctx, sess.Token); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	entries, err := env.activityRepo.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 6 {
		t.Fatalf("expected 6 entries, got %d", len(entries))
	}
	// newest first: each entry's timestamp >= the one after it
	for i := 0; i < len(entries)-1; i++ {
		if entries[i].Timestamp.Before(entries[i+1].Timestamp) {
			t.Fatal("expected newest-first, non-decreasing timestamps")
		}
	}
}

// staffRepoWithHook fires a callback after the first GetByID, standing in for
// an admin action that lands between a read and the write that follows it.
type staffRepoWithHook struct {
	repository.StaffRepository
	afterGet func()
}

func (r *staffRepoWithHook) GetByID(ctx context.Context, id string) (*domain.StaffAccount, error) {
	staff, err := r.StaffRepository.GetByID(ctx, id)
	if r.afterGet != nil {
		hook := r.afterGet
		r.afterGet = nil
		hook()
	}
	return staff, err
}

func TestChangePasswordDoesNotResurrectDeactivatedAccount(t *testing.T) {
	logger := zap.NewNop()
	cfg := testAuthConfig()
	ctx := context.Background()

	staffRepo := repository.NewMemoryStaffRepository()
	hooked := &staffRepoWithHook{StaffRepository: staffRepo}
	sessions := session.NewManager(session.NewMemoryStore(), staffRepo, cfg.SessionTTL(), cfg.SlidingExpiry, nil)
	dispatcher := events.NewInMemoryDispatcher(logger)

	authSvc := NewAuthService(cfg, AuthDependencies{
		StaffRepo:  hooked,
		Sessions:   sessions,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	hash, err := auth.HashPassword("Secret1!pass", testBcryptCost)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	alice := &domain.StaffAccount{
		Name:         "Alice",
		Email:        "alice@club.test",
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Active:       true,
	}
	if err := staffRepo.Create(ctx, alice); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sess, err := authSvc.Login(ctx, "alice@club.test", "Secret1!pass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// an admin deactivates the account after ChangePassword has read it but
	// before it writes the new hash
	hooked.afterGet = func() {
		if err := staffRepo.UpdateActive(ctx, alice.ID, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := sessions.RevokeAllForStaff(ctx, alice.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := authSvc.ChangePassword(ctx, sess.Token, "Secret1!pass", "NewSecret2!"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	current, err := staffRepo.GetByID(ctx, alice.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if current.Active {
		t.Fatal("expected the deactivation to survive the concurrent password change")
	}
	if _, err := authSvc.Login(ctx, "alice@club.test", "NewSecret2!"); err == nil {
		t.Fatal("expected the deactivated account to stay locked out")
	}
}
