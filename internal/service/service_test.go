package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/club-admin/internal/auth"
	"github.com/spec-kit/club-admin/internal/config"
	"github.com/spec-kit/club-admin/internal/domain"
	"github.com/spec-kit/club-admin/internal/events"
	"github.com/spec-kit/club-admin/internal/repository"
	"github.com/spec-kit/club-admin/internal/session"
	"github.com/spec-kit/club-admin/internal/worker"
)

// low cost keeps the hashing in tests fast
const testBcryptCost = 4

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		SessionTTLMinutes:    60,
		SlidingExpiry:        false,
		BcryptCost:           testBcryptCost,
		MinPasswordLength:    8,
		ResetTokenSecret:     "test-secret",
		ResetTokenTTLMinutes: 30,
	}
}

type captureDelivery struct {
	email string
	token string
	calls int
}

func (d *captureDelivery) Deliver(_ context.Context, email, token string, _ time.Time) error {
	d.email = email
	d.token = token
	d.calls++
	return nil
}

type testEnv struct {
	staffRepo    repository.StaffRepository
	activityRepo repository.ActivityRepository
	sessions     *session.Manager
	authSvc      *AuthService
	staffSvc     *StaffService
	delivery     *captureDelivery
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zap.NewNop()
	cfg := testAuthConfig()

	staffRepo := repository.NewMemoryStaffRepository()
	activityRepo := repository.NewMemoryActivityRepository()
	sessions := session.NewManager(session.NewMemoryStore(), staffRepo, cfg.SessionTTL(), cfg.SlidingExpiry, nil)

	dispatcher := events.NewInMemoryDispatcher(logger)
	recorder := worker.NewActivityRecorder(activityRepo, logger)
	recorder.RegisterHandlers(dispatcher)

	delivery := &captureDelivery{}
	authSvc := NewAuthService(cfg, AuthDependencies{
		StaffRepo:  staffRepo,
		Sessions:   sessions,
		Dispatcher: dispatcher,
		Delivery:   delivery,
		Logger:     logger,
	})
	staffSvc := NewStaffService(cfg, StaffDependencies{
		StaffRepo:    staffRepo,
		ActivityRepo: activityRepo,
		Sessions:     sessions,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})

	return &testEnv{
		staffRepo:    staffRepo,
		activityRepo: activityRepo,
		sessions:     sessions,
		authSvc:      authSvc,
		staffSvc:     staffSvc,
		delivery:     delivery,
	}
}

func (env *testEnv) mustAddStaff(t *testing.T, name, email string, role domain.Role, password string) *domain.StaffAccount {
	t.Helper()
	hash, err := auth.HashPassword(password, testBcryptCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	staff := &domain.StaffAccount{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	if err := env.staffRepo.Create(context.Background(), staff); err != nil {
		t.Fatalf("failed to create staff: %v", err)
	}
	return staff
}

func (env *testEnv) mustLogin(t *testing.T, email, password string) *domain.Session {
	t.Helper()
	sess, err := env.authSvc.Login(context.Background(), email, password)
	if err != nil {
		t.Fatalf("expected login to succeed for %s: %v", email, err)
	}
	return sess
}

func (env *testEnv) recentActions(t *testing.T, limit int) []domain.ActivityAction {
	t.Helper()
	entries, err := env.activityRepo.Recent(context.Background(), limit)
	if err != nil {
		t.Fatalf("failed to read activity log: %v", err)
	}
	actions := make([]domain.ActivityAction, 0, len(entries))
	for _, entry := range entries {
		actions = append(actions, entry.Action)
	}
	return actions
}
