package session

import (
	"context"
	"time"

	"github.com/spec-kit/club-admin/internal/domain"
)

// Store persists issued sessions keyed by token. Get returns (nil, nil) for
// an unknown token; absence is the normal logged-out condition, not a fault.
// Implementations must make deletions visible to Get calls that start after
// the deleting call returns.
type Store interface {
	Save(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, token string) (*domain.Session, error)
	Delete(ctx context.Context, token string) error
	DeleteAllForStaff(ctx context.Context, staffID string) (int, error)
	TokensForStaff(ctx context.Context, staffID string) ([]string, error)
	ExtendExpiry(ctx context.Context, token string, expiresAt time.Time) error
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}
