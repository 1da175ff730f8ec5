package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/club-admin/internal/session"
)

// StartSessionSweeper periodically purges expired sessions from the store.
// Runs until the context is cancelled. Redis-backed stores expire keys on
// their own; the sweep keeps the in-memory store from growing unbounded.
func StartSessionSweeper(ctx context.Context, manager *session.Manager, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				purged, err := manager.PurgeExpired(ctx)
				if err != nil {
					logger.Warn("session sweep failed", zap.Error(err))
					continue
				}
				if purged > 0 {
					logger.Info("purged expired sessions", zap.Int("count", purged))
				}
			}
		}
	}()
}
