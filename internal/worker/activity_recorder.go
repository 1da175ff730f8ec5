package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/club-admin/internal/domain"
	"github.com/spec-kit/club-admin/internal/events"
	"github.com/spec-kit/club-admin/internal/repository"
)

// ActivityRecorder turns published auth events into activity-log entries.
// Append failures are logged, never propagated; the triggering operation has
// already succeeded by the time the event reaches us.
type ActivityRecorder struct {
	activity repository.ActivityRepository
	logger   *zap.Logger
}

// NewActivityRecorder builds the recorder.
func NewActivityRecorder(activity repository.ActivityRepository, logger *zap.Logger) *ActivityRecorder {
	return &ActivityRecorder{activity: activity, logger: logger}
}

// RegisterHandlers subscribes the recorder to the full security event stream.
func (r *ActivityRecorder) RegisterHandlers(dispatcher events.Dispatcher) {
	for _, eventType := range events.AllEventTypes {
		dispatcher.Subscribe(eventType, r.handle)
	}
}

func (r *ActivityRecorder) handle(ctx context.Context, event events.Event) error {
	action, ok := event.Type.ActivityAction()
	if !ok {
		return nil
	}

	timestamp := event.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	entry := &domain.ActivityLogEntry{
		ID:        uuid.NewString(),
		Timestamp: timestamp,
		StaffID:   event.StaffID,
		StaffName: event.StaffName,
		Action:    action,
		Details:   event.Details,
	}
	if err := r.activity.Append(ctx, entry); err != nil {
		r.logger.Error("failed to append activity entry",
			zap.String("action", string(action)),
			zap.String("staff_id", event.StaffID),
			zap.Error(err),
		)
	}
	return nil
}
