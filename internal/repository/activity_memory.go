package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/spec-kit/club-admin/internal/domain"
)

// memoryActivityRepository is the in-memory activity log used by tests and
// DSN-less development.
type memoryActivityRepository struct {
	mu      sync.RWMutex
	entries []domain.ActivityLogEntry
}

// NewMemoryActivityRepository builds an empty in-memory activity log.
func NewMemoryActivityRepository() ActivityRepository {
	return &memoryActivityRepository{}
}

func (r *memoryActivityRepository) Append(ctx context.Context, entry *domain.ActivityLogEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memoryActivityRepository) Recent(ctx context.Context, limit int) ([]domain.ActivityLogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := limit
	if count > len(r.entries) {
		count = len(r.entries)
	}
	result := make([]domain.ActivityLogEntry, 0, count)
	for i := len(r.entries) - 1; i >= 0 && len(result) < count; i-- {
		result = append(result, r.entries[i])
	}
	return result, nil
}
