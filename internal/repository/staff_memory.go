package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/club-admin/internal/domain"
)

// memoryStaffRepository keeps staff accounts in process memory. Used for
// tests and DSN-less development; the lock serializes mutations so concurrent
// updates on the same account cannot interleave.
type memoryStaffRepository struct {
	mu       sync.RWMutex
	byID     map[string]domain.StaffAccount
	idByMail map[string]string
}

// NewMemoryStaffRepository builds an empty in-memory repository.
func NewMemoryStaffRepository() StaffRepository {
	return &memoryStaffRepository{
		byID:     make(map[string]domain.StaffAccount),
		idByMail: make(map[string]string),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *memoryStaffRepository) Create(ctx context.Context, staff *domain.StaffAccount) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	email := normalizeEmail(staff.Email)
	if _, exists := r.idByMail[email]; exists {
		return ErrDuplicateEmail
	}

	now := time.Now()
	staff.ID = uuid.NewString()
	staff.Email = email
	staff.CreatedAt = now
	staff.UpdatedAt = now

	r.byID[staff.ID] = *staff
	r.idByMail[email] = staff.ID
	return nil
}

// mutate applies a single-field change under the lock, so the stored record
// is read and written in one critical section.
func (r *memoryStaffRepository) mutate(ctx context.Context, id string, change func(*domain.StaffAccount)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	staff, exists := r.byID[id]
	if !exists {
		return ErrNotFound
	}
	change(&staff)
	staff.UpdatedAt = time.Now()
	r.byID[id] = staff
	return nil
}

func (r *memoryStaffRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.mutate(ctx, id, func(s *domain.StaffAccount) { s.PasswordHash = passwordHash })
}

func (r *memoryStaffRepository) UpdateActive(ctx context.Context, id string, active bool) error {
	return r.mutate(ctx, id, func(s *domain.StaffAccount) { s.Active = active })
}

func (r *memoryStaffRepository) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	return r.mutate(ctx, id, func(s *domain.StaffAccount) { s.Role = role })
}

func (r *memoryStaffRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.mutate(ctx, id, func(s *domain.StaffAccount) { s.LastLogin = &at })
}

func (r *memoryStaffRepository) GetByID(ctx context.Context, id string) (*domain.StaffAccount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	staff, exists := r.byID[id]
	if !exists {
		return nil, ErrNotFound
	}
	copied := staff
	return &copied, nil
}

func (r *memoryStaffRepository) GetByEmail(ctx context.Context, email string) (*domain.StaffAccount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.idByMail[normalizeEmail(email)]
	if !exists {
		return nil, ErrNotFound
	}
	staff := r.byID[id]
	copied := staff
	return &copied, nil
}

func (r *memoryStaffRepository) List(ctx context.Context) ([]domain.StaffAccount, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.StaffAccount, 0, len(r.byID))
	for _, staff := range r.byID {
		result = append(result, staff)
	}
	return result, nil
}
