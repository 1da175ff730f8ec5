package session

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/club-admin/internal/domain"
)

// memoryStore keeps sessions in process memory with a per-staff token index.
// The single lock serializes every mutation, so a revoke that returns is
// visible to any Get that starts afterwards.
type memoryStore struct {
	mu      sync.RWMutex
	byToken map[string]domain.Session
	byStaff map[string]map[string]struct{}
}

// NewMemoryStore builds an empty in-memory session store.
func NewMemoryStore() Store {
	return &memoryStore{
		byToken: make(map[string]domain.Session),
		byStaff: make(map[string]map[string]struct{}),
	}
}

func (s *memoryStore) Save(ctx context.Context, session *domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byToken[session.Token] = *session
	tokens, exists := s.byStaff[session.StaffID]
	if !exists {
		tokens = make(map[string]struct{})
		s.byStaff[session.StaffID] = tokens
	}
	tokens[session.Token] = struct{}{}
	return nil
}

func (s *memoryStore) Get(ctx context.Context, token string) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.byToken[token]
	if !exists {
		return nil, nil
	}
	copied := session
	return &copied, nil
}

func (s *memoryStore) Delete(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteLocked(token)
	return nil
}

func (s *memoryStore) deleteLocked(token string) {
	session, exists := s.byToken[token]
	if !exists {
		return
	}
	delete(s.byToken, token)
	if tokens, ok := s.byStaff[session.StaffID]; ok {
		delete(tokens, token)
		if len(tokens) == 0 {
			delete(s.byStaff, session.StaffID)
		}
	}
}

func (s *memoryStore) DeleteAllForStaff(ctx context.Context, staffID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens := s.byStaff[staffID]
	count := len(tokens)
	for token := range tokens {
		delete(s.byToken, token)
	}
	delete(s.byStaff, staffID)
	return count, nil
}

func (s *memoryStore) TokensForStaff(ctx context.Context, staffID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	tokens := make([]string, 0, len(s.byStaff[staffID]))
	for token := range s.byStaff[staffID] {
		tokens = append(tokens, token)
	}
	return tokens, nil
}

func (s *memoryStore) ExtendExpiry(ctx context.Context, token string, expiresAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.byToken[token]
	if !exists {
		return nil
	}
	session.ExpiresAt = expiresAt
	s.byToken[token] = session
	return nil
}

func (s *memoryStore) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for token, session := range s.byToken {
		if session.Expired(now) {
			s.deleteLocked(token)
			purged++
		}
	}
	return purged, nil
}
