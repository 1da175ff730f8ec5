package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/club-admin/internal/domain"
)

const (
	sessionKeyPrefix = "session:"
	staffKeyPrefix   = "staff_sessions:"
)

// redisStore persists sessions in Redis. Each session lives under its own
// TTL-backed key, so expiry needs no sweeping; a per-staff set supports bulk
// revocation. Redis applies commands for a key serially, which gives the
// per-token serialization the manager relies on.
type redisStore struct {
	client *redis.Client
}

// NewRedisStore builds a session store on an existing Redis client.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func sessionKey(token string) string { return sessionKeyPrefix + token }
func staffKey(staffID string) string { return staffKeyPrefix + staffID }

type sessionRecord struct {
	Token      string      `json:"token"`
	StaffID    string      `json:"staff_id"`
	StaffName  string      `json:"staff_name"`
	StaffEmail string      `json:"staff_email"`
	Role       domain.Role `json:"role"`
	LoginTime  time.Time   `json:"login_time"`
	ExpiresAt  time.Time   `json:"expires_at"`
}

func toRecord(session *domain.Session) sessionRecord {
	return sessionRecord{
		Token:      session.Token,
		StaffID:    session.StaffID,
		StaffName:  session.StaffName,
		StaffEmail: session.StaffEmail,
		Role:       session.Role,
		LoginTime:  session.LoginTime,
		ExpiresAt:  session.ExpiresAt,
	}
}

func (rec sessionRecord) toSession() *domain.Session {
	return &domain.Session{
		Token:      rec.Token,
		StaffID:    rec.StaffID,
		StaffName:  rec.StaffName,
		StaffEmail: rec.StaffEmail,
		Role:       rec.Role,
		LoginTime:  rec.LoginTime,
		ExpiresAt:  rec.ExpiresAt,
	}
}

func (s *redisStore) Save(ctx context.Context, session *domain.Session) error {
	payload, err := json.Marshal(toRecord(session))
	if err != nil {
		return err
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session already expired")
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(session.Token), payload, ttl)
	pipe.SAdd(ctx, staffKey(session.StaffID), session.Token)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *redisStore) Get(ctx context.Context, token string) (*domain.Session, error) {
	payload, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rec sessionRecord
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, err
	}
	return rec.toSession(), nil
}

func (s *redisStore) Delete(ctx context.Context, token string) error {
	session, err := s.Get(ctx, token)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKey(token))
	if session != nil {
		pipe.SRem(ctx, staffKey(session.StaffID), token)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *redisStore) DeleteAllForStaff(ctx context.Context, staffID string) (int, error) {
	tokens, err := s.client.SMembers(ctx, staffKey(staffID)).Result()
	if err != nil {
		return 0, err
	}

	pipe := s.client.TxPipeline()
	for _, token := range tokens {
		pipe.Del(ctx, sessionKey(token))
	}
	pipe.Del(ctx, staffKey(staffID))
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return len(tokens), nil
}

func (s *redisStore) TokensForStaff(ctx context.Context, staffID string) ([]string, error) {
	return s.client.SMembers(ctx, staffKey(staffID)).Result()
}

func (s *redisStore) ExtendExpiry(ctx context.Context, token string, expiresAt time.Time) error {
	session, err := s.Get(ctx, token)
	if err != nil || session == nil {
		return err
	}
	session.ExpiresAt = expiresAt

	payload, err := json.Marshal(toRecord(session))
	if err != nil {
		return err
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return s.Delete(ctx, token)
	}
	return s.client.Set(ctx, sessionKey(token), payload, ttl).Err()
}

// PurgeExpired is a no-op for Redis; key TTLs expire sessions server-side.
// Stale members of the per-staff sets are dropped lazily on revocation.
func (s *redisStore) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	return 0, nil
}
