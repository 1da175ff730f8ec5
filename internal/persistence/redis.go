package persistence

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Redis wraps the go-redis client used by the session store. Connectivity is
// probed by the caller, not here: when Redis is unreachable at boot the
// service runs on the in-memory session store instead of refusing to start.
type Redis struct {
	Client *redis.Client
}

// RedisOptions carries the connection values for NewRedis.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedis builds the client. No connection is made until first use.
func NewRedis(opts RedisOptions) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:       opts.Addr,
		Password:   opts.Password,
		DB:         opts.DB,
		ClientName: "club-admin-sessions",
	})
	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}
