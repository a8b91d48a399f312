package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoSession is returned when a session id is unknown or already expired.
// An expired session is indistinguishable from one that never existed.
var ErrNoSession = errors.New("no session")

const keyPrefix = "session:v1:"

// Manager binds session identifiers to the authenticated user's phone
// number for a short, fixed lifetime.
type Manager interface {
	Create(ctx context.Context, id, phone string) error
	Read(ctx context.Context, id string) (string, error)
	Destroy(ctx context.Context, id string) error
}

// RedisManager stores sessions in Redis, relying on key TTLs for expiry.
type RedisManager struct {
	cache *redis.Client
	ttl   time.Duration
}

// NewRedisManager builds a Redis-backed session manager with the given TTL.
func NewRedisManager(cache *redis.Client, ttl time.Duration) *RedisManager {
	return &RedisManager{cache: cache, ttl: ttl}
}

// Create binds the session id to the phone number and starts the TTL clock.
// Re-creating an existing id overwrites it and resets the clock.
func (m *RedisManager) Create(ctx context.Context, id, phone string) error {
	if err := m.cache.Set(ctx, keyPrefix+id, phone, m.ttl).Err(); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// Read returns the phone number bound to the session id, or ErrNoSession.
func (m *RedisManager) Read(ctx context.Context, id string) (string, error) {
	phone, err := m.cache.Get(ctx, keyPrefix+id).Result()
	if err == redis.Nil {
		return "", ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("read session: %w", err)
	}
	return phone, nil
}

// Destroy removes the session. Destroying an absent session is not an error.
func (m *RedisManager) Destroy(ctx context.Context, id string) error {
	if err := m.cache.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}
