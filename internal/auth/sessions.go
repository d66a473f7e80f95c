package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "antiq:session:"

// SessionTracker is the session tracking interface used by the middleware
// and handlers. SessionStore is the Redis-backed implementation.
type SessionTracker interface {
	Track(ctx context.Context, sessionID string, userID string, expiresAt time.Time) error
	Revoke(ctx context.Context, sessionID string) error
	IsActive(ctx context.Context, sessionID string) (bool, error)
}

var _ SessionTracker = (*SessionStore)(nil)

// SessionStore tracks active session IDs in Redis so sign-out can revoke a
// token before it expires. A session is active while its key exists; keys
// expire together with the token so the set never needs sweeping.
type SessionStore struct {
	rdb *redis.Client
}

// NewSessionStore creates a session store backed by the given Redis client.
func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

// Track registers a session as active until expiresAt.
func (s *SessionStore) Track(ctx context.Context, sessionID string, userID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}
	if err := s.rdb.Set(ctx, sessionKeyPrefix+sessionID, userID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to track session: %w", err)
	}
	return nil
}

// Revoke ends a session. Revoking an unknown session is not an error.
func (s *SessionStore) Revoke(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// IsActive reports whether a session is still tracked.
func (s *SessionStore) IsActive(ctx context.Context, sessionID string) (bool, error) {
	err := s.rdb.Get(ctx, sessionKeyPrefix+sessionID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check session: %w", err)
	}
	return true, nil
}
