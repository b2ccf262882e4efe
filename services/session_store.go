package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// DefaultSessionTTL bounds how long an idle session survives. Matches the
// mobile client's expectation that a login persists across restarts.
const DefaultSessionTTL = 30 * 24 * time.Hour

// SessionStore persists which user a session token belongs to. It is the
// installation-local "who is logged in" record; everything else lives in
// the document store.
type SessionStore interface {
	// Save records the session.
	Save(ctx context.Context, sessionID, userID string) error
	// UserID resolves a session to its user, or "" when the session does
	// not exist.
	UserID(ctx context.Context, sessionID string) (string, error)
	// Delete removes the session. Deleting a missing session is not an
	// error.
	Delete(ctx context.Context, sessionID string) error
}

// RedisSessionStore keeps sessions in Redis so they survive restarts.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) Save(ctx context.Context, sessionID, userID string) error {
	return s.client.Set(ctx, sessionKeyPrefix+sessionID, userID, s.ttl).Err()
}

func (s *RedisSessionStore) UserID(ctx context.Context, sessionID string) (string, error) {
	userID, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKeyPrefix+sessionID).Err()
}
