// Package redis implements the session store on Redis for deployments that
// keep the user table read-mostly.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dtroode/pulse-server/internal/model"
)

const keyPrefix = "session:"

// swapScript replaces the digest only when the stored one is byte-equal to
// ARGV[1]. ARGV[3] is the key TTL in milliseconds.
var swapScript = redis.NewScript(`
local current = redis.call("GET", KEYS[1])
if not current or current ~= ARGV[1] then
  return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

var _ model.SessionStore = (*SessionStore)(nil)

// SessionStore keeps one refresh token digest per principal under
// session:<user-id>. Keys expire together with the refresh token they hold.
//
// Redis does not know which principals exist. Without WithUsers, Get reports
// a missing key as a logged-out principal rather than model.ErrNotFound.
type SessionStore struct {
	client redis.UniversalClient
	ttl    time.Duration
	users  model.UserStore
}

// Option configures a SessionStore.
type Option func(*SessionStore)

// WithUsers makes Get check the principal against users. A session of a
// removed principal is dropped and reported as model.ErrNotFound.
func WithUsers(users model.UserStore) Option {
	return func(s *SessionStore) {
		s.users = users
	}
}

func NewSessionStore(client redis.UniversalClient, ttl time.Duration, opts ...Option) *SessionStore {
	s := &SessionStore{client: client, ttl: ttl}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func key(userID uuid.UUID) string {
	return keyPrefix + userID.String()
}

func (s *SessionStore) Get(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	if s.users != nil {
		if _, err := s.users.GetByID(ctx, userID); err != nil {
			if !errors.Is(err, model.ErrNotFound) {
				return nil, fmt.Errorf("failed to check session owner: %w", err)
			}
			if err := s.Clear(ctx, userID); err != nil {
				return nil, err
			}
			return nil, model.ErrNotFound
		}
	}

	digest, err := s.client.Get(ctx, key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return digest, nil
}

func (s *SessionStore) Set(ctx context.Context, userID uuid.UUID, digest []byte) error {
	if err := s.client.Set(ctx, key(userID), digest, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}
	return nil
}

func (s *SessionStore) Swap(ctx context.Context, userID uuid.UUID, expected, next []byte) error {
	if len(expected) == 0 {
		return model.ErrSessionMismatch
	}

	swapped, err := swapScript.Run(ctx, s.client, []string{key(userID)}, expected, next, s.ttl.Milliseconds()).Int()
	if err != nil {
		return fmt.Errorf("failed to rotate session: %w", err)
	}
	if swapped == 0 {
		return model.ErrSessionMismatch
	}
	return nil
}

func (s *SessionStore) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
