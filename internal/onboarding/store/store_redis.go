package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"relomate/internal/onboarding"
	id "relomate/pkg/domain"
	"relomate/pkg/platform/sentinel"
)

const (
	stateKeyPrefix  = "onboarding:state:"
	defaultStateTTL = 24 * time.Hour
)

// RedisStore keeps onboarding state as JSON documents in Redis. Used as
// the cache tier in front of postgres; can also serve standalone in
// environments without a database.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisOption func(*RedisStore)

// WithTTL overrides the cache entry lifetime.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, ttl: defaultStateTTL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) Load(ctx context.Context, userID id.UserID) (*onboarding.State, error) {
	raw, err := s.client.Get(ctx, stateKeyPrefix+userID.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load onboarding state from redis: %w", err)
	}
	var state onboarding.State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode cached onboarding state: %w", err)
	}
	return &state, nil
}

func (s *RedisStore) Save(ctx context.Context, state *onboarding.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode onboarding state: %w", err)
	}
	if err := s.client.Set(ctx, stateKeyPrefix+state.UserID.String(), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save onboarding state to redis: %w", err)
	}
	return nil
}

// Invalidate drops the cached record for a user.
func (s *RedisStore) Invalidate(ctx context.Context, userID id.UserID) error {
	return s.client.Del(ctx, stateKeyPrefix+userID.String()).Err()
}

// Primary is the backing store a CachedStore falls through to.
type Primary interface {
	Load(ctx context.Context, userID id.UserID) (*onboarding.State, error)
	Save(ctx context.Context, state *onboarding.State) error
}

// CachedStore is a read-through cache: loads hit redis first and fall
// back to the primary on a miss, saves write the primary first and then
// refresh the cache best-effort. A cache failure never fails the
// operation; the primary remains the source of truth.
type CachedStore struct {
	primary Primary
	cache   *RedisStore
}

func NewCachedStore(primary Primary, cache *RedisStore) *CachedStore {
	return &CachedStore{primary: primary, cache: cache}
}

func (s *CachedStore) Load(ctx context.Context, userID id.UserID) (*onboarding.State, error) {
	if state, err := s.cache.Load(ctx, userID); err == nil {
		return state, nil
	}
	state, err := s.primary.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Save(ctx, state)
	return state, nil
}

func (s *CachedStore) Save(ctx context.Context, state *onboarding.State) error {
	if err := s.primary.Save(ctx, state); err != nil {
		return err
	}
	_ = s.cache.Save(ctx, state)
	return nil
}
