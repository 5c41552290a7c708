package locks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTTL = 30 * time.Second

// Storage keeps short-lived in-flight markers, one per key, so that a change
// started on one instance is visible to all of them.
type Storage struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewStorage(client *redis.Client) *Storage {
	return &Storage{
		redis: client,
		ttl:   defaultTTL,
	}
}

func lockKey(key string) string {
	return fmt.Sprintf("inflight:%s", key)
}

// Begin claims key in the given state. It reports false when the key is
// already held.
func (s *Storage) Begin(ctx context.Context, key, state string) (bool, error) {
	return s.redis.SetNX(ctx, lockKey(key), state, s.ttl).Result()
}

// End releases key.
func (s *Storage) End(ctx context.Context, key string) {
	s.redis.Del(ctx, lockKey(key))
}

// Current returns the state stored under key, or "" when nothing is in flight.
func (s *Storage) Current(ctx context.Context, key string) (string, error) {
	state, err := s.redis.Get(ctx, lockKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return state, err
}

func (s *Storage) Close() error {
	return s.redis.Close()
}
