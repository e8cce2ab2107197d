package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on a shared redis instance. INCR/DECR are
// atomic server-side, so the store works correctly across multiple
// application processes.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Incr(ctx context.Context, key string) (int64, error) {
	val, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment %s: %w", key, err)
	}
	return val, nil
}

func (s *RedisStore) IncrBy(ctx context.Context, key string, n int64) (int64, error) {
	val, err := s.client.IncrBy(ctx, key, n).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment %s by %d: %w", key, n, err)
	}
	return val, nil
}

func (s *RedisStore) Decr(ctx context.Context, key string) error {
	if err := s.client.Decr(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to decrement %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (int64, error) {
	val, err := s.client.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return val, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value int64, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("failed to expire %s: %w", key, err)
	}
	return nil
}
