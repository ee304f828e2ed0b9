package cache

import (
	"context"
	"time"

	"companyintel/internal/adapters/redis"
	"companyintel/pkg/errors"
)

// RedisStore backs the fetch cache with Redis so several instances can
// share one rate-limit budget. TTL enforcement is delegated to Redis.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed store with the given TTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Get reports whether a live entry exists, unmarshalling it into dest.
func (s *RedisStore) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	err := s.client.Get(ctx, key, dest)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, errors.Wrap(err, "fetch cache get")
	}
	return true, nil
}

// Set stores the value with the configured TTL.
func (s *RedisStore) Set(ctx context.Context, key string, value interface{}) error {
	if err := s.client.Set(ctx, key, value, s.ttl); err != nil {
		return errors.Wrap(err, "fetch cache set")
	}
	return nil
}
