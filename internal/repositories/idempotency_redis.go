package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyIdemCheckout namespaces checkout idempotency keys in Redis.
const keyIdemCheckout = "idem:checkout:%s"

// RedisIdempotencyStore keeps idempotency keys in Redis so retried checkout
// submissions deduplicate across every instance of the service.
type RedisIdempotencyStore struct {
	client *redis.Client
}

// NewRedisIdempotencyStore creates a RedisIdempotencyStore on the given address.
func NewRedisIdempotencyStore(addr string) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

// Get returns the order ID recorded under key, or "" on a miss.
func (s *RedisIdempotencyStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, fmt.Sprintf(keyIdemCheckout, key)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read idempotency key: %w", err)
	}
	return val, nil
}

// Put records the order produced under key for the given TTL.
func (s *RedisIdempotencyStore) Put(ctx context.Context, key, orderID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, fmt.Sprintf(keyIdemCheckout, key), orderID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store idempotency key: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (s *RedisIdempotencyStore) Close() error {
	return s.client.Close()
}
