package repositories

import (
	"context"
	"time"
)

// TTLIdempotency is how long a recorded checkout key stays deduplicated.
// Matches the retry window a client could reasonably replay within.
var TTLIdempotency = 24 * time.Hour

// IdempotencyStore maps a checkout idempotency key to the order it produced.
// Get returns ("", nil) on a miss.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, orderID string, ttl time.Duration) error
}
