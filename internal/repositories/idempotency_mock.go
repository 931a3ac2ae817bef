package repositories

import (
	"context"
	"sync"
	"time"
)

// MockIdempotencyStore is an in-memory implementation of IdempotencyStore.
// TTLs are ignored; entries live for the lifetime of the process.
type MockIdempotencyStore struct {
	keys map[string]string
	mu   sync.RWMutex
}

// NewMockIdempotencyStore creates a new instance of MockIdempotencyStore.
func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		keys: make(map[string]string),
	}
}

// Get returns the order ID recorded under key, or "" on a miss.
func (s *MockIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keys[key], nil
}

// Put records the order produced under key.
func (s *MockIdempotencyStore) Put(_ context.Context, key, orderID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[key] = orderID
	return nil
}
