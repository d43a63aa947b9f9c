package cache

import (
	"context"
	"sync"
	"time"

	"github.com/wms/backend/internal/domain/shared"
)

// InMemoryIdempotencyStore implements shared.IdempotencyStore with a
// process-local map. Suitable for single-instance deployments and tests;
// distributed deployments use the Redis store.
type InMemoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]time.Time // key -> expiry
	done    chan struct{}
	once    sync.Once
}

// NewInMemoryIdempotencyStore creates a store with a background sweeper
// that evicts expired keys
func NewInMemoryIdempotencyStore(sweepInterval time.Duration) *InMemoryIdempotencyStore {
	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}
	s := &InMemoryIdempotencyStore{
		entries: make(map[string]time.Time),
		done:    make(chan struct{}),
	}
	go s.sweep(sweepInterval)
	return s
}

// MarkProcessed marks a key as processed with a TTL.
// Returns true if the key was newly marked, false if already processed.
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if expiry, ok := s.entries[key]; ok && expiry.After(now) {
		return false, nil
	}
	s.entries[key] = now.Add(ttl)
	return true, nil
}

// IsProcessed checks if a key has already been processed
func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.entries[key]
	if !ok {
		return false, nil
	}
	if expiry.Before(time.Now()) {
		delete(s.entries, key)
		return false, nil
	}
	return true, nil
}

// Close stops the background sweeper
func (s *InMemoryIdempotencyStore) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

// Len returns the number of live keys (for tests and monitoring)
func (s *InMemoryIdempotencyStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *InMemoryIdempotencyStore) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for key, expiry := range s.entries {
				if expiry.Before(now) {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		}
	}
}

// Ensure InMemoryIdempotencyStore implements IdempotencyStore
var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
