package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sync"
	"time"

	appErrors "github.com/edulytics/grade-analytics-api/pkg/errors"
)

type memoryCacheEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryCacheRepository is an in-process cache with per-entry TTLs. Expired
// entries are evicted lazily on read, not swept. It stores marshalled JSON so
// it is interchangeable with the Redis-backed repository.
type MemoryCacheRepository struct {
	mu      sync.RWMutex
	entries map[string]memoryCacheEntry
	now     func() time.Time
}

// NewMemoryCacheRepository constructs an empty in-process cache.
func NewMemoryCacheRepository() *MemoryCacheRepository {
	return &MemoryCacheRepository{
		entries: make(map[string]memoryCacheEntry),
		now:     time.Now,
	}
}

// Get retrieves and unmarshals the cached value into the provided destination.
// An entry past its TTL is removed and reported as a miss.
func (r *MemoryCacheRepository) Get(_ context.Context, key string, dest interface{}) error {
	r.mu.RLock()
	entry, ok := r.entries[key]
	r.mu.RUnlock()

	if !ok {
		return appErrors.ErrCacheMiss
	}
	if r.now().After(entry.expiresAt) {
		r.mu.Lock()
		if current, still := r.entries[key]; still && current.expiresAt.Equal(entry.expiresAt) {
			delete(r.entries, key)
		}
		r.mu.Unlock()
		return appErrors.ErrCacheMiss
	}

	if err := json.Unmarshal(entry.payload, dest); err != nil {
		return fmt.Errorf("unmarshal cache value for %s: %w", key, err)
	}
	return nil
}

// Set marshals the provided value and stores it with the given TTL.
func (r *MemoryCacheRepository) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value for %s: %w", key, err)
	}

	r.mu.Lock()
	r.entries[key] = memoryCacheEntry{payload: payload, expiresAt: r.now().Add(ttl)}
	r.mu.Unlock()
	return nil
}

// DeleteByPattern removes cached entries whose key matches the glob pattern.
func (r *MemoryCacheRepository) DeleteByPattern(_ context.Context, pattern string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.entries {
		matched, err := path.Match(pattern, key)
		if err != nil {
			return fmt.Errorf("match pattern %s: %w", pattern, err)
		}
		if matched {
			delete(r.entries, key)
		}
	}
	return nil
}

// Close is a no-op; it exists so both cache repositories share a shape.
func (r *MemoryCacheRepository) Close() error { return nil }

// Len reports the number of entries currently held, expired or not.
func (r *MemoryCacheRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
