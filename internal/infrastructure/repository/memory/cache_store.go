package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

// CacheStore mirrors the durable cache for single-process runs. Expiry is
// lazy and an entry is live only while now is strictly before its deadline.
type CacheStore struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

func NewCacheStore() *CacheStore {
	return &CacheStore{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (s *CacheStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false, fmt.Errorf("cache key is required")
	}

	now := s.now().UTC()
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.After(now) {
		s.mu.Lock()
		// Re-check under the write lock, a concurrent Set may have
		// refreshed the entry since the read.
		if current, ok := s.entries[key]; ok && !current.expiresAt.After(now) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false, nil
	}

	return append([]byte(nil), e.value...), true, nil
}

func (s *CacheStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("cache key is required")
	}
	if ttl <= 0 {
		return fmt.Errorf("cache ttl must be positive")
	}

	s.mu.Lock()
	s.entries[key] = cacheEntry{
		value:     append([]byte(nil), value...),
		expiresAt: s.now().UTC().Add(ttl),
	}
	s.mu.Unlock()

	return nil
}
