package cache

import (
	"context"
	"sync"
	"time"

	"github.com/splax/accounts/internal/domain"
)

type memoryProfileCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

type memoryEntry struct {
	profile   domain.Profile
	expiresAt time.Time
}

// NewMemoryProfileCache returns an in-process ProfileCache. It serves as
// the fallback when Redis is unreachable at startup and as the cache in
// tests. A zero ttl keeps entries until the next write.
func NewMemoryProfileCache(ttl time.Duration) ProfileCache {
	return &memoryProfileCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

func (c *memoryProfileCache) Get(_ context.Context, userID string) (domain.Profile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[userID]
	if !ok {
		return domain.Profile{}, ErrMiss
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(c.entries, userID)
		return domain.Profile{}, ErrMiss
	}
	return entry.profile, nil
}

func (c *memoryProfileCache) Set(_ context.Context, userID string, profile domain.Profile) error {
	entry := memoryEntry{profile: profile}
	if c.ttl > 0 {
		entry.expiresAt = time.Now().Add(c.ttl)
	}
	c.mu.Lock()
	c.entries[userID] = entry
	c.mu.Unlock()
	return nil
}

func (c *memoryProfileCache) Delete(_ context.Context, userID string) error {
	c.mu.Lock()
	delete(c.entries, userID)
	c.mu.Unlock()
	return nil
}

func (c *memoryProfileCache) Close() {}
