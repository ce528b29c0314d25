package cache

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache bounds entries by count (least-recently-used eviction) and by
// per-entry TTL (checked on Get, swept periodically).
type MemoryCache struct {
	items *lru.Cache[string, memoryEntry]
	// mu serializes writers so an expiry check and its Remove see the same entry.
	mu sync.Mutex

	stopCleanup     chan struct{}
	cleanupOnce     sync.Once
	cleanupInterval time.Duration
}

// NewMemoryCache creates an in-memory cache holding at most maxEntries.
// cleanupInterval <= 0 sweeps every minute.
func NewMemoryCache(maxEntries int, cleanupInterval time.Duration) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = 100
	}
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}

	// lru.New only fails for a non-positive size.
	items, _ := lru.New[string, memoryEntry](maxEntries)

	c := &MemoryCache{
		items:           items,
		stopCleanup:     make(chan struct{}),
		cleanupInterval: cleanupInterval,
	}

	go c.cleanupExpired()

	return c
}

// Get returns a live entry and marks it most recently used.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	entry, ok := c.items.Get(key)
	if !ok {
		return nil, false, nil
	}

	if time.Now().After(entry.expiresAt) {
		c.removeIfExpired(key)
		return nil, false, nil
	}

	return entry.value, true, nil
}

// removeIfExpired drops key only if the entry stored now is still expired; a
// concurrent Set may have refreshed it since it was read.
func (c *MemoryCache) removeIfExpired(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items.Peek(key); ok && time.Now().After(e.expiresAt) {
		c.items.Remove(key)
	}
}

// Set inserts or refreshes key. ttl <= 0 removes it.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl <= 0 {
		c.items.Remove(key)
		return nil
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	c.items.Add(key, memoryEntry{
		value:     valueCopy,
		expiresAt: time.Now().Add(ttl),
	})
	return nil
}

func (c *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for _, k := range c.items.Keys() {
				c.removeIfExpired(k)
			}
		case <-c.stopCleanup:
			return
		}
	}
}

// Close stops the cleanup goroutine. Call this on shutdown or in tests.
func (c *MemoryCache) Close() error {
	c.cleanupOnce.Do(func() {
		close(c.stopCleanup)
	})
	return nil
}

// Len returns the number of entries, expired ones included until swept.
func (c *MemoryCache) Len() int {
	return c.items.Len()
}

// Clear removes all entries.
func (c *MemoryCache) Clear() {
	c.items.Purge()
}
