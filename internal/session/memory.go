package session

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type memorySession struct {
	shown Set
	last  string
}

// MemoryTracker keeps shown sets in process memory, bounded by an LRU of
// maxSessions entries whose TTL restarts on every write.
type MemoryTracker struct {
	mu       sync.Mutex
	sessions *expirable.LRU[string, memorySession]
}

// NewMemoryTracker creates a tracker. ttl <= 0 disables expiry.
func NewMemoryTracker(maxSessions int, ttl time.Duration) *MemoryTracker {
	if maxSessions <= 0 {
		maxSessions = 1000
	}
	return &MemoryTracker{
		sessions: expirable.NewLRU[string, memorySession](maxSessions, nil, ttl),
	}
}

// session returns the live record for key, creating it if absent.
// Callers hold t.mu.
func (t *MemoryTracker) session(key string) memorySession {
	s, ok := t.sessions.Get(key)
	if !ok {
		s = memorySession{shown: Set{}}
		t.sessions.Add(key, s)
	}
	return s
}

func (t *MemoryTracker) Shown(_ context.Context, key string) (Set, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return maps.Clone(t.session(key).shown), nil
}

func (t *MemoryTracker) Record(_ context.Context, key, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.session(key)
	s.shown[id] = struct{}{}
	s.last = id
	t.sessions.Add(key, s)
	return nil
}

func (t *MemoryTracker) Last(_ context.Context, key string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions.Peek(key)
	if !ok {
		return "", nil
	}
	return s.last, nil
}

func (t *MemoryTracker) Reset(_ context.Context, key, keepID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.session(key)
	s.shown = Set{}
	if keepID != "" {
		s.shown[keepID] = struct{}{}
	}
	t.sessions.Add(key, s)
	return nil
}

// Len returns the number of live sessions.
func (t *MemoryTracker) Len() int {
	return t.sessions.Len()
}
