// Package cache stores the last assembled restaurant result per search
// session, in process memory or in Redis.
package cache

import (
	"context"
	"time"
)

// ResultCache is the interface used by the selector.
// Implemented by the memory cache (single replica) and Redis cache (shared).
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
