package cache

import (
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Backend    string
	MaxEntries int
	Prefix     string
	// CleanupInterval paces the memory backend's expiry sweep (default: 1m).
	// Entry lifetimes are set per write by the caller.
	CleanupInterval time.Duration
}

// New builds the configured backend. redisClient is only used for "redis".
func New(cfg Config, redisClient *redis.Client) ResultCache {
	switch cfg.Backend {
	case "redis":
		return NewRedisCache(redisClient, RedisConfig{
			Prefix: cfg.Prefix,
		})
	default:
		return NewMemoryCache(cfg.MaxEntries, cfg.CleanupInterval)
	}
}
