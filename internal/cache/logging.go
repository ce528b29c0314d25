package cache

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"grubguide-api/internal/metrics"
	"grubguide-api/pkg/logging/logging"
)

// LoggingCache wraps a ResultCache with logging + metrics.
type LoggingCache struct {
	inner   ResultCache
	backend string
}

// NewLoggingCache returns a cache that logs and records metrics.
func NewLoggingCache(inner ResultCache, backend string) ResultCache {
	return &LoggingCache{inner: inner, backend: backend}
}

func (c *LoggingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	start := time.Now()
	value, ok, err := c.inner.Get(ctx, key)
	latencyMs := float64(time.Since(start).Microseconds()) / 1000.0

	result := "miss"
	if err != nil {
		result = "error"
	} else if ok {
		result = "hit"
	}
	metrics.CacheLookupsTotal.WithLabelValues(result).Inc()

	fields := append(c.fields(key, latencyMs), zap.String("cache_result", result))

	logger := logging.L(ctx)
	if err != nil {
		logger.Error("result_cache_get", append(fields, zap.Error(err))...)
	} else {
		logger.Debug("result_cache_get", fields...)
	}

	return value, ok, err
}

func (c *LoggingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	start := time.Now()
	err := c.inner.Set(ctx, key, value, ttl)
	latencyMs := float64(time.Since(start).Microseconds()) / 1000.0

	fields := append(c.fields(key, latencyMs), zap.Duration("ttl", ttl), zap.Int("bytes", len(value)))

	logger := logging.L(ctx)
	if err != nil {
		logger.Error("result_cache_set", append(fields, zap.Error(err))...)
	} else {
		logger.Debug("result_cache_set", fields...)
	}

	return err
}

func (c *LoggingCache) fields(key string, latencyMs float64) []zap.Field {
	fields := []zap.Field{
		zap.String("cache_backend", c.backend),
		zap.String("cache_key", key),
		zap.Float64("latency_ms", latencyMs),
	}
	if radius, hash, ok := parseSessionKey(key); ok {
		fields = append(fields,
			zap.String("radius_miles", radius),
			zap.String("origin_hash", hash),
		)
	}
	return fields
}

// Expecting: session:<RADIUS>:<HASH>
func parseSessionKey(key string) (radius, hash string, ok bool) {
	parts := strings.Split(key, ":")
	if len(parts) != 3 || parts[0] != "session" {
		return "", "", false
	}
	return parts[1], parts[2], true
}
