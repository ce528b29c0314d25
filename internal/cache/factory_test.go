package cache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestNew_MemoryUsesCleanupInterval(t *testing.T) {
	c := New(Config{Backend: "memory", MaxEntries: 5, CleanupInterval: 7 * time.Second}, nil)
	mc, ok := c.(*MemoryCache)
	if !ok {
		t.Fatalf("expected *MemoryCache, got %T", c)
	}
	defer mc.Close()

	if mc.cleanupInterval != 7*time.Second {
		t.Fatalf("expected 7s sweep, got %v", mc.cleanupInterval)
	}
}

func TestNew_MemoryDefaultsCleanupInterval(t *testing.T) {
	mc := New(Config{Backend: "memory"}, nil).(*MemoryCache)
	defer mc.Close()

	if mc.cleanupInterval != time.Minute {
		t.Fatalf("expected 1m default sweep, got %v", mc.cleanupInterval)
	}
}

func TestNew_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	if _, ok := New(Config{Backend: "redis", Prefix: "p"}, client).(*RedisCache); !ok {
		t.Fatalf("expected *RedisCache")
	}
}
