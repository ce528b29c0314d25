package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisCache_GetSet(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	c := NewRedisCache(client, RedisConfig{Prefix: "grubguide"})
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "session:5:abc"); err != nil || hit {
		t.Fatalf("expected clean miss, got hit=%v err=%v", hit, err)
	}

	if err := c.Set(ctx, "session:5:abc", []byte(`{"name":"x"}`), 5*time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, hit, err := c.Get(ctx, "session:5:abc")
	if err != nil || !hit {
		t.Fatalf("expected hit, got hit=%v err=%v", hit, err)
	}
	if string(got) != `{"name":"x"}` {
		t.Fatalf("unexpected value %q", got)
	}
	if ttl := mr.TTL("grubguide:session:5:abc"); ttl != 5*time.Minute {
		t.Fatalf("expected 5m TTL on prefixed key, got %v", ttl)
	}

	mr.FastForward(6 * time.Minute)
	if _, hit, _ := c.Get(ctx, "session:5:abc"); hit {
		t.Fatalf("expected miss after TTL")
	}
}

func TestRedisCache_ErrorIsReported(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	c := NewLoggingCache(NewRedisCache(client, RedisConfig{}), "redis")
	if _, hit, err := c.Get(context.Background(), "k"); err == nil || hit {
		t.Fatalf("expected error from closed redis, got hit=%v err=%v", hit, err)
	}
}
