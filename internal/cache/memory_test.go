package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryCache_TTL(t *testing.T) {
	c := NewMemoryCache(10, 10*time.Millisecond)
	defer c.Close()

	ctx := context.Background()
	key := "test:key"
	val := []byte("hello")

	if err := c.Set(ctx, key, val, 20*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, hit, err := c.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !hit {
		t.Fatalf("expected hit immediately after Set")
	}
	if string(got) != "hello" {
		t.Fatalf("expected 'hello', got %q", got)
	}

	time.Sleep(30 * time.Millisecond)

	_, hit, err = c.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get after TTL failed: %v", err)
	}
	if hit {
		t.Fatalf("expected miss after TTL expiry")
	}
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewMemoryCache(100, time.Minute)
	defer c.Close()

	ctx := context.Background()
	for i := 0; i < 100; i++ {
		if err := c.Set(ctx, fmt.Sprintf("session:5:%d", i), []byte("v"), time.Minute); err != nil {
			t.Fatalf("Set %d: %v", i, err)
		}
	}

	// Touch the oldest entry so entry 1 becomes the least recently used.
	if _, hit, _ := c.Get(ctx, "session:5:0"); !hit {
		t.Fatalf("expected hit for entry 0")
	}

	if err := c.Set(ctx, "session:5:100", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set 101st: %v", err)
	}

	if c.Len() != 100 {
		t.Fatalf("expected 100 entries, got %d", c.Len())
	}
	if _, hit, _ := c.Get(ctx, "session:5:1"); hit {
		t.Fatalf("expected least recently used entry to be evicted")
	}
	if _, hit, _ := c.Get(ctx, "session:5:0"); !hit {
		t.Fatalf("recently read entry should survive eviction")
	}
	if _, hit, _ := c.Get(ctx, "session:5:100"); !hit {
		t.Fatalf("newest entry should be present")
	}
}

func TestMemoryCache_SetCopiesValue(t *testing.T) {
	c := NewMemoryCache(1, time.Minute)
	defer c.Close()

	ctx := context.Background()
	buf := []byte("abc")
	_ = c.Set(ctx, "k", buf, time.Minute)
	buf[0] = 'z'

	got, _, _ := c.Get(ctx, "k")
	if string(got) != "abc" {
		t.Fatalf("cache must not alias the caller's buffer, got %q", got)
	}
}

func TestMemoryCache_CleanupSweepsExpired(t *testing.T) {
	c := NewMemoryCache(10, 5*time.Millisecond)
	defer c.Close()

	_ = c.Set(context.Background(), "k", []byte("v"), time.Millisecond)

	deadline := time.Now().Add(time.Second)
	for c.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("expired entry was never swept")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestMemoryCache_ExpiredGetDoesNotDropConcurrentRefresh(t *testing.T) {
	c := NewMemoryCache(10, time.Hour)
	defer c.Close()
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		key := fmt.Sprintf("k%d", i)
		if err := c.Set(ctx, key, []byte("stale"), time.Nanosecond); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		time.Sleep(time.Microsecond)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _, _ = c.Get(ctx, key)
		}()
		go func() {
			defer wg.Done()
			_ = c.Set(ctx, key, []byte("fresh"), time.Hour)
		}()
		wg.Wait()

		got, hit, err := c.Get(ctx, key)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !hit || string(got) != "fresh" {
			t.Fatalf("iteration %d: refreshed entry lost (hit=%v, value=%q)", i, hit, got)
		}
	}
}
