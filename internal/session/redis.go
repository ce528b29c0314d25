package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

// RedisTracker stores each shown set as a Redis set so replicas share it.
type RedisTracker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

type RedisConfig struct {
	Prefix string
	TTL    time.Duration
}

// NewRedisTracker creates a Redis-backed tracker.
func NewRedisTracker(client *redis.Client, cfg RedisConfig) *RedisTracker {
	return &RedisTracker{
		client: client,
		prefix: cfg.Prefix,
		ttl:    cfg.TTL,
	}
}

func (t *RedisTracker) key(k string) string {
	if t.prefix == "" {
		return "shown:" + k
	}
	return t.prefix + ":shown:" + k
}

func (t *RedisTracker) lastKey(k string) string {
	if t.prefix == "" {
		return "last:" + k
	}
	return t.prefix + ":last:" + k
}

// Shown returns the members of the session set; a missing set is empty.
func (t *RedisTracker) Shown(ctx context.Context, key string) (Set, error) {
	ids, err := t.client.SMembers(ctx, t.key(key)).Result()
	if err != nil {
		return nil, eris.Wrap(err, "session: redis smembers")
	}
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s, nil
}

func (t *RedisTracker) Record(ctx context.Context, key, id string) error {
	rk, lk := t.key(key), t.lastKey(key)
	_, err := t.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		p.SAdd(ctx, rk, id)
		p.Set(ctx, lk, id, t.ttl)
		if t.ttl > 0 {
			p.Expire(ctx, rk, t.ttl)
		}
		return nil
	})
	if err != nil {
		return eris.Wrap(err, "session: redis record")
	}
	return nil
}

// Last returns the id stored by the latest Record; a missing key is "".
func (t *RedisTracker) Last(ctx context.Context, key string) (string, error) {
	id, err := t.client.Get(ctx, t.lastKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", eris.Wrap(err, "session: redis get last")
	}
	return id, nil
}

func (t *RedisTracker) Reset(ctx context.Context, key, keepID string) error {
	rk := t.key(key)
	_, err := t.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, rk)
		if keepID != "" {
			p.SAdd(ctx, rk, keepID)
			if t.ttl > 0 {
				p.Expire(ctx, rk, t.ttl)
			}
		}
		return nil
	})
	if err != nil {
		return eris.Wrap(err, "session: redis reset")
	}
	return nil
}
