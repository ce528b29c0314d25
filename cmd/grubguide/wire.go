package main

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"grubguide-api/internal/cache"
	"grubguide-api/internal/config"
	"grubguide-api/internal/distance"
	"grubguide-api/internal/places"
	"grubguide-api/internal/selector"
	"grubguide-api/internal/session"
)

// service holds the long-lived objects shared by serve and pick.
type service struct {
	places   *places.Client
	selector *selector.Selector
	closers  []func() error
}

func (s *service) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func buildService(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*service, error) {
	svc := &service{}

	// ----- Redis client (only if needed) -----
	var redisClient *redis.Client
	if cfg.Cache.Backend == "redis" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		svc.closers = append(svc.closers, redisClient.Close)

		// Fail fast if Redis is misconfigured
		if err := redisClient.Ping(ctx).Err(); err != nil {
			_ = svc.Close()
			return nil, eris.Wrapf(err, "redis ping %s", cfg.Redis.Addr)
		}
		logger.Info("redis connection established", zap.String("addr", cfg.Redis.Addr))
	}

	// ----- Result cache -----
	rawCache := cache.New(cache.Config{
		Backend:         cfg.Cache.Backend,
		MaxEntries:      cfg.Cache.MaxEntries,
		Prefix:          cfg.Cache.Prefix,
		CleanupInterval: cfg.Cache.CleanupInterval,
	}, redisClient)
	if mc, ok := rawCache.(*cache.MemoryCache); ok {
		svc.closers = append(svc.closers, mc.Close)
	}
	resultCache := cache.NewLoggingCache(rawCache, cfg.Cache.Backend)

	// ----- Shown-set tracker -----
	var tracker session.Tracker
	if redisClient != nil {
		tracker = session.NewRedisTracker(redisClient, session.RedisConfig{
			Prefix: cfg.Cache.Prefix,
			TTL:    cfg.Session.TTL,
		})
	} else {
		tracker = session.NewMemoryTracker(cfg.Session.MaxEntries, cfg.Session.TTL)
	}

	// ----- Google Maps client -----
	client, err := places.NewClient(places.Config{
		APIKey:          cfg.Google.APIKey,
		BaseURL:         cfg.Google.BaseURL,
		PhotoMaxWidth:   cfg.Google.PhotoMaxWidth,
		UpstreamTimeout: cfg.Google.UpstreamTimeout,
		MaxRetries:      cfg.Google.MaxRetries,
		RateLimit:       cfg.Google.RateLimitRPS,
	}, logger)
	if err != nil {
		_ = svc.Close()
		return nil, eris.Wrap(err, "places client")
	}
	svc.places = client
	svc.closers = append(svc.closers, client.Close)

	if !client.Configured() {
		logger.Warn("google api key not configured; restaurant and geocode endpoints will answer 500")
	}

	sel, err := selector.New(selector.Config{
		Places:   client,
		Distance: distance.NewEstimator(client),
		Tracker:  tracker,
		Cache:    resultCache,
		CacheTTL: cfg.Cache.TTL,
		Logger:   logger,
	})
	if err != nil {
		_ = svc.Close()
		return nil, err
	}
	svc.selector = sel

	return svc, nil
}
