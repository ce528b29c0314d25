// Package selector picks a random restaurant near an origin without repeating
// what the same search session has already been shown.
package selector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"grubguide-api/internal/cache"
	"grubguide-api/internal/distance"
	"grubguide-api/internal/places"
	"grubguide-api/internal/session"
)

// MetersPerMile is the conversion the radius has always used. It is kept at
// 1609 rather than 1609.34 so search areas match existing behavior.
const MetersPerMile = 1609

var (
	ErrNotFound      = eris.New("selector: no restaurants found")
	ErrProvider      = eris.New("selector: provider failure")
	ErrNotConfigured = eris.New("selector: provider credentials not configured")
)

// ProviderError wraps a failed upstream call. errors.Is(err, ErrProvider) holds.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string { return fmt.Sprintf("selector: %s: %v", e.Op, e.Err) }
func (e *ProviderError) Unwrap() error { return e.Err }
func (e *ProviderError) Is(target error) bool {
	return target == ErrProvider
}

// Places is the subset of the Maps client the selector calls.
type Places interface {
	TextSearch(ctx context.Context, query string, radiusMeters float64) ([]places.Candidate, error)
	PhotoReferences(ctx context.Context, placeID string) ([]string, error)
	PhotoURL(ref string) string
}

// Estimator resolves a distance string and never fails.
type Estimator interface {
	Estimate(ctx context.Context, origin string, dest distance.Destination) string
}

// Query is one selection request.
type Query struct {
	Origin      string
	RadiusMiles float64
	Reroll      bool
	PreviousID  string
}

type Config struct {
	Places   Places
	Distance Estimator
	Tracker  session.Tracker
	Cache    cache.ResultCache
	// CacheTTL bounds how long a non-reroll result is replayed (default: 5m).
	CacheTTL time.Duration
	Logger   *zap.Logger
}

type Selector struct {
	places   Places
	distance Estimator
	tracker  session.Tracker
	cache    cache.ResultCache
	cacheTTL time.Duration
	logger   *zap.Logger

	// intN returns a value in [0, n); swapped in tests.
	intN func(n int) int
}

func New(cfg Config) (*Selector, error) {
	if cfg.Places == nil || cfg.Distance == nil || cfg.Tracker == nil || cfg.Cache == nil {
		return nil, eris.New("selector: places, distance, tracker and cache are required")
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{
		places:   cfg.Places,
		distance: cfg.Distance,
		tracker:  cfg.Tracker,
		cache:    cfg.Cache,
		cacheTTL: cfg.CacheTTL,
		logger:   logger.Named("selector"),
		intN:     rand.Intn,
	}, nil
}

// Select returns the JSON encoding of a Result. A non-reroll query within the
// cache TTL replays the cached bytes without touching any provider.
func (s *Selector) Select(ctx context.Context, q Query) ([]byte, error) {
	key := session.NewKey(q.Origin, q.RadiusMiles).String()
	logger := s.logger.With(
		zap.String("session_key", key),
		zap.Bool("reroll", q.Reroll),
	)

	if !q.Reroll {
		if body, hit, err := s.cache.Get(ctx, key); err == nil && hit {
			return body, nil
		}
	}

	candidates, err := s.places.TextSearch(ctx, "restaurants near "+q.Origin, q.RadiusMiles*MetersPerMile)
	if err != nil {
		return nil, providerErr("text search", err)
	}
	if len(candidates) == 0 {
		return nil, eris.Wrapf(ErrNotFound, "origin %q radius %v", q.Origin, q.RadiusMiles)
	}

	keepID := q.PreviousID
	if keepID != "" {
		if err := s.tracker.Record(ctx, key, keepID); err != nil {
			logger.Warn("record previous id failed", zap.Error(err))
		}
	} else if last, err := s.tracker.Last(ctx, key); err != nil {
		logger.Warn("last pick unavailable", zap.Error(err))
	} else {
		// Clients may omit previousId; the session's own last pick still
		// stays out of the next deck after a reset.
		keepID = last
	}

	pool, err := session.ResetIfExhausted(ctx, s.tracker, key, candidates, candidateID, keepID)
	if err != nil {
		logger.Warn("shown set unavailable, sampling all candidates", zap.Error(err))
		pool = candidates
	}

	pick := pool[s.intN(len(pool))]
	if err := s.tracker.Record(ctx, key, pick.PlaceID); err != nil {
		logger.Warn("record pick failed", zap.Error(err))
	}

	var (
		photos []string
		dist   string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		refs, err := s.places.PhotoReferences(gctx, pick.PlaceID)
		if err != nil {
			return providerErr("place details", err)
		}
		photos = s.photoURLs(refs)
		return nil
	})
	g.Go(func() error {
		dist = s.distance.Estimate(gctx, q.Origin, distance.Destination{
			Address:  pick.FormattedAddress,
			Location: pick.Location,
		})
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(newResult(pick, photos, dist))
	if err != nil {
		return nil, eris.Wrap(err, "encode result")
	}

	if !q.Reroll {
		// A failed write only costs a future miss; Get/Set errors are logged by the cache decorator.
		_ = s.cache.Set(ctx, key, body, s.cacheTTL)
	}

	logger.Debug("restaurant selected",
		zap.String("place_id", pick.PlaceID),
		zap.Int("candidates", len(candidates)),
		zap.Int("pool", len(pool)),
		zap.String("distance", dist),
	)
	return body, nil
}

func (s *Selector) photoURLs(refs []string) []string {
	if len(refs) == 0 {
		out := make([]string, len(PlaceholderPhotos))
		copy(out, PlaceholderPhotos)
		return out
	}
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		out = append(out, s.places.PhotoURL(ref))
	}
	return out
}

func candidateID(c places.Candidate) string { return c.PlaceID }

func providerErr(op string, err error) error {
	if errors.Is(err, places.ErrMissingAPIKey) {
		return eris.Wrap(ErrNotConfigured, op)
	}
	return &ProviderError{Op: op, Err: err}
}
