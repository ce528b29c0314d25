package session

import (
	"context"

	"grubguide-api/internal/metrics"
)

// Set holds restaurant ids already shown in a session.
type Set map[string]struct{}

// Has reports whether id is in the set.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Tracker stores the shown set of each session. Implementations must be safe
// for concurrent use; a lost concurrent Record is tolerated.
type Tracker interface {
	// Shown returns a snapshot of the session's set, creating it if absent.
	Shown(ctx context.Context, key string) (Set, error)
	// Record adds id to the session's set and remembers it as the last id.
	Record(ctx context.Context, key, id string) error
	// Last returns the most recently recorded id, or "" for a new session.
	// It survives Reset.
	Last(ctx context.Context, key string) (string, error)
	// Reset clears the session's set, then re-seeds it with keepID if non-empty.
	Reset(ctx context.Context, key, keepID string) error
}

// FilterExcluding returns the items whose id is not in excluded, in order.
func FilterExcluding[T any](items []T, idOf func(T) string, excluded Set) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if !excluded.Has(idOf(it)) {
			out = append(out, it)
		}
	}
	return out
}

// ResetIfExhausted filters items against the session's shown set. When every
// item has been shown it resets the set (keeping keepID so the item just
// shown is not drawn again immediately) and filters again. If keepID was the
// only item left, all items are returned.
func ResetIfExhausted[T any](ctx context.Context, t Tracker, key string, items []T, idOf func(T) string, keepID string) ([]T, error) {
	shown, err := t.Shown(ctx, key)
	if err != nil {
		return nil, err
	}

	remaining := FilterExcluding(items, idOf, shown)
	if len(remaining) > 0 || len(items) == 0 {
		return remaining, nil
	}

	if err := t.Reset(ctx, key, keepID); err != nil {
		return nil, err
	}
	metrics.ShownSetResetsTotal.Inc()

	reseeded := Set{}
	if keepID != "" {
		reseeded[keepID] = struct{}{}
	}
	remaining = FilterExcluding(items, idOf, reseeded)
	if len(remaining) == 0 {
		return items, nil
	}
	return remaining, nil
}
