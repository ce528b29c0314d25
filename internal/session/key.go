// Package session scopes per-search state: the session key derived from an
// origin and radius, and the set of restaurants already shown for it.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Key identifies one search context (origin + radius).
type Key struct {
	Origin      string // normalized
	RadiusMiles float64
	Hash        string // sha256 of Origin
}

// NewKey normalizes origin (trim, collapse whitespace, lower-case) so that
// cosmetic differences in the typed address share cache and shown-set state.
func NewKey(origin string, radiusMiles float64) Key {
	normalized := strings.ToLower(strings.Join(strings.Fields(origin), " "))
	sum := sha256.Sum256([]byte(normalized))
	return Key{
		Origin:      normalized,
		RadiusMiles: radiusMiles,
		Hash:        hex.EncodeToString(sum[:]),
	}
}

// String renders the key used in maps and Redis.
func (k Key) String() string {
	// session:<RADIUS>:<HASH_HEX>
	return fmt.Sprintf("session:%s:%s", strconv.FormatFloat(k.RadiusMiles, 'f', -1, 64), k.Hash)
}
