// Package places is a client for the Google Maps Platform web services the
// restaurant picker depends on: Places text search and details, photo URLs,
// the Distance Matrix and the Geocoding API.
package places

import (
	"fmt"

	"github.com/rotisserie/eris"
)

var (
	// ErrMissingAPIKey is returned by every call when no API key is configured.
	ErrMissingAPIKey = eris.New("places: api key not configured")
	// ErrNoResults means the provider answered OK/ZERO_RESULTS with nothing usable.
	ErrNoResults = eris.New("places: no results")
	// ErrRequestDenied means the provider rejected the key for this API.
	ErrRequestDenied = eris.New("places: request denied")
)

// StatusError reports a non-2xx HTTP response or a non-OK API status.
type StatusError struct {
	Endpoint   string
	HTTPStatus int
	Status     string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("places: %s returned status %s: %s", e.Endpoint, e.Status, e.Message)
	}
	return fmt.Sprintf("places: %s returned http %d: %s", e.Endpoint, e.HTTPStatus, e.Message)
}

// LatLng is a WGS84 coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Candidate is a restaurant as returned by text search, before enrichment.
type Candidate struct {
	PlaceID          string
	Name             string
	FormattedAddress string
	Location         LatLng
	PhotoReferences  []string
	Rating           float64
	UserRatingsTotal int
	PriceLevel       *int
	Types            []string
	BusinessStatus   string
	OpenNow          *bool
}

// DistanceElement is one origin/destination cell of a distance matrix.
type DistanceElement struct {
	// DistanceText is provider formatted, e.g. "3.1 mi".
	DistanceText   string
	DistanceMeters int
	DurationText   string
}

// GeocodeResult is the first match of a forward or reverse geocode.
type GeocodeResult struct {
	FormattedAddress string
	Location         LatLng
	PlaceID          string
}
