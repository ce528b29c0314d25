package distance

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grubguide-api/internal/places"
)

type fakeProvider struct {
	element    *places.DistanceElement
	matrixErr  error
	geo        *places.GeocodeResult
	geoErr     error
	geoCalls   int
	lastOrigin string
}

func (f *fakeProvider) DistanceMatrix(_ context.Context, origin, _ string) (*places.DistanceElement, error) {
	f.lastOrigin = origin
	return f.element, f.matrixErr
}

func (f *fakeProvider) Geocode(_ context.Context, _ string) (*places.GeocodeResult, error) {
	f.geoCalls++
	return f.geo, f.geoErr
}

var dest = Destination{Address: "1 Main St", Location: places.LatLng{Lat: 0, Lng: 1}}

func TestEstimate_UsesMatrixTextVerbatim(t *testing.T) {
	p := &fakeProvider{element: &places.DistanceElement{DistanceText: "1.2 mi", DistanceMeters: 1931}}
	e := NewEstimator(p)

	text, tier := e.estimate(context.Background(), "Austin, TX", dest)
	assert.Equal(t, "1.2 mi", text)
	assert.Equal(t, TierMatrix, tier)
	assert.Equal(t, "Austin, TX", p.lastOrigin)
	assert.Zero(t, p.geoCalls, "geocode should not run when the matrix answers")
}

func TestEstimate_FallsBackToHaversine(t *testing.T) {
	p := &fakeProvider{
		matrixErr: eris.Wrap(places.ErrNoResults, "element NOT_FOUND"),
		geo:       &places.GeocodeResult{Location: places.LatLng{Lat: 0, Lng: 0}},
	}
	e := NewEstimator(p)

	text, tier := e.estimate(context.Background(), "origin", dest)
	assert.Equal(t, "69.1 mi", text)
	assert.Equal(t, TierHaversine, tier)
}

func TestEstimate_EmptyMatrixTextFallsBack(t *testing.T) {
	p := &fakeProvider{
		element: &places.DistanceElement{},
		geo:     &places.GeocodeResult{Location: places.LatLng{Lat: 0, Lng: 1}},
	}
	text, tier := NewEstimator(p).estimate(context.Background(), "origin", dest)
	assert.Equal(t, "0.0 mi", text)
	assert.Equal(t, TierHaversine, tier)
}

func TestEstimate_PlaceholderWhenEverythingFails(t *testing.T) {
	p := &fakeProvider{
		matrixErr: eris.New("boom"),
		geoErr:    eris.New("boom"),
	}
	e := NewEstimator(p)

	cases := []struct {
		draw int
		want string
	}{
		{0, "1.0 mi"},
		{42, "5.2 mi"},
		{89, "9.9 mi"},
	}
	for _, tc := range cases {
		e.intN = func(n int) int {
			require.Equal(t, 90, n)
			return tc.draw
		}
		text, tier := e.estimate(context.Background(), "origin", dest)
		assert.Equal(t, tc.want, text)
		assert.Equal(t, TierPlaceholder, tier)
	}
}

func TestEstimate_PlaceholderStaysInRange(t *testing.T) {
	p := &fakeProvider{matrixErr: eris.New("x"), geoErr: eris.New("y")}
	e := NewEstimator(p)

	for i := 0; i < 500; i++ {
		text := e.Estimate(context.Background(), "origin", dest)
		require.Regexp(t, `^[1-9]\.[0-9] mi$`, text)
	}
}

func TestHaversine(t *testing.T) {
	one := Haversine(places.LatLng{Lat: 0, Lng: 0}, places.LatLng{Lat: 0, Lng: 1})
	assert.InDelta(t, 69.09, one, 0.01)
	assert.Equal(t, "69.1 mi", FormatMiles(one))

	assert.Zero(t, Haversine(places.LatLng{Lat: 30.2672, Lng: -97.7431}, places.LatLng{Lat: 30.2672, Lng: -97.7431}))

	// Austin to Dallas is roughly 182 miles as the crow flies.
	d := Haversine(places.LatLng{Lat: 30.2672, Lng: -97.7431}, places.LatLng{Lat: 32.7767, Lng: -96.7970})
	assert.InDelta(t, 182, d, 3)
}
