package places

import (
	"context"
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"
)

// Geocode resolves an address to its first match.
func (c *Client) Geocode(ctx context.Context, address string) (*GeocodeResult, error) {
	params := url.Values{"address": {address}}
	return c.geocode(ctx, "geocode", params)
}

// ReverseGeocode resolves coordinates to the nearest formatted address.
// REQUEST_DENIED is reported as ErrRequestDenied so callers can degrade.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (*GeocodeResult, error) {
	latlng := strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
	params := url.Values{"latlng": {latlng}}
	return c.geocode(ctx, "reverse_geocode", params)
}

func (c *Client) geocode(ctx context.Context, endpoint string, params url.Values) (*GeocodeResult, error) {
	var resp providerGeocodeResponse
	if err := c.getJSON(ctx, endpoint, "/geocode/json", params, &resp); err != nil {
		return nil, err
	}
	if err := checkStatus(endpoint, resp.Status, resp.ErrorMessage, statusOK, statusZeroResults); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, eris.Wrap(ErrNoResults, endpoint)
	}

	r := resp.Results[0]
	return &GeocodeResult{
		FormattedAddress: r.FormattedAddress,
		Location:         LatLng{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
		PlaceID:          r.PlaceID,
	}, nil
}
