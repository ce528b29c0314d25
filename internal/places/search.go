package places

import (
	"context"
	"net/url"
	"strconv"
)

// TextSearch runs a Places text search for query biased to radiusMeters.
// ZERO_RESULTS yields an empty slice and no error.
func (c *Client) TextSearch(ctx context.Context, query string, radiusMeters float64) ([]Candidate, error) {
	params := url.Values{
		"query":  {query},
		"radius": {strconv.FormatFloat(radiusMeters, 'f', -1, 64)},
	}

	var resp providerTextSearchResponse
	if err := c.getJSON(ctx, "textsearch", "/place/textsearch/json", params, &resp); err != nil {
		return nil, err
	}
	if err := checkStatus("textsearch", resp.Status, resp.ErrorMessage, statusOK, statusZeroResults); err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(resp.Results))
	for _, p := range resp.Results {
		if p.PlaceID == "" {
			continue
		}
		candidates = append(candidates, toCandidate(p))
	}
	return candidates, nil
}

func toCandidate(p providerPlace) Candidate {
	c := Candidate{
		PlaceID:          p.PlaceID,
		Name:             p.Name,
		FormattedAddress: p.FormattedAddress,
		Location:         LatLng{Lat: p.Geometry.Location.Lat, Lng: p.Geometry.Location.Lng},
		Rating:           p.Rating,
		UserRatingsTotal: p.UserRatingsTotal,
		PriceLevel:       p.PriceLevel,
		Types:            p.Types,
		BusinessStatus:   p.BusinessStatus,
	}
	if p.OpeningHours != nil {
		c.OpenNow = p.OpeningHours.OpenNow
	}
	for _, ph := range p.Photos {
		if ph.PhotoReference != "" {
			c.PhotoReferences = append(c.PhotoReferences, ph.PhotoReference)
		}
	}
	return c
}
