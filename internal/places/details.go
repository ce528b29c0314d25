package places

import (
	"context"
	"net/url"
	"strconv"
)

// PhotoReferences returns the photo references of a place, in provider
// order. A place without photos, or one the provider no longer knows, yields
// an empty slice.
func (c *Client) PhotoReferences(ctx context.Context, placeID string) ([]string, error) {
	params := url.Values{
		"place_id": {placeID},
		"fields":   {"photos"},
	}

	var resp providerDetailsResponse
	if err := c.getJSON(ctx, "details", "/place/details/json", params, &resp); err != nil {
		return nil, err
	}
	if err := checkStatus("details", resp.Status, resp.ErrorMessage, statusOK, statusZeroResults, statusNotFound); err != nil {
		return nil, err
	}

	if resp.Result == nil {
		return nil, nil
	}
	refs := make([]string, 0, len(resp.Result.Photos))
	for _, ph := range resp.Result.Photos {
		if ph.PhotoReference != "" {
			refs = append(refs, ph.PhotoReference)
		}
	}
	return refs, nil
}

// PhotoURL builds the servable URL for a photo reference. The URL embeds the
// API key because browsers fetch it directly.
func (c *Client) PhotoURL(reference string) string {
	q := url.Values{
		"maxwidth":       {strconv.Itoa(c.cfg.PhotoMaxWidth)},
		"photoreference": {reference},
		"key":            {c.cfg.APIKey},
	}
	return c.cfg.BaseURL + "/place/photo?" + q.Encode()
}
