package places

import (
	"context"
	"net/url"

	"github.com/rotisserie/eris"
)

// DistanceMatrix returns the driving distance between two addresses in
// imperial units. A non-OK element status is reported as ErrNoResults.
func (c *Client) DistanceMatrix(ctx context.Context, origin, destination string) (*DistanceElement, error) {
	params := url.Values{
		"units":        {"imperial"},
		"origins":      {origin},
		"destinations": {destination},
	}

	var resp providerDistanceMatrixResponse
	if err := c.getJSON(ctx, "distancematrix", "/distancematrix/json", params, &resp); err != nil {
		return nil, err
	}
	if err := checkStatus("distancematrix", resp.Status, resp.ErrorMessage, statusOK); err != nil {
		return nil, err
	}

	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return nil, eris.Wrap(ErrNoResults, "distancematrix: empty matrix")
	}

	el := resp.Rows[0].Elements[0]
	if el.Status != statusOK || el.Distance == nil || el.Distance.Text == "" {
		return nil, eris.Wrapf(ErrNoResults, "distancematrix: element status %s", el.Status)
	}

	out := &DistanceElement{
		DistanceText:   el.Distance.Text,
		DistanceMeters: el.Distance.Value,
	}
	if el.Duration != nil {
		out.DurationText = el.Duration.Text
	}
	return out, nil
}
