package places

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"grubguide-api/internal/metrics"
)

const maxResponseSize = 4 * 1024 * 1024

// getJSON performs an authenticated GET against path (relative to BaseURL)
// and decodes the JSON body into out. The API key is never logged.
func (c *Client) getJSON(ctx context.Context, endpoint, path string, params url.Values, out any) error {
	if c.cfg.APIKey == "" {
		metrics.ProviderRequestsTotal.WithLabelValues(endpoint, "unconfigured").Inc()
		return ErrMissingAPIKey
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.UpstreamTimeout)
	defer cancel()

	q := url.Values{}
	for k, vs := range params {
		q[k] = vs
	}
	q.Set("key", c.cfg.APIKey)
	reqURL := c.cfg.BaseURL + path + "?" + q.Encode()

	doOnce := func(ctx context.Context) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, eris.Wrapf(err, "places: build %s request", endpoint)
		}
		req.Header.Set("Accept", "application/json")
		return c.httpClient.Do(req)
	}

	start := time.Now()
	resp, err := c.doWithRetry(ctx, endpoint, doOnce)
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return eris.Wrapf(redactURLError(err), "places: %s request", endpoint)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return eris.Wrapf(err, "places: read %s response", endpoint)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.ProviderRequestsTotal.WithLabelValues(endpoint, "http_error").Inc()
		c.logger.Error("provider http error",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncate(string(body), 200)),
		)
		return &StatusError{
			Endpoint:   endpoint,
			HTTPStatus: resp.StatusCode,
			Message:    truncate(string(body), 200),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues(endpoint, "decode_error").Inc()
		return eris.Wrapf(err, "places: decode %s response", endpoint)
	}

	metrics.ProviderRequestsTotal.WithLabelValues(endpoint, "ok").Inc()
	c.logger.Debug("provider request completed",
		zap.String("endpoint", endpoint),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// checkStatus maps an API-level status to an error. ok lists the statuses
// the caller treats as success.
func checkStatus(endpoint, status, message string, ok ...string) error {
	for _, s := range ok {
		if status == s {
			return nil
		}
	}
	if status == statusRequestDenied {
		return eris.Wrapf(ErrRequestDenied, "%s: %s", endpoint, message)
	}
	return &StatusError{Endpoint: endpoint, HTTPStatus: http.StatusOK, Status: status, Message: message}
}

// redactURLError strips the request URL, which carries the API key, from
// transport errors.
func redactURLError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return eris.Wrap(uerr.Err, uerr.Op)
	}
	return err
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
