package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"grubguide-api/internal/places"
	"grubguide-api/internal/selector"
	"grubguide-api/pkg/logging/logging"
)

type mockSelector struct {
	body  []byte
	err   error
	calls int
	last  selector.Query
}

func (m *mockSelector) Select(_ context.Context, q selector.Query) ([]byte, error) {
	m.calls++
	m.last = q
	return m.body, m.err
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rr.Body.String(), err)
	}
	return body.Error
}

func TestRandomRestaurant_Success(t *testing.T) {
	sel := &mockSelector{body: []byte(`{"place_id":"abc","name":"Taco Joint","photos":[],"distance":"3.1 mi"}`)}
	h := NewRestaurantHandler(sel, true)

	req := httptest.NewRequest(http.MethodGet, "/api/getRestaurants?address=Austin%2C+TX&radius=5&reroll=true&previousId=xyz", nil)
	rr := httptest.NewRecorder()
	h.RandomRestaurant(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if rr.Body.String() != string(sel.body) {
		t.Fatalf("body must be passed through untouched, got %s", rr.Body.String())
	}

	want := selector.Query{Origin: "Austin, TX", RadiusMiles: 5, Reroll: true, PreviousID: "xyz"}
	if sel.last != want {
		t.Fatalf("unexpected query %+v", sel.last)
	}
}

func TestRandomRestaurant_RerollOnlyWhenTrue(t *testing.T) {
	sel := &mockSelector{body: []byte(`{}`)}
	h := NewRestaurantHandler(sel, true)

	req := httptest.NewRequest(http.MethodGet, "/api/getRestaurants?address=x&radius=1&reroll=yes", nil)
	h.RandomRestaurant(httptest.NewRecorder(), req)

	if sel.last.Reroll {
		t.Fatalf("reroll should only be enabled by the literal \"true\"")
	}
}

func TestRandomRestaurant_Validation(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"missing address", "/api/getRestaurants?radius=5", "Missing required parameters"},
		{"blank address", "/api/getRestaurants?address=%20%20&radius=5", "Missing required parameters"},
		{"missing radius", "/api/getRestaurants?address=Austin", "Missing required parameters"},
		{"non numeric radius", "/api/getRestaurants?address=Austin&radius=far", "Invalid radius parameter"},
		{"zero radius", "/api/getRestaurants?address=Austin&radius=0", "Invalid radius parameter"},
		{"negative radius", "/api/getRestaurants?address=Austin&radius=-2", "Invalid radius parameter"},
		{"nan radius", "/api/getRestaurants?address=Austin&radius=NaN", "Invalid radius parameter"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sel := &mockSelector{}
			h := NewRestaurantHandler(sel, true)

			rr := httptest.NewRecorder()
			h.RandomRestaurant(rr, httptest.NewRequest(http.MethodGet, tc.url, nil))

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rr.Code)
			}
			if got := decodeError(t, rr); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
			if sel.calls != 0 {
				t.Fatalf("selector must not run on invalid input")
			}
		})
	}
}

func TestRandomRestaurant_MissingAddressExactBody(t *testing.T) {
	h := NewRestaurantHandler(&mockSelector{}, true)
	rr := httptest.NewRecorder()
	h.RandomRestaurant(rr, httptest.NewRequest(http.MethodGet, "/api/getRestaurants?radius=5", nil))

	if got := rr.Body.String(); got != "{\"error\":\"Missing required parameters\"}\n" {
		t.Fatalf("unexpected body %q", got)
	}
}

func TestRandomRestaurant_MissingParametersAreLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	h := NewRestaurantHandler(&mockSelector{}, true)

	req := httptest.NewRequest(http.MethodGet, "/api/getRestaurants?address=Austin", nil)
	req = req.WithContext(logging.WithLogger(req.Context(), zap.New(core)))
	rr := httptest.NewRecorder()
	h.RandomRestaurant(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	entries := logs.FilterMessage("missing required parameters").All()
	if len(entries) != 1 {
		t.Fatalf("expected one warning, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["address"] != "Austin" || fields["radius"] != "" {
		t.Fatalf("unexpected fields %v", fields)
	}
}

func TestRandomRestaurant_OutcomeMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"not found", eris.Wrap(selector.ErrNotFound, "origin"), http.StatusNotFound, "No restaurants found near the address"},
		{"provider", &selector.ProviderError{Op: "text search", Err: &places.StatusError{Endpoint: "textsearch", HTTPStatus: 502, Message: "upstream secret detail"}}, http.StatusInternalServerError, "Internal Server Error"},
		{"not configured", eris.Wrap(selector.ErrNotConfigured, "text search"), http.StatusInternalServerError, "API key not configured"},
		{"unexpected", eris.New("boom"), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewRestaurantHandler(&mockSelector{err: tc.err}, true)
			rr := httptest.NewRecorder()
			h.RandomRestaurant(rr, httptest.NewRequest(http.MethodGet, "/api/getRestaurants?address=x&radius=1", nil))

			if rr.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rr.Code)
			}
			if got := decodeError(t, rr); got != tc.wantMsg {
				t.Fatalf("expected %q, got %q", tc.wantMsg, got)
			}
		})
	}
}

func TestRandomRestaurant_APIKeyNotConfigured(t *testing.T) {
	sel := &mockSelector{}
	h := NewRestaurantHandler(sel, false)

	rr := httptest.NewRecorder()
	h.RandomRestaurant(rr, httptest.NewRequest(http.MethodGet, "/api/getRestaurants?address=x&radius=1", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if got := decodeError(t, rr); got != "API key not configured" {
		t.Fatalf("unexpected message %q", got)
	}
	if sel.calls != 0 {
		t.Fatalf("selector must not run without credentials")
	}
}

func TestRandomRestaurant_MethodNotAllowed(t *testing.T) {
	h := NewRestaurantHandler(&mockSelector{}, true)

	rr := httptest.NewRecorder()
	h.RandomRestaurant(rr, httptest.NewRequest(http.MethodPost, "/api/getRestaurants?address=x&radius=1", nil))

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}
	if allow := rr.Header().Get("Allow"); allow != http.MethodGet {
		t.Fatalf("expected Allow: GET, got %q", allow)
	}
}
