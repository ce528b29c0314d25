package handlers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"grubguide-api/internal/places"
	"grubguide-api/pkg/logging/logging"
)

// ReverseGeocoder is satisfied by *places.Client.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (*places.GeocodeResult, error)
}

// GeocodeHandler serves GET /api/reverseGeocode for the "use my location" button.
type GeocodeHandler struct {
	Geocoder         ReverseGeocoder
	APIKeyConfigured bool
}

func NewGeocodeHandler(g ReverseGeocoder, apiKeyConfigured bool) *GeocodeHandler {
	return &GeocodeHandler{Geocoder: g, APIKeyConfigured: apiKeyConfigured}
}

type addressBody struct {
	Address string `json:"address"`
	Note    string `json:"note,omitempty"`
}

const deniedNote = "Using approximate location. API key needs Geocoding API enabled."

func (h *GeocodeHandler) ReverseGeocode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.L(ctx)

	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	if !h.APIKeyConfigured {
		logger.Error("google api key not configured")
		writeError(w, http.StatusInternalServerError, msgNotConfigured)
		return
	}

	rawLat := strings.TrimSpace(r.URL.Query().Get("lat"))
	rawLng := strings.TrimSpace(r.URL.Query().Get("lng"))
	if rawLat == "" || rawLng == "" {
		writeError(w, http.StatusBadRequest, "Missing required parameters: lat and lng")
		return
	}

	lat, latErr := strconv.ParseFloat(rawLat, 64)
	lng, lngErr := strconv.ParseFloat(rawLng, 64)
	if latErr != nil || lngErr != nil || math.Abs(lat) > 90 || math.Abs(lng) > 180 {
		writeError(w, http.StatusBadRequest, "Invalid coordinates")
		return
	}

	res, err := h.Geocoder.ReverseGeocode(ctx, lat, lng)
	fields := []zap.Field{zap.String("lat", rawLat), zap.String("lng", rawLng)}

	var statusErr *places.StatusError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, addressBody{Address: res.FormattedAddress})
	case errors.Is(err, places.ErrRequestDenied):
		logger.Warn("geocoding denied, answering with approximate location", append(fields, zap.Error(err))...)
		writeJSON(w, http.StatusOK, addressBody{
			Address: "Location at " + rawLat + ", " + rawLng,
			Note:    deniedNote,
		})
	case errors.Is(err, places.ErrNoResults):
		writeError(w, http.StatusNotFound, "No address found for these coordinates")
	case errors.As(err, &statusErr) && statusErr.Status != "":
		// The API answered with a non-OK status such as INVALID_REQUEST.
		logger.Warn("reverse geocode status", append(fields, zap.Error(err))...)
		writeError(w, http.StatusNotFound, "No address found for these coordinates")
	case errors.Is(err, places.ErrMissingAPIKey):
		writeError(w, http.StatusInternalServerError, msgNotConfigured)
	default:
		logger.Error("reverse geocode failed", append(fields, zap.Error(err))...)
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}
