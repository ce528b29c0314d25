package handlers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"grubguide-api/internal/selector"
	"grubguide-api/pkg/logging/logging"
)

// RestaurantSelector is satisfied by *selector.Selector.
type RestaurantSelector interface {
	Select(ctx context.Context, q selector.Query) ([]byte, error)
}

// RestaurantHandler serves GET /api/getRestaurants.
type RestaurantHandler struct {
	Selector         RestaurantSelector
	APIKeyConfigured bool
}

func NewRestaurantHandler(s RestaurantSelector, apiKeyConfigured bool) *RestaurantHandler {
	return &RestaurantHandler{
		Selector:         s,
		APIKeyConfigured: apiKeyConfigured,
	}
}

// RandomRestaurant picks one restaurant near ?address= within ?radius= miles.
// ?reroll=true skips the cached pick and ?previousId= excludes the last one.
func (h *RestaurantHandler) RandomRestaurant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.L(ctx)
	start := time.Now()

	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	if !h.APIKeyConfigured {
		logger.Error("google api key not configured")
		writeError(w, http.StatusInternalServerError, msgNotConfigured)
		return
	}

	q := r.URL.Query()
	address := strings.TrimSpace(q.Get("address"))
	rawRadius := strings.TrimSpace(q.Get("radius"))
	if address == "" || rawRadius == "" {
		logger.Warn("missing required parameters",
			zap.String("address", address),
			zap.String("radius", rawRadius),
		)
		writeError(w, http.StatusBadRequest, "Missing required parameters")
		return
	}

	radius, err := strconv.ParseFloat(rawRadius, 64)
	if err != nil || math.IsNaN(radius) || math.IsInf(radius, 0) || radius <= 0 {
		logger.Warn("invalid radius", zap.String("radius", rawRadius))
		writeError(w, http.StatusBadRequest, "Invalid radius parameter")
		return
	}

	query := selector.Query{
		Origin:      address,
		RadiusMiles: radius,
		Reroll:      q.Get("reroll") == "true",
		PreviousID:  strings.TrimSpace(q.Get("previousId")),
	}

	body, err := h.Selector.Select(ctx, query)
	fields := []zap.Field{
		zap.String("address", address),
		zap.Float64("radius_miles", radius),
		zap.Bool("reroll", query.Reroll),
		zap.String("previous_id", query.PreviousID),
		zap.Duration("total_latency", time.Since(start)),
	}

	switch {
	case err == nil:
		logger.Info("restaurant_selected", fields...)
		writeRawJSON(w, http.StatusOK, body)
	case errors.Is(err, selector.ErrNotFound):
		logger.Info("no restaurants found", fields...)
		writeError(w, http.StatusNotFound, "No restaurants found near the address")
	case errors.Is(err, selector.ErrNotConfigured):
		logger.Error("provider rejected missing credentials", append(fields, zap.Error(err))...)
		writeError(w, http.StatusInternalServerError, msgNotConfigured)
	default:
		logger.Error("restaurant selection failed", append(fields, zap.Error(err))...)
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}
