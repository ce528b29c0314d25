package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"grubguide-api/internal/handlers"
	"grubguide-api/internal/metrics"
	"grubguide-api/internal/middleware"
)

type Options struct {
	RequestTimeout time.Duration
	AllowedOrigins []string
}

func SetupRouter(
	r *chi.Mux,
	baseLogger *zap.Logger,
	opts Options,
	restaurants *handlers.RestaurantHandler,
	geocode *handlers.GeocodeHandler,
) {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 45 * time.Second
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	r.Use(metrics.Middleware)

	// base middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Use(middleware.LoggingContext(baseLogger))
	r.Use(middleware.Recoverer())
	r.Use(middleware.Timeout(opts.RequestTimeout))

	// Handlers answer non-GET methods themselves with a JSON 405.
	r.Route("/api", func(r chi.Router) {
		r.HandleFunc("/getRestaurants", restaurants.RandomRestaurant)
		r.HandleFunc("/reverseGeocode", geocode.ReverseGeocode)
	})
	r.Route("/v1", func(r chi.Router) {
		r.HandleFunc("/restaurants/random", restaurants.RandomRestaurant)
		r.HandleFunc("/geocode/reverse", geocode.ReverseGeocode)
	})

	// health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/metrics", metrics.Handler())
}
