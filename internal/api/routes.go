package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zapponejosh/panchang-api/internal/metrics"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET /health
//	GET /metrics
//	GET /api/v1/panchang/today
//	GET /api/v1/panchang/date/{date}
//	GET /api/v1/panchang/month/{year}/{month}
//	GET /api/v1/festivals/date/{date}
//	GET /api/v1/festivals/upcoming?from=&limit=
//	GET /api/v1/muhurat/{weekday}
//	GET /api/v1/regions
//	GET /api/v1/regions/resolve?tz=
//	GET /api/v1/dataset
//
// Every /api/v1 endpoint accepts ?region= and ?tz= to pick the festival
// region.
func SetupRoutes(handlers *Handlers, m *metrics.Metrics, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		LoggingMiddleware(log),
		MetricsMiddleware(m),
		RecoveryMiddleware(),
		CORSMiddleware(),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", CodeMethodNotAllowed)
	})

	r.Get("/health", handlers.HealthCheck)
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/panchang", func(r chi.Router) {
			r.Get("/today", handlers.GetToday)
			r.Get("/date/{date}", handlers.GetDate)
			r.Get("/month/{year}/{month}", handlers.GetMonth)
		})

		r.Route("/festivals", func(r chi.Router) {
			r.Get("/date/{date}", handlers.GetFestivals)
			r.Get("/upcoming", handlers.GetUpcoming)
		})

		r.Get("/muhurat/{weekday}", handlers.GetMuhurat)

		r.Get("/regions", handlers.ListRegions)
		r.Get("/regions/resolve", handlers.ResolveRegion)

		r.Get("/dataset", handlers.GetDataset)
	})

	return r
}
