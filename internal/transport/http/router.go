package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"mfgcli/internal/config"
	"mfgcli/internal/infrastructure"
	"mfgcli/internal/middleware"
)

// RouterDeps carries the dependencies the router needs.
type RouterDeps struct {
	Config    *config.Config
	Logger    *slog.Logger
	Diagnosis DiagnosisService

	// OTel enables the instrumentation middleware when set; Metrics
	// carries the instruments it and the handlers record.
	OTel    *infrastructure.OTelProviders
	Metrics *infrastructure.HTTPMetrics

	// MetricsHandler serves the Prometheus scrape endpoint when set.
	MetricsHandler http.Handler
}

// NewRouter assembles the HTTP router with the standard middleware
// chain and all API routes mounted under /api.
func NewRouter(deps RouterDeps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	if deps.OTel != nil {
		r.Use(middleware.NewOTelInstrumentation(deps.OTel, deps.Metrics).Handler)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(chimiddleware.Compress(5))

	if deps.Config != nil && deps.Config.Security.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(
			deps.Config.Security.RateLimit.RPS,
			deps.Config.Security.RateLimit.Burst,
		)
		r.Use(limiter.Handler)
	}

	maxUpload := int64(0)
	if deps.Config != nil {
		maxUpload = deps.Config.Server.MaxUploadBytes
	}

	r.Route("/api", func(r chi.Router) {
		NewHealthHandler().RegisterRoutes(r)
		NewDiagnosisHandler(deps.Diagnosis, deps.Logger, deps.Metrics, maxUpload).RegisterRoutes(r)
	})

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	return r
}
