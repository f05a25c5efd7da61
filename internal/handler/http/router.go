package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vendra/pricing-service/internal/service"
	"github.com/vendra/pricing-service/pkg/health"
	"github.com/vendra/pricing-service/pkg/middleware"
)

// NewRouter creates a chi router with all pricing service routes registered.
func NewRouter(
	pricingService *service.PricingService,
	healthHandler *health.Handler,
	corsConfig middleware.CORSConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(corsConfig))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing("pricing"))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("pricing"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pricing API endpoints
	pricingHandler := NewPricingHandler(pricingService, logger)

	r.Route("/api/v1/pricing", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/quote", pricingHandler.PriceCart)
	})

	return r
}
