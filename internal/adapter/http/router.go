package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/payouts/internal/adapter/http/handler"
	"github.com/iho/payouts/internal/adapter/http/middleware"
	"github.com/iho/payouts/internal/domain"
	"github.com/iho/payouts/internal/infrastructure/auth"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	EntryHandler   *handler.EntryHandler
	NetworkHandler *handler.NetworkHandler
	RateHandler    *handler.RateHandler
	HealthHandler  *handler.HealthHandler
	JWTManager     *auth.JWTManager
	AuthEnabled    bool
	Logger         zerolog.Logger
}

// NewRouter creates a new HTTP router. Reads work anonymously; mutations
// require an admin token when auth is enabled.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	requireAdmin := func(r chi.Router) chi.Router {
		if cfg.AuthEnabled {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))
			r.Use(middleware.RequireRole(domain.RoleAdmin))
		}
		return r
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.AuthEnabled {
			r.Use(middleware.OptionalAuth(cfg.JWTManager))
		}

		// Entries
		r.Route("/entries", func(r chi.Router) {
			r.Post("/", cfg.EntryHandler.Create)
			r.Get("/", cfg.EntryHandler.List)
			r.Get("/{id}", cfg.EntryHandler.Get)
			r.Get("/{id}/history", cfg.EntryHandler.GetHistory)

			r.Group(func(r chi.Router) {
				requireAdmin(r)
				r.Put("/{id}/status", cfg.EntryHandler.SetStatus)
				r.Put("/{id}/notes", cfg.EntryHandler.UpdateNotes)
				r.Put("/{id}/amount", cfg.EntryHandler.UpdateAmount)
				r.Post("/{id}/history", cfg.EntryHandler.AppendHistory)
			})
		})

		// Networks
		r.Get("/networks", cfg.NetworkHandler.List)

		// Rates
		r.Get("/rates", cfg.RateHandler.Get)
	})

	return r
}
