package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/wasteledger/internal/adapter/http/handler"
	"github.com/iho/wasteledger/internal/adapter/http/middleware"
	"github.com/iho/wasteledger/internal/domain"
	"github.com/iho/wasteledger/internal/infrastructure/auth"
	"github.com/iho/wasteledger/internal/infrastructure/metrics"
	"github.com/iho/wasteledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	BalanceHandler    *handler.BalanceHandler
	NoteHandler       *handler.NoteHandler
	SummaryLogHandler *handler.SummaryLogHandler
	HealthHandler     *handler.HealthHandler

	// JWTManager enables bearer token auth. When nil the actor is taken
	// from the X-Actor-Role and X-User-Id headers.
	JWTManager       *auth.JWTManager
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	MetricsHandler   http.Handler
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	operator := middleware.RequireRole(domain.ActorRoleOperator)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTManager != nil {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager, cfg.Metrics))
		} else {
			r.Use(middleware.HeaderActor)
		}

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
		}

		r.Route("/balances", func(r chi.Router) {
			r.Get("/", cfg.BalanceHandler.List)
			r.Get("/{accreditationId}", cfg.BalanceHandler.Get)
		})

		r.Route("/organisations/{organisationId}", func(r chi.Router) {
			r.Route("/accreditations/{accreditationId}/notes", func(r chi.Router) {
				r.With(operator).Post("/", cfg.NoteHandler.Create)
				r.Get("/", cfg.NoteHandler.ListByAccreditation)
				r.Get("/{noteId}", cfg.NoteHandler.Get)
				r.Post("/{noteId}/status", cfg.NoteHandler.UpdateStatus)
			})

			r.Route("/registrations/{registrationId}/summary-logs", func(r chi.Router) {
				r.With(operator).Post("/", cfg.SummaryLogHandler.Create)
				r.Get("/{summaryLogId}", cfg.SummaryLogHandler.Get)
				r.With(operator).Post("/{summaryLogId}/submit", cfg.SummaryLogHandler.Submit)
			})
		})
	})

	return r
}
