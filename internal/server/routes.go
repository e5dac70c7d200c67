package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/cortexai/toolhost/internal/config"
	"github.com/cortexai/toolhost/internal/handler"
	"github.com/cortexai/toolhost/internal/middleware"
)

// NewRouter builds the HTTP routes on top of c.
func NewRouter(cfg *config.Config, c *Components, started time.Time) http.Handler {
	log.Info().
		Int("tools", c.Registry.Len()).
		Bool("auth_enabled", len(cfg.APIKeys) > 0).
		Bool("cors_enabled", cfg.CORSEnabled).
		Bool("rate_limit_enabled", cfg.RateLimitEnabled).
		Bool("audit_logging", cfg.AuditLogging).
		Msg("service configuration")

	healthH := handler.NewHealthHandler(started, c.Registry)
	toolsH := handler.NewToolsHandler(c.Registry, c.Executor, cfg.MaxBodyBytes)

	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(middleware.SecurityHeaders)
	if cfg.CORSEnabled {
		r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins)))
	}

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.NotFound)

	// Public routes
	r.Get("/", handler.Index)
	r.Get("/health", healthH.Health)

	r.Group(func(r chi.Router) {
		if cfg.RateLimitEnabled {
			r.Use(middleware.RateLimit(cfg.RateLimitMax, cfg.RateLimitWindow, cfg.APIKeyHeader))
		}
		r.Use(middleware.Auth(cfg.APIKeys, cfg.APIKeyHeader))

		r.Get("/tools", toolsH.List)
		r.Get("/tools/{toolName}", toolsH.Get)
		r.Post("/tools/{toolName}/execute", toolsH.Execute)
	})

	return r
}
