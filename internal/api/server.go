// Package api wires the read-only HTTP surface over the generated documents.
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"

	"github.com/albapepper/cardgraph/internal/api/handler"
	"github.com/albapepper/cardgraph/internal/cache"
	"github.com/albapepper/cardgraph/internal/config"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(dataDir string, appCache *cache.Cache, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	h := handler.New(dataDir, appCache, logger)

	// --- Routes ---

	r.Get("/", h.Root)

	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/cache", h.HealthCheckCache)
	})

	// Static paths the web app fetches
	r.Get("/data/{file}", h.GetFile)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/network", h.Document(config.NetworkFile))
		r.Get("/players", h.Document(config.PlayersFile))
		r.Get("/players/{name}", h.GetPlayer)
		r.Get("/teams", h.Document(config.TeamsFile))
		r.Get("/colors", h.Document(config.ColorsFile))
	})

	return r
}
