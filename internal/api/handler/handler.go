// Package handler provides HTTP handlers for all API endpoints.
// Handlers serve the generated documents straight from the data directory;
// bytes are passed through unchanged so the API and the static files agree.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/albapepper/cardgraph/internal/api/respond"
	"github.com/albapepper/cardgraph/internal/cache"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	dataDir string
	cache   *cache.Cache
	logger  *slog.Logger
}

// New creates a Handler serving documents from dataDir.
func New(dataDir string, c *cache.Cache, logger *slog.Logger) *Handler {
	return &Handler{
		dataDir: dataDir,
		cache:   c,
		logger:  logger,
	}
}

// Root serves API info at /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Card Graph Data API",
		"version": "1.0.0",
		"status":  "running",
		"endpoints": []string{
			"/api/v1/network",
			"/api/v1/players",
			"/api/v1/players/{name}",
			"/api/v1/teams",
			"/api/v1/colors",
			"/data/{file}",
		},
	})
}

// HealthCheck returns basic health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"data_dir":  h.dataDir,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
