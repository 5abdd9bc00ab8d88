package handler

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/cardgraph/internal/aggregate"
	"github.com/albapepper/cardgraph/internal/api/respond"
	"github.com/albapepper/cardgraph/internal/cache"
	"github.com/albapepper/cardgraph/internal/config"
	"github.com/albapepper/cardgraph/internal/output"
)

// GetFile serves one of the generated files by name, at the /data paths
// the web app requests.
func (h *Handler) GetFile(w http.ResponseWriter, r *http.Request) {
	h.serveDocument(w, r, chi.URLParam(r, "file"))
}

// Document returns a handler serving a fixed document.
func (h *Handler) Document(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.serveDocument(w, r, name)
	}
}

// GetPlayer returns a single player summary by exact name.
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	data, _, _, err := h.load(config.PlayersFile)
	if err != nil {
		h.writeLoadError(w, config.PlayersFile, err)
		return
	}
	players, err := output.DecodePlayers(data)
	if err != nil {
		h.logger.Error("Corrupt players document", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "BAD_DOCUMENT", "players document could not be decoded")
		return
	}

	// Players are stored sorted by name.
	i, found := slices.BinarySearchFunc(players, name, func(p aggregate.PlayerSummary, n string) int {
		return strings.Compare(p.Name, n)
	})
	if !found {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "No player named "+name)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, players[i])
}

func (h *Handler) serveDocument(w http.ResponseWriter, r *http.Request, name string) {
	if !slices.Contains(config.OutputFiles, name) {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Unknown document "+name)
		return
	}
	data, etag, hit, err := h.load(name)
	if err != nil {
		h.writeLoadError(w, name, err)
		return
	}
	respond.WriteDocument(w, r, data, etag, cache.TTLDocument, hit)
}

func (h *Handler) load(name string) ([]byte, string, bool, error) {
	return h.cache.GetOrLoad(name, cache.TTLDocument, func() ([]byte, error) {
		return os.ReadFile(filepath.Join(h.dataDir, name))
	})
}

func (h *Handler) writeLoadError(w http.ResponseWriter, name string, err error) {
	if errors.Is(err, fs.ErrNotExist) {
		respond.WriteError(w, http.StatusNotFound, "NOT_GENERATED", name+" has not been generated yet")
		return
	}
	h.logger.Error("Failed to read document", "file", name, "error", err)
	respond.WriteError(w, http.StatusInternalServerError, "READ_FAILED", "could not read "+name)
}
