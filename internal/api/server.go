package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shaharia-lab/lexicon/internal/metrics"
	"github.com/shaharia-lab/lexicon/internal/notion"
)

// Server holds the dependencies of the relay API handlers.
type Server struct {
	notion  notion.DatabaseQuerier
	metrics *metrics.Collector
	logger  *slog.Logger
}

// New creates an API Server that relays vocabulary queries through client.
func New(client notion.DatabaseQuerier, collector *metrics.Collector, logger *slog.Logger) *Server {
	return &Server{
		notion:  client,
		metrics: collector,
		logger:  logger,
	}
}

// Mount registers all API routes under the given router.
func (s *Server) Mount(r chi.Router) {
	r.Get("/config", s.handleConfigStatus)
	r.Get("/config-status", s.handleConfigStatus)
	r.Post("/vocabulary", s.handleVocabulary)
	r.Get("/version", s.handleVersion)
}

// ─── Shared helpers ───────────────────────────────────────────────────────────

// setupRequired is returned whenever no Notion key is configured.
type setupRequired struct {
	Error string `json:"error"`
	Setup bool   `json:"setup"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) writeSetupRequired(w http.ResponseWriter, endpoint string) {
	s.metrics.RecordSetupRequired(endpoint)
	writeJSON(w, http.StatusBadRequest, setupRequired{
		Error: notion.ErrMissingAPIKey.Error(),
		Setup: true,
	})
}
