package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shaharia-lab/lexicon/internal/notion"
)

const opQueryDatabase = "query_database"

// upstreamError wraps a non-2xx Notion reply. Details carries the upstream body.
type upstreamError struct {
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details"`
}

func (s *Server) handleVocabulary(w http.ResponseWriter, r *http.Request) {
	if !s.notion.Configured() {
		s.logger.Error("NOTION_API_KEY not configured")
		s.writeSetupRequired(w, "vocabulary")
		return
	}

	s.logger.Info("fetching vocabulary from Notion")

	start := time.Now()
	resp, err := s.notion.QueryDatabase(r.Context(), notion.VocabularyDatabaseID, notion.StatusQuery(notion.StatusEnriched))
	if errors.Is(err, notion.ErrMissingAPIKey) {
		s.writeSetupRequired(w, "vocabulary")
		return
	}
	if err != nil {
		s.metrics.RecordUpstreamFailure(opQueryDatabase, time.Since(start))
		s.serverError(w, err)
		return
	}
	s.metrics.RecordUpstream(opQueryDatabase, resp.StatusCode, time.Since(start))
	s.logger.Info("Notion API responded", slog.Int("status", resp.StatusCode))

	if !resp.OK() {
		s.relayUpstreamError(w, resp)
		return
	}

	result, err := notion.DecodeQueryResult(resp.Body)
	if err != nil {
		s.serverError(w, err)
		return
	}

	s.metrics.RecordWords(len(result.Results))
	s.logger.Info("fetched vocabulary", slog.Int("words", len(result.Results)))
	if len(result.Results) == 0 {
		s.logger.Warn("no words found", slog.String("status_filter", notion.StatusEnriched))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(resp.Body)
}

func (s *Server) relayUpstreamError(w http.ResponseWriter, resp *notion.Response) {
	if !json.Valid(resp.Body) {
		s.serverError(w, fmt.Errorf("notion returned status %d with a non-JSON body", resp.StatusCode))
		return
	}

	msg := "Notion API error"
	var apiErr notion.APIError
	if json.Unmarshal(resp.Body, &apiErr) == nil && apiErr.Message != "" {
		msg = apiErr.Message
	}

	s.logger.Error("Notion API error",
		slog.Int("status", resp.StatusCode),
		slog.String("code", apiErr.Code),
		slog.String("message", apiErr.Message),
	)
	writeJSON(w, resp.StatusCode, upstreamError{
		Error:   msg,
		Details: json.RawMessage(resp.Body),
	})
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	s.logger.Error("server error", "error", err)
	writeError(w, http.StatusInternalServerError, "Server error: "+err.Error())
}
