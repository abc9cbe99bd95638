package api

import (
	"net/http"

	"github.com/shaharia-lab/lexicon/internal/notion"
)

type configStatusResponse struct {
	Ready      bool   `json:"ready"`
	DatabaseID string `json:"databaseId"`
}

func (s *Server) handleConfigStatus(w http.ResponseWriter, _ *http.Request) {
	if !s.notion.Configured() {
		s.writeSetupRequired(w, "config")
		return
	}
	writeJSON(w, http.StatusOK, configStatusResponse{
		Ready:      true,
		DatabaseID: notion.VocabularyDatabaseID,
	})
}
