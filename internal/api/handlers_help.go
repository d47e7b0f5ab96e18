package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dgallion1/docsite/internal/help"
)

type helpRequest struct {
	Document string `json:"document"`
	Text     string `json:"text"`
}

// handleHelp queues an "ask about this" request from a help block.
func (s *Server) handleHelp(w http.ResponseWriter, r *http.Request) {
	var req helpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		jsonError(w, "text is required", http.StatusBadRequest)
		return
	}
	doc := s.store.Get(req.Document)
	if doc == nil {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	if s.help == nil {
		jsonError(w, "help unavailable", http.StatusServiceUnavailable)
		return
	}

	err := s.help.Submit(help.Request{Document: doc.Key, Title: doc.Title, Text: req.Text})
	switch {
	case errors.Is(err, help.ErrQueueFull), errors.Is(err, help.ErrStopped):
		s.log.Warn("help request rejected", "document", doc.Key, "error", err)
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	case err != nil:
		jsonError(w, "failed to queue help request: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued", "document": doc.Key})
}

func (s *Server) handleHelpStats(w http.ResponseWriter, r *http.Request) {
	if s.help == nil {
		jsonError(w, "help stats unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, s.help.Snapshot())
}
