package api

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/dgallion1/docsite/internal/session"
	"github.com/go-chi/chi/v5"
)

type createSessionRequest struct {
	Document string           `json:"document"`
	Fragment string           `json:"fragment"`
	Layout   session.Snapshot `json:"layout"`
}

type scrollRequest struct {
	Layout session.Snapshot `json:"layout"`
}

type pointerRequest struct {
	Inside bool `json:"inside"`
}

type followRequest struct {
	Title string `json:"title"`
}

// handleCreateSession mounts a document for a reference page client.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	doc := s.store.Get(req.Document)
	if doc == nil {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}

	// Browsers report location.hash percent-encoded.
	fragment := strings.TrimPrefix(req.Fragment, "#")
	if dec, err := url.PathUnescape(fragment); err == nil {
		fragment = dec
	}
	// A fragment naming no element would never scroll; drop it up front.
	if fragment != "" && !s.anchors[doc.Key].Has(fragment) {
		s.log.Debug("unknown fragment", "document", doc.Key, "fragment", fragment)
		fragment = ""
	}

	sess := s.sessions.Create(doc, fragment, req.Layout)
	writeJSON(w, http.StatusCreated, sess.View())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "sessionID")); err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessionScroll(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	var req scrollRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, sess.Scroll(req.Layout))
}

func (s *Server) handleSessionPointer(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	var req pointerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, sess.Pointer(req.Inside))
}

func (s *Server) handleSessionFollow(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	var req followRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		jsonError(w, "title is required", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, sess.Follow(req.Title))
}

func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if errors.Is(err, session.ErrNotFound) {
		jsonError(w, err.Error(), http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return sess, true
}
