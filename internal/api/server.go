package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dgallion1/docsite/internal/config"
	"github.com/dgallion1/docsite/internal/content"
	"github.com/dgallion1/docsite/internal/dom"
	"github.com/dgallion1/docsite/internal/help"
	"github.com/dgallion1/docsite/internal/markdown"
	"github.com/dgallion1/docsite/internal/session"
	"github.com/dgallion1/docsite/internal/site"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// HelpQueue accepts contextual-help requests for asynchronous delivery.
type HelpQueue interface {
	Submit(help.Request) error
	Snapshot() help.DispatcherSnapshot
}

// Server is the HTTP server for the documentation site.
type Server struct {
	router   chi.Router
	store    *content.Store
	site     *site.Site
	renderer *markdown.Renderer
	help     HelpQueue
	sessions *session.Store
	anchors  map[string]*dom.Anchors
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server. The anchor index of
// every document is built up front.
func NewServer(store *content.Store, renderer *markdown.Renderer, hq HelpQueue, sessions *session.Store, log *slog.Logger, cfg config.Config) (*Server, error) {
	pages, err := site.New(store)
	if err != nil {
		return nil, err
	}
	s := &Server{
		store:    store,
		site:     pages,
		renderer: renderer,
		help:     hq,
		sessions: sessions,
		anchors:  make(map[string]*dom.Anchors, store.Len()),
		log:      log,
		cfg:      cfg,
	}
	for _, d := range store.Documents() {
		a, err := dom.Index(d.HTML)
		if err != nil {
			return nil, fmt.Errorf("index %s: %w", d.Key, err)
		}
		s.anchors[d.Key] = a
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	// Pages.
	r.Get("/", s.handleOverview)
	r.Get("/guides", s.handleSection(content.SectionGuides))
	r.Get("/examples", s.handleSection(content.SectionExamples))
	r.Get("/reference", s.handleReferenceIndex)
	r.Get("/reference/{document}", s.handleReference)
	r.Get("/static/code.css", s.handleCodeCSS)
	r.Handle("/static/*", http.StripPrefix("/static", site.Static()))

	r.Route("/api", func(r chi.Router) {
		r.Get("/documents", s.handleListDocuments)
		r.Get("/documents/{document}/headings", s.handleHeadings)
		r.Get("/documents/{document}/anchors", s.handleAnchors)

		r.Post("/help", s.handleHelp)

		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/scroll", s.handleSessionScroll)
			r.Post("/pointer", s.handleSessionPointer)
			r.Post("/follow", s.handleSessionFollow)
		})

		// Operator endpoints.
		r.Group(func(r chi.Router) {
			if s.cfg.StatsAPIKey != "" {
				r.Use(AuthMiddleware(s.cfg.StatsAPIKey, s.log))
			}
			r.Get("/stats/help", s.handleHelpStats)
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"documents": s.store.Len(),
		"sessions":  s.sessions.Len(),
	})
}
