package api

import (
	"bytes"
	"net/http"

	"github.com/dgallion1/docsite/internal/content"
	"github.com/dgallion1/docsite/internal/dom"
	"github.com/dgallion1/docsite/internal/toc"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.site.Overview(&buf); err != nil {
		s.log.Error("render overview failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, buf.Bytes())
}

func (s *Server) handleSection(section string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := s.site.Section(&buf, section); err != nil {
			s.log.Error("render section failed", "section", section, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeHTML(w, buf.Bytes())
	}
}

// handleReferenceIndex redirects to the first reference document.
func (s *Server) handleReferenceIndex(w http.ResponseWriter, r *http.Request) {
	first := s.store.First()
	if refs := s.store.InSection(content.SectionReference); len(refs) > 0 {
		first = refs[0]
	}
	if first == nil {
		http.Error(w, "no documents", http.StatusNotFound)
		return
	}
	http.Redirect(w, r, "/reference/"+first.Key, http.StatusFound)
}

func (s *Server) handleReference(w http.ResponseWriter, r *http.Request) {
	doc := s.store.Get(chi.URLParam(r, "document"))
	if doc == nil {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}
	var buf bytes.Buffer
	if err := s.site.Reference(&buf, doc); err != nil {
		s.log.Error("render reference failed", "document", doc.Key, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, buf.Bytes())
}

func (s *Server) handleCodeCSS(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.renderer.WriteCodeCSS(&buf); err != nil {
		s.log.Error("write code css failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Write(buf.Bytes())
}

type documentSummary struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Summary  string `json:"summary,omitempty"`
	Href     string `json:"href"`
	Headings int    `json:"headings"`
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs := []documentSummary{}
	for _, d := range s.store.Documents() {
		docs = append(docs, documentSummary{
			Key:      d.Key,
			Title:    d.Title,
			Summary:  d.Summary,
			Href:     "/reference/" + d.Key,
			Headings: len(d.Headings),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

type headingsResponse struct {
	Document string        `json:"document"`
	Headings []toc.Heading `json:"headings"`
	Outline  *toc.Node     `json:"outline"`
}

func (s *Server) handleHeadings(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lookupDocument(w, r)
	if !ok {
		return
	}
	headings := doc.Headings
	if headings == nil {
		headings = []toc.Heading{}
	}
	writeJSON(w, http.StatusOK, headingsResponse{
		Document: doc.Key,
		Headings: headings,
		Outline:  doc.Outline,
	})
}

type anchorsResponse struct {
	Document string `json:"document"`
	*dom.Anchors
}

func (s *Server) handleAnchors(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lookupDocument(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, anchorsResponse{Document: doc.Key, Anchors: s.anchors[doc.Key]})
}

func (s *Server) lookupDocument(w http.ResponseWriter, r *http.Request) (*content.Document, bool) {
	doc, err := s.store.Lookup(chi.URLParam(r, "document"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return nil, false
	}
	return doc, true
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(body)
}
