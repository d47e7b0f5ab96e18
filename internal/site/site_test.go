package site

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/dgallion1/docsite/internal/content"
	"github.com/dgallion1/docsite/internal/markdown"
	"github.com/dgallion1/docsite/internal/toc"
)

func newStore(t *testing.T) *content.Store {
	t.Helper()
	l := &content.Loader{Renderer: markdown.New(markdown.Options{})}
	store, err := l.LoadFS(fstest.MapFS{
		"platform.md":   {Data: []byte("---\nsummary: Terms & concepts\norder: 1\n---\n# Platform\n\n## Projects\n\nProjects group resources.\n\n### Keys\n\n#### Too deep\n\n## Users\n")},
		"simple-api.md": {Data: []byte("---\norder: 2\n---\n# Simple API\n\n## Queries\n")},
		"start.md":      {Data: []byte("---\nsection: guides\norder: 3\nsummary: First steps\n---\n# Getting started\n")},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return store
}

func TestOverview(t *testing.T) {
	s, err := New(newStore(t))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	var buf bytes.Buffer
	if err := s.Overview(&buf); err != nil {
		t.Fatalf("overview: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`<a href="/reference/platform">Platform</a><p>Terms &amp; concepts</p>`,
		`<a href="/reference/simple-api">Simple API</a>`,
		`<a href="/" class="active">Overview</a>`,
		`<title>Overview</title>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in overview:\n%s", want, out)
		}
	}
}

func TestReference(t *testing.T) {
	store := newStore(t)
	s, err := New(store)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	var buf bytes.Buffer
	if err := s.Reference(&buf, store.Get("platform")); err != nil {
		t.Fatalf("reference: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`data-document="platform"`,
		`<a href="/reference" class="active">Reference</a>`,
		`<li class="current"><a href="/reference/platform">Platform</a>`,
		`<a id="nav-projects" data-nav-id="projects" href="/reference/platform#projects">Projects</a>`,
		`<a id="nav-keys" data-nav-id="keys" href="/reference/platform#keys">Keys</a>`,
		`<h2 id="projects" class="anchor"`,
		`class="help-block"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in reference page", want)
		}
	}
	if strings.Contains(out, `data-nav-id="too-deep"`) {
		t.Error("expected outline cut at three levels")
	}
	if strings.Contains(out, `data-nav-id="queries"`) {
		t.Error("expected other documents collapsed")
	}
}

func TestSection(t *testing.T) {
	store := newStore(t)
	s, err := New(store)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	var buf bytes.Buffer
	if err := s.Section(&buf, content.SectionGuides); err != nil {
		t.Fatalf("section: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`<title>Guides</title>`,
		`<a href="/guides" class="active">Guides</a>`,
		`<a href="/examples">Examples</a>`,
		`<a href="/reference/start">Getting started</a><p>First steps</p>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in guides page:\n%s", want, out)
		}
	}
	if strings.Contains(out, `/reference/platform"`) {
		t.Error("expected reference documents left out of guides")
	}

	buf.Reset()
	if err := s.Section(&buf, content.SectionExamples); err != nil {
		t.Fatalf("section: %v", err)
	}
	if !strings.Contains(buf.String(), "Nothing here yet.") {
		t.Errorf("expected empty examples page, got:\n%s", buf.String())
	}

	buf.Reset()
	if err := s.Reference(&buf, store.Get("start")); err != nil {
		t.Fatalf("reference: %v", err)
	}
	if !strings.Contains(buf.String(), `<a href="/guides" class="active">Guides</a>`) {
		t.Error("expected guides tab active for a guide document")
	}
}

func TestNavItems_Placeholders(t *testing.T) {
	root := toc.BuildTree([]toc.Heading{{Level: 1, Title: "A"}, {Level: 3, Title: "Deep"}, {Level: 2, Title: "B"}})
	items := NavItems("doc", root, 3)
	if len(items) != 1 || items[0].Title != "A" {
		t.Fatalf("unexpected items %+v", items)
	}
	children := items[0].Children
	if len(children) != 2 || children[0].Title != "Deep" || children[1].Title != "B" {
		t.Fatalf("expected placeholder hoisted, got %+v", children)
	}
	if children[0].Href != "/reference/doc#deep" {
		t.Errorf("unexpected href %q", children[0].Href)
	}
	if NavItems("doc", nil, 3) != nil {
		t.Error("expected nil for nil outline")
	}
}

func TestStatic(t *testing.T) {
	h := Static()
	for _, name := range []string{"/app.js", "/style.css"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, name, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", name, rec.Code)
		}
	}
}
