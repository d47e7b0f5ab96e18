// Package site renders the HTML shell around the reference documents: the
// header navigation, the overview page and the reference page with its
// side navigation.
package site

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strings"

	"github.com/dgallion1/docsite/internal/content"
	"github.com/dgallion1/docsite/internal/slug"
	"github.com/dgallion1/docsite/internal/toc"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// OutlineDepth is how many outline levels the current document shows in
// the side navigation.
const OutlineDepth = 3

// NavItem is one outline entry in the side navigation.
type NavItem struct {
	Title    string
	ID       string
	Href     string
	Children []NavItem
}

// NavDoc is one document entry in the side navigation.
type NavDoc struct {
	Key     string
	Title   string
	Href    string
	Current bool
	Items   []NavItem
}

type pageData struct {
	Title     string
	Section   string
	Documents []*content.Document
	Doc       *content.Document
	Content   template.HTML
	Nav       []NavDoc
}

// Site renders pages for one document store.
type Site struct {
	store *content.Store
	pages map[string]*template.Template
}

// New parses the embedded templates.
func New(store *content.Store) (*Site, error) {
	base, err := template.New("layout.tmpl").Funcs(template.FuncMap{
		"fragment": slug.Fragment,
	}).ParseFS(templateFS, "templates/layout.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	s := &Site{store: store, pages: map[string]*template.Template{}}
	for _, name := range []string{"overview.tmpl", "section.tmpl", "reference.tmpl"} {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout: %w", err)
		}
		if _, err := t.ParseFS(templateFS, "templates/"+name); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		s.pages[name] = t
	}
	return s, nil
}

// Overview lists every document with its summary.
func (s *Site) Overview(w io.Writer) error {
	return s.render(w, "overview.tmpl", pageData{
		Title:     "Overview",
		Section:   "overview",
		Documents: s.store.Documents(),
	})
}

// Section lists the documents filed under one site section.
func (s *Site) Section(w io.Writer, section string) error {
	return s.render(w, "section.tmpl", pageData{
		Title:     sectionTitle(section),
		Section:   section,
		Documents: s.store.InSection(section),
	})
}

func sectionTitle(section string) string {
	if section == "" {
		return ""
	}
	return strings.ToUpper(section[:1]) + section[1:]
}

// Reference renders doc with the side navigation of all documents.
func (s *Site) Reference(w io.Writer, doc *content.Document) error {
	return s.render(w, "reference.tmpl", pageData{
		Title:   doc.Title,
		Section: doc.Section,
		Doc:     doc,
		Content: template.HTML(doc.HTML),
		Nav:     s.Nav(doc.Key),
	})
}

// Nav builds the side navigation with the current document expanded.
func (s *Site) Nav(current string) []NavDoc {
	var out []NavDoc
	for _, d := range s.store.Documents() {
		nd := NavDoc{
			Key:     d.Key,
			Title:   d.Title,
			Href:    "/reference/" + d.Key,
			Current: d.Key == current,
		}
		if nd.Current {
			nd.Items = NavItems(d.Key, d.Outline, OutlineDepth)
		}
		out = append(out, nd)
	}
	return out
}

// NavItems converts an outline to nav entries down to depth levels.
// Placeholder nodes contribute their children to the enclosing level.
func NavItems(key string, root *toc.Node, depth int) []NavItem {
	if root == nil || depth <= 0 {
		return nil
	}
	var out []NavItem
	for _, n := range root.Children {
		if n.Title == nil {
			out = append(out, NavItems(key, n, depth-1)...)
			continue
		}
		id := slug.Make(*n.Title)
		out = append(out, NavItem{
			Title:    *n.Title,
			ID:       id,
			Href:     "/reference/" + key + slug.Fragment(*n.Title),
			Children: NavItems(key, n, depth-1),
		})
	}
	return out
}

// Static serves the embedded script and stylesheet.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

func (s *Site) render(w io.Writer, page string, data pageData) error {
	if err := s.pages[page].ExecuteTemplate(w, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	return nil
}
