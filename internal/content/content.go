// Package content holds the reference documents served by the site. The
// store is filled once at startup and is read-only afterwards, so any number
// of requests may share it.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"slices"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/dgallion1/docsite/internal/markdown"
	"github.com/dgallion1/docsite/internal/source"
	"github.com/dgallion1/docsite/internal/toc"
	"github.com/yuin/goldmark/ast"
)

// ErrNotFound is returned by Store.Lookup for unknown document keys.
var ErrNotFound = errors.New("document not found")

// Site sections a document can be listed under.
const (
	SectionReference = "reference"
	SectionGuides    = "guides"
	SectionExamples  = "examples"
)

// Sections lists the site sections in header order, after the overview.
var Sections = []string{SectionGuides, SectionReference, SectionExamples}

// Document is a parsed reference source. Source backs the AST's text
// segments and must not be modified.
type Document struct {
	Key     string
	Title   string
	Summary string
	Section string
	Order   int
	Path    string

	Source   []byte
	AST      ast.Node
	HTML     []byte
	Headings []toc.Heading
	Outline  *toc.Node
}

type frontMatter struct {
	Key     string `yaml:"key"`
	Title   string `yaml:"title"`
	Summary string `yaml:"summary"`
	Section string `yaml:"section"`
	Order   int    `yaml:"order"`
}

// Store is an ordered mapping of document key to Document.
type Store struct {
	keys []string
	docs map[string]*Document
}

// NewStore builds a store from already parsed documents, keeping the given
// order. Duplicate keys are an error.
func NewStore(docs ...*Document) (*Store, error) {
	s := &Store{docs: make(map[string]*Document, len(docs))}
	for _, d := range docs {
		if _, ok := s.docs[d.Key]; ok {
			return nil, fmt.Errorf("duplicate document key %q (%s)", d.Key, d.Path)
		}
		s.keys = append(s.keys, d.Key)
		s.docs[d.Key] = d
	}
	return s, nil
}

// Get returns the document for key, or nil.
func (s *Store) Get(key string) *Document {
	if s == nil {
		return nil
	}
	return s.docs[key]
}

// Lookup is Get with an error for unknown keys.
func (s *Store) Lookup(key string) (*Document, error) {
	if d := s.Get(key); d != nil {
		return d, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
}

// Keys returns document keys in store order.
func (s *Store) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Documents returns documents in store order.
func (s *Store) Documents() []*Document {
	out := make([]*Document, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, s.docs[k])
	}
	return out
}

// InSection returns the documents of one site section in store order.
func (s *Store) InSection(section string) []*Document {
	var out []*Document
	for _, k := range s.keys {
		if d := s.docs[k]; d.Section == section {
			out = append(out, d)
		}
	}
	return out
}

// First returns the first document, or nil for an empty store.
func (s *Store) First() *Document {
	if s == nil || len(s.keys) == 0 {
		return nil
	}
	return s.docs[s.keys[0]]
}

// Len returns the number of documents.
func (s *Store) Len() int { return len(s.keys) }

// Loader reads a directory of sources into a Store.
type Loader struct {
	Renderer *markdown.Renderer
	Source   source.Options
	Log      *slog.Logger
}

// Load reads every supported file directly under dir.
func (l *Loader) Load(dir string) (*Store, error) {
	return l.LoadFS(os.DirFS(dir))
}

// LoadFS reads every supported file at the root of fsys. Documents are
// ordered by their front matter order, then by file name.
func (l *Loader) LoadFS(fsys fs.FS) (*Store, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read content dir: %w", err)
	}

	var docs []*Document
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if !source.IsSupportedExtension(e.Name()) {
			l.log().Warn("skipping unsupported content file", "file", e.Name())
			continue
		}
		raw, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		doc, err := l.Parse(e.Name(), raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
		l.log().Info("loaded document",
			"key", doc.Key,
			"file", e.Name(),
			"headings", len(doc.Headings),
		)
	}

	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].Order != docs[j].Order {
			return docs[i].Order < docs[j].Order
		}
		return docs[i].Path < docs[j].Path
	})
	return NewStore(docs...)
}

// Parse converts, parses and renders a single source file.
func (l *Loader) Parse(name string, raw []byte) (*Document, error) {
	conv, err := source.ForFile(name, l.Source)
	if err != nil {
		return nil, err
	}

	var meta frontMatter
	body := raw
	if ext := strings.ToLower(path.Ext(name)); ext == ".md" || ext == ".markdown" {
		body, err = frontmatter.Parse(bytes.NewReader(raw), &meta)
		if err != nil {
			return nil, fmt.Errorf("parse front matter of %s: %w", name, err)
		}
	}

	src, err := conv.Convert(bytes.NewReader(body), name)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", name, err)
	}

	section := strings.ToLower(strings.TrimSpace(meta.Section))
	if section == "" {
		section = SectionReference
	}
	if !slices.Contains(Sections, section) {
		return nil, fmt.Errorf("%s: unknown section %q", name, meta.Section)
	}

	doc := &Document{
		Key:     strings.TrimSpace(meta.Key),
		Title:   strings.TrimSpace(meta.Title),
		Summary: strings.TrimSpace(meta.Summary),
		Section: section,
		Order:   meta.Order,
		Path:    name,
		Source:  src,
		AST:     l.Renderer.Parse(src),
	}
	if doc.Key == "" {
		doc.Key = source.Stem(name)
	}
	doc.Headings = toc.Extract(doc.AST, doc.Source)
	doc.Outline = toc.BuildTree(doc.Headings)
	if doc.Title == "" {
		doc.Title = firstTitle(doc.Headings, doc.Key)
	}

	doc.HTML, err = l.Renderer.RenderBytes(doc.AST, doc.Source, doc.Title)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return doc, nil
}

func firstTitle(headings []toc.Heading, fallback string) string {
	for _, h := range headings {
		if h.Level == 1 && h.Title != "" {
			return h.Title
		}
	}
	return fallback
}

func (l *Loader) log() *slog.Logger {
	if l.Log == nil {
		return slog.Default()
	}
	return l.Log
}
