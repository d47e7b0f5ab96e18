// Package markdown parses reference sources with goldmark and renders them
// to HTML. Headings get ids and an anchor offset that clears the fixed page
// header, paragraphs and lists carry a contextual-help trigger, and code
// blocks are highlighted with chroma.
package markdown

import (
	"bytes"
	"fmt"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Options configures a Renderer.
type Options struct {
	// CodeStyle is a chroma style name. Unknown names fall back to chroma's
	// default style.
	CodeStyle string
	// CodeClasses emits CSS classes instead of inline styles for highlighted
	// code; the stylesheet comes from WriteCodeCSS.
	CodeClasses bool
	// Unsafe lets raw HTML in sources through to the output.
	Unsafe bool
	// HeaderOffset is the anchor offset in pixels for h1 and h2. Deeper
	// headings use 80% of it. Zero means 100.
	HeaderOffset int
}

// Renderer parses and renders markdown. It holds no per-document state and
// is safe for concurrent use.
type Renderer struct {
	opts Options
	md   goldmark.Markdown
	code *highlighter
}

// New builds a Renderer.
func New(opts Options) *Renderer {
	if opts.HeaderOffset <= 0 {
		opts.HeaderOffset = 100
	}
	return &Renderer{
		opts: opts,
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.DefinitionList,
			),
		),
		code: newHighlighter(opts.CodeStyle, opts.CodeClasses),
	}
}

// Parse parses src into a goldmark AST. The AST references src, so callers
// must keep src alongside it and must not modify it.
func (r *Renderer) Parse(src []byte) ast.Node {
	return r.md.Parser().Parse(text.NewReader(src))
}

// Render writes the HTML for doc. title names the document in the
// contextual-help payload of each block.
func (r *Renderer) Render(w io.Writer, doc ast.Node, src []byte, title string) error {
	if err := r.htmlRenderer(title).Render(w, src, doc); err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	return nil
}

// RenderBytes is Render into a byte slice.
func (r *Renderer) RenderBytes(doc ast.Node, src []byte, title string) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, doc, src, title); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteCodeCSS writes the stylesheet for class-based code highlighting.
func (r *Renderer) WriteCodeCSS(w io.Writer) error {
	return r.code.writeCSS(w)
}

// htmlRenderer assembles a goldmark renderer whose block renderers know the
// document title. goldmark renderers have no per-call context, so a fresh
// one is built for every Render call instead of mutating the shared AST.
func (r *Renderer) htmlRenderer(title string) renderer.Renderer {
	var htmlOpts []renderer.Option
	var baseOpts []html.Option
	if r.opts.Unsafe {
		baseOpts = append(baseOpts, html.WithUnsafe())
	}
	htmlOpts = append(htmlOpts, renderer.WithNodeRenderers(
		util.Prioritized(html.NewRenderer(baseOpts...), 1000),
		util.Prioritized(extension.NewTableHTMLRenderer(), 500),
		util.Prioritized(extension.NewStrikethroughHTMLRenderer(baseOpts...), 500),
		util.Prioritized(extension.NewTaskCheckBoxHTMLRenderer(baseOpts...), 500),
		util.Prioritized(extension.NewDefinitionListHTMLRenderer(baseOpts...), 500),
		util.Prioritized(&blockRenderer{
			title:        title,
			headerOffset: r.opts.HeaderOffset,
			code:         r.code,
		}, 100),
	))
	return renderer.NewRenderer(htmlOpts...)
}
