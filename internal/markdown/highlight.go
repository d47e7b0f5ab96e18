package markdown

import (
	"fmt"
	"html"
	"io"

	"github.com/alecthomas/chroma/v2"
	hlhtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

type highlighter struct {
	style     *chroma.Style
	formatter *hlhtml.Formatter
}

func newHighlighter(styleName string, classes bool) *highlighter {
	if styleName == "" {
		styleName = "github"
	}
	return &highlighter{
		style: styles.Get(styleName),
		formatter: hlhtml.New(
			hlhtml.Standalone(false),
			hlhtml.PreventSurroundingPre(true),
			hlhtml.WithClasses(classes),
		),
	}
}

// lexer picks a lexer by declared language, then by content analysis.
func lexer(lang, code string) chroma.Lexer {
	var l chroma.Lexer
	if lang != "" {
		l = lexers.Get(lang)
	}
	if l == nil {
		l = lexers.Analyse(code)
	}
	if l == nil {
		l = lexers.Fallback
	}
	return chroma.Coalesce(l)
}

func (h *highlighter) write(w io.Writer, code, lang string) error {
	it, err := lexer(lang, code).Tokenise(nil, code)
	if err != nil {
		return fmt.Errorf("tokenise %q code block: %w", lang, err)
	}
	if lang != "" {
		fmt.Fprintf(w, `<pre class="chroma" data-lang="%s"><code>`, html.EscapeString(lang))
	} else {
		io.WriteString(w, `<pre class="chroma"><code>`)
	}
	if err := h.formatter.Format(w, h.style, it); err != nil {
		return fmt.Errorf("format code block: %w", err)
	}
	_, err = io.WriteString(w, "</code></pre>\n")
	return err
}

func (h *highlighter) writeCSS(w io.Writer) error {
	return h.formatter.WriteCSS(w, h.style)
}
