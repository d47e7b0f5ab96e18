package markdown

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/dgallion1/docsite/internal/slug"
	"github.com/dgallion1/docsite/internal/toc"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	ghtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Class names the site script hooks into.
const (
	HelpBlockClass   = "help-block"
	HelpTriggerClass = "help-trigger"
)

type blockRenderer struct {
	title        string
	headerOffset int
	code         *highlighter
}

func (r *blockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindHeading, r.renderHeading)
	reg.Register(ast.KindParagraph, r.renderParagraph)
	reg.Register(ast.KindList, r.renderList)
	reg.Register(ast.KindFencedCodeBlock, r.renderCode)
	reg.Register(ast.KindCodeBlock, r.renderCode)
}

// HeadingOffset is the anchor offset for a heading level.
func HeadingOffset(base, level int) int {
	if level <= 2 {
		return base
	}
	return base * 4 / 5
}

func (r *blockRenderer) renderHeading(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Heading)
	if !entering {
		fmt.Fprintf(w, "</h%d>\n", n.Level)
		return ast.WalkContinue, nil
	}
	off := HeadingOffset(r.headerOffset, n.Level)
	fmt.Fprintf(w, "<h%d", n.Level)
	if id := slug.Make(toc.InlineText(n, source)); id != "" {
		fmt.Fprintf(w, ` id="%s"`, id)
	}
	fmt.Fprintf(w, ` class="anchor" style="padding-top:%dpx;margin-top:-%dpx">`, off, off)
	return ast.WalkContinue, nil
}

func (r *blockRenderer) renderParagraph(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	helped := !insideList(node)
	if entering {
		if helped {
			r.openHelp(w, blockText(node, source))
		}
		_, _ = w.WriteString("<p>")
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString("</p>\n")
	if helped {
		r.closeHelp(w)
	}
	return ast.WalkContinue, nil
}

func (r *blockRenderer) renderList(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.List)
	tag := "ul"
	if n.IsOrdered() {
		tag = "ol"
	}
	helped := !insideList(node)
	if entering {
		if helped {
			r.openHelp(w, blockText(node, source))
		}
		_ = w.WriteByte('<')
		_, _ = w.WriteString(tag)
		if n.IsOrdered() && n.Start != 1 {
			fmt.Fprintf(w, ` start="%d"`, n.Start)
		}
		if n.Attributes() != nil {
			ghtml.RenderAttributes(w, n, ghtml.ListAttributeFilter)
		}
		_, _ = w.WriteString(">\n")
		return ast.WalkContinue, nil
	}
	fmt.Fprintf(w, "</%s>\n", tag)
	if helped {
		r.closeHelp(w)
	}
	return ast.WalkContinue, nil
}

func (r *blockRenderer) renderCode(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	var lang string
	if fenced, ok := node.(*ast.FencedCodeBlock); ok {
		lang = string(fenced.Language(source))
	}
	var code bytes.Buffer
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		code.Write(seg.Value(source))
	}
	if err := r.code.write(w, code.String(), lang); err != nil {
		return ast.WalkStop, err
	}
	return ast.WalkSkipChildren, nil
}

func (r *blockRenderer) openHelp(w util.BufWriter, payload string) {
	fmt.Fprintf(w, `<div class="%s" data-help-title="%s" data-help-text="%s">`,
		HelpBlockClass, html.EscapeString(r.title), html.EscapeString(payload))
}

func (r *blockRenderer) closeHelp(w util.BufWriter) {
	fmt.Fprintf(w, `<button type="button" class="%s" aria-label="Ask about this">?</button></div>`+"\n", HelpTriggerClass)
}

// insideList reports whether node sits in a list item; nested blocks share
// the help trigger of the outermost list.
func insideList(node ast.Node) bool {
	for p := node.Parent(); p != nil; p = p.Parent() {
		if p.Kind() == ast.KindListItem {
			return true
		}
	}
	return false
}

// blockText flattens the inline text of a block, one line per child block.
func blockText(node ast.Node, source []byte) string {
	var lines []string
	var collect func(n ast.Node)
	collect = func(n ast.Node) {
		switch n.Kind() {
		case ast.KindParagraph, ast.KindTextBlock, ast.KindHeading:
			if t := toc.InlineText(n, source); t != "" {
				lines = append(lines, t)
			}
			return
		case ast.KindFencedCodeBlock, ast.KindCodeBlock:
			var buf bytes.Buffer
			segs := n.Lines()
			for i := 0; i < segs.Len(); i++ {
				seg := segs.At(i)
				buf.Write(seg.Value(source))
			}
			if t := strings.TrimSpace(buf.String()); t != "" {
				lines = append(lines, t)
			}
			return
		}
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			collect(c)
		}
	}
	collect(node)
	return strings.Join(lines, "\n")
}
