// Package toc extracts headings from a parsed markdown document and nests
// them into the outline shown in the reference side navigation.
package toc

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
)

// Heading is a flat heading record in document order.
type Heading struct {
	Level int    `json:"level"`
	Title string `json:"title"`
}

// Extract walks doc in pre-order and returns one Heading per heading node.
// The title is the concatenated inline text under the heading; formatting
// nodes contribute only their text. doc is not modified.
func Extract(doc ast.Node, source []byte) []Heading {
	if doc == nil {
		return nil
	}
	var headings []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		headings = append(headings, Heading{
			Level: h.Level,
			Title: InlineText(h, source),
		})
		return ast.WalkSkipChildren, nil
	})
	return headings
}

// InlineText returns the text content of every inline descendant of n.
func InlineText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	writeInlineText(&buf, n, source)
	return string(bytes.TrimSpace(buf.Bytes()))
}

func writeInlineText(buf *bytes.Buffer, n ast.Node, source []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(node.Value)
		case *ast.AutoLink:
			buf.Write(node.Label(source))
		case *ast.RawHTML:
			// Inline HTML carries no title text.
		default:
			writeInlineText(buf, c, source)
		}
	}
}
