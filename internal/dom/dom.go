// Package dom reads anchors and help payloads back out of rendered
// document HTML.
package dom

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Help block attributes written by the markdown renderer.
const (
	helpBlockClass = "help-block"
	helpTitleAttr  = "data-help-title"
	helpTextAttr   = "data-help-text"
)

// Anchor is an element carrying an id.
type Anchor struct {
	ID    string `json:"id"`
	Tag   string `json:"tag"`
	Level int    `json:"level,omitempty"`
	Text  string `json:"text"`
}

// HelpBlock is the payload of one help affordance.
type HelpBlock struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Anchors is the index of one rendered document.
type Anchors struct {
	IDs  []Anchor    `json:"ids"`
	Help []HelpBlock `json:"help"`

	byID map[string]int
}

// Has reports whether id is an element id in the document. A leading '#'
// is ignored.
func (a *Anchors) Has(id string) bool {
	if a == nil {
		return false
	}
	_, ok := a.byID[strings.TrimPrefix(id, "#")]
	return ok
}

// Get returns the anchor for id.
func (a *Anchors) Get(id string) (Anchor, bool) {
	if a == nil {
		return Anchor{}, false
	}
	i, ok := a.byID[strings.TrimPrefix(id, "#")]
	if !ok {
		return Anchor{}, false
	}
	return a.IDs[i], true
}

// Index parses an HTML fragment and records ids in document order. The
// first element wins when an id repeats.
func Index(src []byte) (*Anchors, error) {
	nodes, err := html.ParseFragment(bytes.NewReader(src), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	a := &Anchors{IDs: []Anchor{}, Help: []HelpBlock{}, byID: map[string]int{}}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if id := attr(n, "id"); id != "" {
				if _, dup := a.byID[id]; !dup {
					a.byID[id] = len(a.IDs)
					a.IDs = append(a.IDs, Anchor{
						ID:    id,
						Tag:   n.Data,
						Level: headingLevel(n.Data),
						Text:  textContent(n),
					})
				}
			}
			if hasClass(n, helpBlockClass) {
				a.Help = append(a.Help, HelpBlock{
					Title: attr(n, helpTitleAttr),
					Text:  attr(n, helpTextAttr),
				})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return a, nil
}

func attr(n *html.Node, key string) string {
	for _, at := range n.Attr {
		if at.Key == key {
			return at.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}
