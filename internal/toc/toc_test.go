package toc

import (
	"fmt"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func parse(src string) (ast.Node, []byte) {
	b := []byte(src)
	return goldmark.New().Parser().Parse(text.NewReader(b)), b
}

func TestExtract_DocumentOrder(t *testing.T) {
	doc, src := parse(`# Intro

Some text.

## Setup

### Install

### Configure

## Usage
`)
	got := Extract(doc, src)
	want := []Heading{
		{1, "Intro"},
		{2, "Setup"},
		{3, "Install"},
		{3, "Configure"},
		{2, "Usage"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExtract_FormattingIgnored(t *testing.T) {
	doc, src := parse("## Hello *big* **bold** `world`\n\n### [Linked](http://example.com) title\n")
	got := Extract(doc, src)
	if len(got) != 2 {
		t.Fatalf("expected 2 headings, got %d", len(got))
	}
	if got[0].Title != "Hello big bold world" {
		t.Errorf("expected %q, got %q", "Hello big bold world", got[0].Title)
	}
	if got[1].Title != "Linked title" {
		t.Errorf("expected %q, got %q", "Linked title", got[1].Title)
	}
}

func TestExtract_NestedAndSetext(t *testing.T) {
	doc, src := parse("Top\n===\n\n> ## Quoted\n\nSub\n---\n")
	got := Extract(doc, src)
	want := []Heading{{1, "Top"}, {2, "Quoted"}, {2, "Sub"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExtract_EmptyHeading(t *testing.T) {
	doc, src := parse("#\n\n## Next\n")
	got := Extract(doc, src)
	if len(got) != 2 {
		t.Fatalf("expected 2 headings, got %d", len(got))
	}
	if got[0].Title != "" {
		t.Errorf("expected empty title, got %q", got[0].Title)
	}
}

func TestExtract_Idempotent(t *testing.T) {
	doc, src := parse("# A\n\n## B\n\ntext\n\n## C\n")
	first := Extract(doc, src)
	second := Extract(doc, src)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical sequences, got %v and %v", first, second)
	}
}

func TestExtract_NilDocument(t *testing.T) {
	if got := Extract(nil, nil); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func title(s string) *string { return &s }

func TestBuildTree_Example(t *testing.T) {
	root := BuildTree([]Heading{
		{1, "Intro"},
		{2, "Setup"},
		{3, "Install"},
		{3, "Configure"},
		{2, "Usage"},
	})
	want := &Node{Children: []*Node{
		{Title: title("Intro"), Children: []*Node{
			{Title: title("Setup"), Children: []*Node{
				{Title: title("Install"), Children: []*Node{}},
				{Title: title("Configure"), Children: []*Node{}},
			}},
			{Title: title("Usage"), Children: []*Node{}},
		}},
	}}
	if !reflect.DeepEqual(root, want) {
		t.Fatalf("tree mismatch:\n%s", dump(root))
	}
}

func TestBuildTree_SiblingTopLevels(t *testing.T) {
	root := BuildTree([]Heading{{1, "A"}, {2, "A1"}, {1, "B"}})
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 top-level nodes, got %d", len(root.Children))
	}
	if root.Children[1].TitleText() != "B" || len(root.Children[1].Children) != 0 {
		t.Errorf("expected childless B, got %s", dump(root))
	}
}

func TestBuildTree_LevelJumpUsesPlaceholder(t *testing.T) {
	root := BuildTree([]Heading{{1, "Intro"}, {3, "Deep"}})
	intro := root.Children[0]
	if len(intro.Children) != 1 {
		t.Fatalf("expected 1 child under Intro, got %d", len(intro.Children))
	}
	placeholder := intro.Children[0]
	if placeholder.Title != nil {
		t.Errorf("expected placeholder title nil, got %q", *placeholder.Title)
	}
	if len(placeholder.Children) != 1 || placeholder.Children[0].TitleText() != "Deep" {
		t.Errorf("expected Deep under placeholder, got %s", dump(root))
	}
}

func TestBuildTree_LeadingDeepHeading(t *testing.T) {
	root := BuildTree([]Heading{{3, "Orphan"}})
	n := root
	for depth := 1; depth <= 2; depth++ {
		if len(n.Children) != 1 || n.Children[0].Title != nil {
			t.Fatalf("expected placeholder at depth %d, got %s", depth, dump(root))
		}
		n = n.Children[0]
	}
	if len(n.Children) != 1 || n.Children[0].TitleText() != "Orphan" {
		t.Fatalf("expected Orphan at depth 3, got %s", dump(root))
	}
}

func TestBuildTree_EmptyInput(t *testing.T) {
	root := BuildTree(nil)
	if root.Title != nil || len(root.Children) != 0 {
		t.Errorf("expected empty root, got %s", dump(root))
	}
}

func TestBuildTree_Deterministic(t *testing.T) {
	hs := []Heading{{2, "x"}, {4, "y"}, {1, "z"}, {2, "w"}}
	if !reflect.DeepEqual(BuildTree(hs), BuildTree(hs)) {
		t.Error("expected identical trees for identical input")
	}
}

func TestBuildTree_FlattenRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for iter := 0; iter < 200; iter++ {
		n := rng.IntN(20)
		hs := make([]Heading, n)
		for i := range hs {
			hs[i] = Heading{Level: 1 + rng.IntN(5), Title: fmt.Sprintf("h%d-%d", iter, i)}
		}
		got := BuildTree(hs).Flatten()
		if len(hs) == 0 && len(got) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, hs) {
			t.Fatalf("iteration %d: expected %v, got %v", iter, hs, got)
		}
	}
}

func TestExtractThenBuild(t *testing.T) {
	doc, src := parse("# Intro\n## Setup\n### Install\n### Configure\n## Usage\n")
	root := BuildTree(Extract(doc, src))
	got := root.Flatten()
	want := []Heading{{1, "Intro"}, {2, "Setup"}, {3, "Install"}, {3, "Configure"}, {2, "Usage"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func dump(n *Node) string {
	var out string
	n.Walk(func(depth int, node *Node) {
		t := "<nil>"
		if node.Title != nil {
			t = *node.Title
		}
		out += fmt.Sprintf("%*s%s\n", depth*2, "", t)
	})
	return out
}
