package dom

import (
	"testing"

	"github.com/dgallion1/docsite/internal/markdown"
)

func TestIndex_RenderedDocument(t *testing.T) {
	r := markdown.New(markdown.Options{})
	src := []byte("# Getting Started!\n\nHello *world*.\n\n## Install\n\n- one\n- two\n")
	out, err := r.RenderBytes(r.Parse(src), src, "Platform")
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	a, err := Index(out)
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	if len(a.IDs) != 2 {
		t.Fatalf("expected 2 ids, got %+v", a.IDs)
	}
	if a.IDs[0].ID != "getting-started" || a.IDs[0].Level != 1 || a.IDs[0].Text != "Getting Started!" {
		t.Errorf("unexpected first anchor %+v", a.IDs[0])
	}
	if a.IDs[1].ID != "install" || a.IDs[1].Tag != "h2" {
		t.Errorf("unexpected second anchor %+v", a.IDs[1])
	}

	if len(a.Help) != 2 {
		t.Fatalf("expected 2 help blocks, got %+v", a.Help)
	}
	if a.Help[0] != (HelpBlock{Title: "Platform", Text: "Hello world."}) {
		t.Errorf("unexpected paragraph payload %+v", a.Help[0])
	}
	if a.Help[1].Text != "one\ntwo" {
		t.Errorf("expected list payload one\\ntwo, got %q", a.Help[1].Text)
	}
}

func TestIndex_HasAndGet(t *testing.T) {
	a, err := Index([]byte(`<p id="a">x</p><div><span id="b">y</span><em id="a">dup</em></div>`))
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	if !a.Has("a") || !a.Has("#b") {
		t.Error("expected a and b to be indexed")
	}
	if a.Has("c") || a.Has("") {
		t.Error("expected unknown ids to be missing")
	}
	got, ok := a.Get("a")
	if !ok || got.Text != "x" {
		t.Errorf("expected first element to win, got %+v", got)
	}
	if len(a.IDs) != 2 {
		t.Errorf("expected 2 ids, got %d", len(a.IDs))
	}
}

func TestIndex_Empty(t *testing.T) {
	a, err := Index(nil)
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	if len(a.IDs) != 0 || len(a.Help) != 0 {
		t.Errorf("expected empty index, got %+v", a)
	}
	var nilIndex *Anchors
	if nilIndex.Has("x") {
		t.Error("expected nil index to have nothing")
	}
}

func TestIndex_SingleHeading(t *testing.T) {
	a, err := Index([]byte(`<h2 id="setup">Setup</h2>`))
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	got, ok := a.Get("setup")
	if !ok {
		t.Fatal("expected setup to be indexed")
	}
	if got.Tag != "h2" || got.Level != 2 || got.Text != "Setup" {
		t.Errorf("unexpected anchor %+v", got)
	}
}
