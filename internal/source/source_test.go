package source

import (
	"strings"
	"testing"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		wantErr  bool
	}{
		{"platform.md", false},
		{"notes.MARKDOWN", false},
		{"readme.txt", false},
		{"manual.docx", false},
		{"manual.pdf", false},
		{"data.csv", true},
		{"noext", true},
	}
	for _, tt := range tests {
		_, err := ForFile(tt.filename, Options{})
		if (err != nil) != tt.wantErr {
			t.Errorf("ForFile(%q): expected error=%v, got %v", tt.filename, tt.wantErr, err)
		}
		if IsSupportedExtension(tt.filename) == tt.wantErr {
			t.Errorf("IsSupportedExtension(%q): expected %v", tt.filename, !tt.wantErr)
		}
	}
}

func TestStem(t *testing.T) {
	tests := map[string]string{
		"platform.md":          "platform",
		"dir/simple-api.md":    "simple-api",
		"relay.api.markdown":   "relay.api",
		"/abs/path/manual.pdf": "manual",
	}
	for in, want := range tests {
		if got := Stem(in); got != want {
			t.Errorf("Stem(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestMarkdownConverter_PassThrough(t *testing.T) {
	in := "# Title\n\nBody.\n"
	out, err := (&MarkdownConverter{}).Convert(strings.NewReader(in), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != in {
		t.Errorf("expected %q, got %q", in, string(out))
	}
}

func TestTextConverter_Paragraphs(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\n\n\nSecond paragraph.\n   \nThird paragraph."
	out, err := (&TextConverter{}).Convert(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph.\n"
	if string(out) != want {
		t.Errorf("expected %q, got %q", want, string(out))
	}
}

func TestTextConverter_EscapesMarkdownStarts(t *testing.T) {
	out, err := (&TextConverter{}).Convert(strings.NewReader("# not a heading\n\n- not a list"), "x.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "\\# not a heading\n\n\\- not a list\n"
	if string(out) != want {
		t.Errorf("expected %q, got %q", want, string(out))
	}
}

func TestTextConverter_EmptyInput(t *testing.T) {
	out, err := (&TextConverter{}).Convert(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty output, got %q", string(out))
	}
}

func TestStyleHeadingLevel(t *testing.T) {
	tests := map[string]int{
		"Heading1":  1,
		"heading 2": 2,
		"HEADING6":  6,
		"Heading7":  0,
		"Heading":   0,
		"Normal":    0,
		"Heading10": 0,
		"":          0,
	}
	for style, want := range tests {
		if got := styleHeadingLevel(style); got != want {
			t.Errorf("styleHeadingLevel(%q): expected %d, got %d", style, want, got)
		}
	}
}

func TestPagesToMarkdown(t *testing.T) {
	out := pagesToMarkdown([]string{"Intro text.\n\nMore.", "   ", "Last page."})
	want := "## Page 1\n\nIntro text.\n\nMore.\n\n## Page 3\n\nLast page.\n"
	if string(out) != want {
		t.Errorf("expected %q, got %q", want, string(out))
	}
}

func TestHeadingClampsLevel(t *testing.T) {
	if got := heading(0, "x"); got != "# x" {
		t.Errorf("expected %q, got %q", "# x", got)
	}
	if got := heading(9, "x"); got != "###### x" {
		t.Errorf("expected %q, got %q", "###### x", got)
	}
}
