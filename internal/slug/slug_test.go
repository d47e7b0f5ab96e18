package slug

import "testing"

func TestMake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Getting Started!", "getting-started"},
		{"Intro", "intro"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"Café Déjà vu", "cafe-deja-vu"},
		{"API v2.1 (beta)", "api-v2-1-beta"},
		{"snake_case and kebab-case", "snake-case-and-kebab-case"},
		{"multiple   spaces\tand\ttabs", "multiple-spaces-and-tabs"},
		{"!!!", ""},
		{"", ""},
		{"Über Größe", "uber-große"},
		{"日本語 見出し", "日本語-見出し"},
	}
	for _, tt := range tests {
		if got := Make(tt.in); got != tt.want {
			t.Errorf("Make(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestMake_Stable(t *testing.T) {
	inputs := []string{"Getting Started!", "Café", "A  B", "x/y/z"}
	for _, in := range inputs {
		first := Make(in)
		for i := 0; i < 5; i++ {
			if got := Make(in); got != first {
				t.Fatalf("Make(%q) changed between calls: %q then %q", in, first, got)
			}
		}
	}
}

func TestFragment(t *testing.T) {
	if got := Fragment("Getting Started!"); got != "#getting-started" {
		t.Errorf("expected %q, got %q", "#getting-started", got)
	}
	if got := Fragment("?"); got != "" {
		t.Errorf("expected empty fragment, got %q", got)
	}
}
