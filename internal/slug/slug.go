// Package slug turns heading text into URL-fragment identifiers. The same
// function produces heading ids at render time and link targets in the
// navigation, so its output must never depend on anything but its input.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Make lowercases s, folds accented letters to their base letter, and
// collapses every run of characters that is not a letter or digit into a
// single '-'. Leading and trailing separators are dropped.
//
//	Make("Getting Started!") == "getting-started"
func Make(s string) string {
	folded, _, err := transform.String(foldMarks(), s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingSep := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// foldMarks is built per call; transform.Chain keeps state.
func foldMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Fragment returns "#" + Make(s), or "" when s has no slug.
func Fragment(s string) string {
	id := Make(s)
	if id == "" {
		return ""
	}
	return "#" + id
}
