// Package source converts reference sources of any supported format into
// markdown, the single input format of the document store.
package source

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Converter turns raw file bytes into markdown.
type Converter interface {
	Convert(r io.Reader, filename string) ([]byte, error)
}

// SupportedExtensions lists file extensions the store can load.
var SupportedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
	".docx":     true,
	".pdf":      true,
}

// Options tunes converters that shell out or fall back.
type Options struct {
	PDFFallbackPdftotext bool
}

// ForFile returns the converter for a filename.
func ForFile(filename string, opts Options) (Converter, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".md", ".markdown":
		return &MarkdownConverter{}, nil
	case ".txt":
		return &TextConverter{}, nil
	case ".docx":
		return &DOCXConverter{}, nil
	case ".pdf":
		return &PDFConverter{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Stem returns filename without directory and extension.
func Stem(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// MarkdownConverter passes markdown through unchanged.
type MarkdownConverter struct{}

func (c *MarkdownConverter) Convert(r io.Reader, filename string) ([]byte, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	return src, nil
}

// heading renders a markdown ATX heading line.
func heading(level int, title string) string {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return strings.Repeat("#", level) + " " + title
}

// joinBlocks joins markdown blocks with blank lines and a final newline.
func joinBlocks(blocks []string) []byte {
	if len(blocks) == 0 {
		return []byte{}
	}
	return []byte(strings.Join(blocks, "\n\n") + "\n")
}
