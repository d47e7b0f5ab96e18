package source

import (
	"bufio"
	"io"
	"strings"
)

// TextConverter turns plain text into markdown paragraphs. Blank lines
// separate paragraphs; lines that would start a markdown block are escaped.
type TextConverter struct{}

func (c *TextConverter) Convert(r io.Reader, filename string) ([]byte, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(escapeLine(strings.TrimSpace(line)))
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return joinBlocks(paragraphs), nil
}

// escapeLine keeps plain text from being read as a heading, list, quote or
// fence.
func escapeLine(line string) string {
	if line == "" {
		return line
	}
	switch line[0] {
	case '#', '>', '-', '+', '*', '=', '`', '~', '|':
		return `\` + line
	}
	return line
}
