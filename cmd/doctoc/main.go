// Command doctoc prints the outline, anchors or rendered HTML of a
// reference document.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docsite/internal/content"
	"github.com/dgallion1/docsite/internal/dom"
	"github.com/dgallion1/docsite/internal/markdown"
	"github.com/dgallion1/docsite/internal/slug"
	"github.com/dgallion1/docsite/internal/source"
	"github.com/dgallion1/docsite/internal/toc"
	"github.com/urfave/cli/v2"
)

func loadDocument(c *cli.Context) (*content.Document, *markdown.Renderer, error) {
	if !c.Args().Present() {
		return nil, nil, fmt.Errorf("no input file provided")
	}
	name := c.Args().First()
	raw, err := os.ReadFile(name)
	if err != nil {
		return nil, nil, err
	}
	r := markdown.New(markdown.Options{CodeStyle: c.String("style"), CodeClasses: true})
	loader := &content.Loader{
		Renderer: r,
		Source:   source.Options{PDFFallbackPdftotext: c.Bool("pdftotext")},
		Log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	doc, err := loader.Parse(filepath.Base(name), raw)
	if err != nil {
		return nil, nil, err
	}
	return doc, r, nil
}

// writeOutline prints the outline indented two spaces per level, down to
// depth levels. Placeholder nodes print as "-".
func writeOutline(w io.Writer, root *toc.Node, depth int) {
	root.Walk(func(d int, n *toc.Node) {
		if depth > 0 && d > depth {
			return
		}
		title := "-"
		if n.Title != nil {
			title = *n.Title + "  " + slug.Fragment(*n.Title)
		}
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", d-1), title)
	})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func outline(c *cli.Context) error {
	doc, _, err := loadDocument(c)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return writeJSON(c.App.Writer, map[string]any{
			"document": doc.Key,
			"title":    doc.Title,
			"headings": doc.Headings,
			"outline":  doc.Outline,
		})
	}
	writeOutline(c.App.Writer, doc.Outline, c.Int("depth"))
	return nil
}

func anchors(c *cli.Context) error {
	doc, _, err := loadDocument(c)
	if err != nil {
		return err
	}
	a, err := dom.Index(doc.HTML)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return writeJSON(c.App.Writer, a)
	}
	for _, id := range a.IDs {
		fmt.Fprintf(c.App.Writer, "/reference/%s#%s\t%s\n", doc.Key, id.ID, id.Text)
	}
	return nil
}

func render(c *cli.Context) error {
	doc, r, err := loadDocument(c)
	if err != nil {
		return err
	}
	out := c.App.Writer
	if name := c.String("output"); name != "" {
		f, err := os.Create(name)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	if c.Bool("css") {
		fmt.Fprintln(out, "<style>")
		if err := r.WriteCodeCSS(out); err != nil {
			return err
		}
		fmt.Fprintln(out, "</style>")
	}
	_, err = out.Write(doc.HTML)
	return err
}

func newApp() *cli.App {
	docFlags := []cli.Flag{
		&cli.StringFlag{
			Name:  "style",
			Value: "github",
			Usage: "chroma `STYLE` for code blocks",
		},
		&cli.BoolFlag{
			Name:  "pdftotext",
			Value: true,
			Usage: "fall back to pdftotext for PDF files without a text layer",
		},
	}
	return &cli.App{
		Name:      "doctoc",
		Usage:     "inspect reference documents",
		UsageText: "doctoc COMMAND [options] FILE",
		Commands: []*cli.Command{
			{
				Name:      "outline",
				Usage:     "print the heading outline",
				ArgsUsage: "FILE",
				Action:    outline,
				Flags: append([]cli.Flag{
					&cli.IntFlag{Name: "depth", Aliases: []string{"d"}, Usage: "limit to `N` levels (0 is all)"},
					&cli.BoolFlag{Name: "json", Usage: "print headings and outline as JSON"},
				}, docFlags...),
			},
			{
				Name:      "anchors",
				Usage:     "print the element ids of the rendered document",
				ArgsUsage: "FILE",
				Action:    anchors,
				Flags: append([]cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "print ids and help payloads as JSON"},
				}, docFlags...),
			},
			{
				Name:      "render",
				Usage:     "render the document to an HTML fragment",
				ArgsUsage: "FILE",
				Action:    render,
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write html to `FILE`"},
					&cli.BoolFlag{Name: "css", Usage: "prepend the code highlighting stylesheet"},
				}, docFlags...),
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "doctoc:", err)
		os.Exit(1)
	}
}
