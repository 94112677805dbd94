package pdf

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"rsspress/internal/layout"
)

func renderToFile(t *testing.T, r *Renderer, blocks []layout.Block) []byte {
	t.Helper()
	out := filepath.Join(t.TempDir(), "out.pdf")
	if err := r.Render(context.Background(), blocks, out); err != nil {
		t.Fatalf("Render: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(b) == 0 {
		t.Fatalf("empty PDF")
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Fatalf("output is not a PDF: %q", b[:8])
	}
	return b
}

func TestRender_AllBlockKinds(t *testing.T) {
	blocks := []layout.Block{
		{Kind: layout.BlockTitle, Style: layout.StyleTitle, Text: "RSS Articles"},
		{Kind: layout.BlockSpacer, Pts: 20},
		{Kind: layout.BlockParagraph, Style: layout.StyleMeta, Text: "Feed: https://example.com/feed"},
		{Kind: layout.BlockPageBreak},
		{Kind: layout.BlockSubtitle, Style: layout.StyleSubtitle, Text: "An Article"},
		{Kind: layout.BlockSectionHeading, Style: layout.StyleSection, Text: "A Section"},
		{Kind: layout.BlockParagraph, Style: layout.StyleContent, Text: "Body text flowing across the page."},
		{Kind: layout.BlockListItem, Style: layout.StyleList, Text: "first item"},
		{Kind: layout.BlockQuote, Style: layout.StyleQuote, Text: "quoted words"},
		{Kind: layout.BlockCodeBlock, Style: layout.StyleCode, Text: "x := 1\ny := 2"},
	}
	r := &Renderer{}
	renderToFile(t, r, blocks)
}

func TestRender_ImageWithoutFetcherUsesPlaceholder(t *testing.T) {
	blocks := []layout.Block{
		{Kind: layout.BlockImage, Style: layout.StyleImage, Alt: "trend chart", URL: "https://example.com/x.png"},
	}
	r := &Renderer{}
	renderToFile(t, r, blocks)
}

func TestRender_MissingFontsDirFallsBack(t *testing.T) {
	blocks := []layout.Block{
		{Kind: layout.BlockParagraph, Style: layout.StyleContent, Text: "fallback fonts"},
	}
	r := &Renderer{FontsDir: filepath.Join(t.TempDir(), "no-such-dir")}
	renderToFile(t, r, blocks)
}

func TestRender_ManyBlocksPaginate(t *testing.T) {
	var blocks []layout.Block
	for i := 0; i < 120; i++ {
		blocks = append(blocks,
			layout.Block{Kind: layout.BlockParagraph, Style: layout.StyleContent, Text: "A paragraph repeated enough times to spill onto later pages."},
			layout.Block{Kind: layout.BlockSpacer, Pts: 8})
	}
	r := &Renderer{}
	b := renderToFile(t, r, blocks)
	// Multiple pages mean multiple page objects in the file.
	if n := bytes.Count(b, []byte("/Type /Page")); n < 2 {
		t.Fatalf("expected multi-page output, found %d page markers", n)
	}
}
