package layout

import (
	"strings"
	"testing"
	"time"
)

var testMeta = DocumentMeta{
	FeedURL:   "https://example.com/feed",
	Generated: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
}

func kinds(blocks []Block) []BlockKind {
	out := make([]BlockKind, len(blocks))
	for i, b := range blocks {
		out[i] = b.Kind
	}
	return out
}

func countKind(blocks []Block, k BlockKind) int {
	n := 0
	for _, b := range blocks {
		if b.Kind == k {
			n++
		}
	}
	return n
}

func TestAssemble_TitlePage(t *testing.T) {
	blocks := Assemble(testMeta, []ArticleItem{{Title: "Post", Link: "https://example.com/post", Text: "Body text here"}})
	if blocks[0].Kind != BlockTitle || blocks[0].Text != "RSS Articles" {
		t.Fatalf("first block = %+v", blocks[0])
	}
	var sawFeed, sawGenerated, sawCount bool
	for _, b := range blocks[:6] {
		switch {
		case strings.HasPrefix(b.Text, "Feed: "):
			sawFeed = true
		case strings.HasPrefix(b.Text, "Generated: "):
			sawGenerated = true
		case b.Text == "Articles: 1":
			sawCount = true
		}
	}
	if !sawFeed || !sawGenerated || !sawCount {
		t.Fatalf("title page incomplete: %+v", blocks[:6])
	}
	if blocks[5].Kind != BlockPageBreak {
		t.Fatalf("title page must end with a page break, got %v", kinds(blocks[:7]))
	}
}

func TestAssemble_ArticleStartsWithSubtitle(t *testing.T) {
	blocks := Assemble(testMeta, []ArticleItem{{
		Title:     "My Post",
		Author:    "Jane",
		Published: "Mon, 01 Apr 2024",
		Link:      "https://example.com/post",
		Text:      "Paragraph one.",
	}})
	// Skip title page: article section begins right after the first page break.
	i := 0
	for blocks[i].Kind != BlockPageBreak {
		i++
	}
	article := blocks[i+1:]
	if article[0].Kind != BlockSubtitle || article[0].Text != "My Post" {
		t.Fatalf("article must start with its subtitle, got %+v", article[0])
	}
	var texts []string
	for _, b := range article {
		texts = append(texts, b.Text)
	}
	joined := strings.Join(texts, "\n")
	for _, want := range []string{"By: Jane", "Published: Mon, 01 Apr 2024", "URL: https://example.com/post"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("missing metadata %q in %q", want, joined)
		}
	}
}

func TestAssemble_PageBreakBetweenArticlesNotAfterLast(t *testing.T) {
	blocks := Assemble(testMeta, []ArticleItem{
		{Title: "A", Link: "l", Text: "one"},
		{Title: "B", Link: "l", Text: "two"},
	})
	if countKind(blocks, BlockPageBreak) != 2 { // title page + between articles
		t.Fatalf("expected 2 page breaks, got %d: %v", countKind(blocks, BlockPageBreak), kinds(blocks))
	}
	if blocks[len(blocks)-1].Kind == BlockPageBreak {
		t.Fatalf("no page break after the last article")
	}
}

func TestAssemble_SingleArticleNoTrailingPageBreak(t *testing.T) {
	blocks := Assemble(testMeta, []ArticleItem{{Title: "Only", Link: "l", Text: "body"}})
	if countKind(blocks, BlockPageBreak) != 1 {
		t.Fatalf("expected only the title-page break, got %v", kinds(blocks))
	}
	if blocks[len(blocks)-1].Kind == BlockPageBreak {
		t.Fatalf("no page break after the last article")
	}
}

func TestAssemble_UnavailableContentPlaceholder(t *testing.T) {
	blocks := Assemble(testMeta, []ArticleItem{{
		Title:       "Broken",
		Link:        "https://example.com/broken",
		Unavailable: true,
		Images:      []ImageRef{{URL: "https://example.com/x.png", Alt: "x"}},
	}})
	var sawPlaceholder bool
	for _, b := range blocks {
		if b.Kind == BlockImage {
			t.Fatalf("unavailable article must not emit image blocks")
		}
		if b.Text == "Content could not be extracted." {
			sawPlaceholder = true
		}
	}
	if !sawPlaceholder {
		t.Fatalf("placeholder paragraph missing: %v", kinds(blocks))
	}
}

func TestAssemble_CodeBlockBuffering(t *testing.T) {
	item := ArticleItem{
		Title: "Code",
		Link:  "l",
		Text:  "Intro paragraph.\nCODE BLOCK:\nx := 1\ny := 2\n\nAfter code.",
	}
	blocks := Assemble(testMeta, []ArticleItem{item})
	var code *Block
	for i := range blocks {
		if blocks[i].Kind == BlockCodeBlock {
			if code != nil {
				t.Fatalf("expected a single code block")
			}
			code = &blocks[i]
		}
	}
	if code == nil {
		t.Fatalf("code block missing: %v", kinds(blocks))
	}
	if code.Text != "x := 1\ny := 2" {
		t.Fatalf("code body = %q", code.Text)
	}
}

func TestAssemble_HeadingTiers(t *testing.T) {
	item := ArticleItem{Title: "T", Link: "l", Text: "## Subtitle Here\n### Section Here"}
	blocks := Assemble(testMeta, []ArticleItem{item})
	var sawSubtitle, sawSection bool
	for _, b := range blocks {
		if b.Kind == BlockSubtitle && b.Text == "Subtitle Here" {
			sawSubtitle = true
		}
		if b.Kind == BlockSectionHeading && b.Text == "Section Here" {
			sawSection = true
		}
	}
	if !sawSubtitle || !sawSection {
		t.Fatalf("heading tiers wrong: %+v", blocks)
	}
}

func TestAssemble_ImageInterleaving(t *testing.T) {
	item := ArticleItem{
		Title: "Pics",
		Link:  "l",
		Text:  "see the figure below for 2024 data\nand then an unrelated line follows",
		Images: []ImageRef{
			{URL: "https://example.com/1.png", Alt: "trend plot"},
			{URL: "https://example.com/2.png", Alt: "second"},
		},
	}
	blocks := Assemble(testMeta, []ArticleItem{item})
	var imgs []Block
	for _, b := range blocks {
		if b.Kind == BlockImage {
			imgs = append(imgs, b)
		}
	}
	if len(imgs) != 2 {
		t.Fatalf("expected both images emitted, got %d", len(imgs))
	}
	// First image is placed at the figure-mentioning line, in discovery
	// order; the second is appended at the end of the article.
	if imgs[0].URL != "https://example.com/1.png" || imgs[1].URL != "https://example.com/2.png" {
		t.Fatalf("images out of order: %+v", imgs)
	}
	last := blocks[len(blocks)-1]
	if last.Kind != BlockImage || last.URL != "https://example.com/2.png" {
		t.Fatalf("leftover image must end the article, got %+v", last)
	}
}

func TestAssemble_MarkdownImageLine(t *testing.T) {
	item := ArticleItem{Title: "T", Link: "l", Text: "![inline pic](https://example.com/p.png)"}
	blocks := Assemble(testMeta, []ArticleItem{item})
	var saw bool
	for _, b := range blocks {
		if b.Kind == BlockImage && b.Alt == "inline pic" && b.URL == "https://example.com/p.png" {
			saw = true
		}
	}
	if !saw {
		t.Fatalf("markdown image line not emitted: %+v", blocks)
	}
}
