package layout

import (
	"fmt"
	"strings"
	"time"
)

// DocumentMeta describes the title page.
type DocumentMeta struct {
	FeedURL   string
	Generated time.Time
}

// ImageRef is one stored content image awaiting placement.
type ImageRef struct {
	URL string
	Alt string
}

// ArticleItem pairs a feed entry's metadata with its extracted content.
// Unavailable marks articles whose page could not be fetched or parsed.
type ArticleItem struct {
	Title       string
	Author      string
	Published   string
	Link        string
	Text        string
	Images      []ImageRef
	Unavailable bool
}

// unavailableText is emitted in place of content when extraction failed.
const unavailableText = "Content could not be extracted."

// imageCueWords trigger opportunistic image placement when they appear in a
// paragraph line.
var imageCueWords = []string{"image", "figure", "chart", "graph"}

// Assemble converts the articles into the final ordered block sequence:
// title page, then one page-break-separated section per article. No page
// break follows the last article.
func Assemble(meta DocumentMeta, items []ArticleItem) []Block {
	blocks := []Block{
		{Kind: BlockTitle, Style: StyleTitle, Text: "RSS Articles"},
		{Kind: BlockSpacer, Pts: 20},
		{Kind: BlockParagraph, Style: StyleMeta, Text: "Feed: " + meta.FeedURL},
		{Kind: BlockParagraph, Style: StyleMeta, Text: "Generated: " + meta.Generated.Format("2006-01-02 15:04")},
		{Kind: BlockParagraph, Style: StyleMeta, Text: fmt.Sprintf("Articles: %d", len(items))},
		{Kind: BlockPageBreak},
	}
	for i, item := range items {
		blocks = append(blocks, articleBlocks(item)...)
		if i < len(items)-1 {
			blocks = append(blocks, Block{Kind: BlockPageBreak})
		}
	}
	return blocks
}

// articleBlocks emits one article section: subtitle, metadata, then the
// classified content stream with images interleaved.
func articleBlocks(item ArticleItem) []Block {
	blocks := []Block{
		{Kind: BlockSubtitle, Style: StyleSubtitle, Text: item.Title},
		{Kind: BlockSpacer, Pts: 8},
	}
	if item.Author != "" {
		blocks = append(blocks, Block{Kind: BlockParagraph, Style: StyleMeta, Text: "By: " + item.Author})
	}
	if item.Published != "" {
		blocks = append(blocks, Block{Kind: BlockParagraph, Style: StyleMeta, Text: "Published: " + item.Published})
	}
	blocks = append(blocks,
		Block{Kind: BlockParagraph, Style: StyleMeta, Text: "URL: " + item.Link},
		Block{Kind: BlockSpacer, Pts: 12},
	)
	if item.Unavailable {
		return append(blocks, Block{Kind: BlockParagraph, Style: StyleContent, Text: unavailableText})
	}
	return append(blocks, contentBlocks(item)...)
}

func contentBlocks(item ArticleItem) []Block {
	var blocks []Block
	var code []string
	inCode := false
	imageIdx := 0

	flushCode := func() {
		if len(code) > 0 {
			blocks = append(blocks, Block{Kind: BlockCodeBlock, Style: StyleCode, Text: strings.Join(code, "\n")})
			code = code[:0]
		}
		inCode = false
	}

	for _, raw := range strings.Split(item.Text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			if inCode {
				flushCode()
			}
			continue
		}
		if inCode {
			code = append(code, line)
			continue
		}
		cl := Classify(line)
		switch cl.Kind {
		case LineCodeBlockMarker:
			inCode = true
		case LineHeading:
			if HeadingTier(cl.Level) == TierSubtitle {
				blocks = append(blocks, Block{Kind: BlockSubtitle, Style: StyleSubtitle, Text: cl.Text})
			} else {
				blocks = append(blocks, Block{Kind: BlockSectionHeading, Style: StyleSection, Text: cl.Text})
			}
			blocks = append(blocks, Block{Kind: BlockSpacer, Pts: 8})
		case LineQuote:
			blocks = append(blocks,
				Block{Kind: BlockQuote, Style: StyleQuote, Text: cl.Text},
				Block{Kind: BlockSpacer, Pts: 8})
		case LineListItem:
			blocks = append(blocks, Block{Kind: BlockListItem, Style: StyleList, Text: cl.Text})
		case LineImageRef:
			blocks = append(blocks, Block{Kind: BlockImage, Style: StyleImage, Alt: cl.Alt, URL: cl.URL})
		default:
			if imageIdx < len(item.Images) && mentionsImage(line, item.Images) {
				img := item.Images[imageIdx]
				blocks = append(blocks, Block{Kind: BlockImage, Style: StyleImage, Alt: img.Alt, URL: img.URL})
				imageIdx++
				continue
			}
			blocks = append(blocks,
				Block{Kind: BlockParagraph, Style: StyleContent, Text: cl.Text},
				Block{Kind: BlockSpacer, Pts: 8})
		}
	}
	flushCode()

	// Images never matched to a line are appended in discovery order.
	for ; imageIdx < len(item.Images); imageIdx++ {
		img := item.Images[imageIdx]
		blocks = append(blocks, Block{Kind: BlockImage, Style: StyleImage, Alt: img.Alt, URL: img.URL})
	}
	return blocks
}

// mentionsImage reports whether a paragraph line references an image: any
// stored alt text appearing verbatim, or a generic image-indicating word.
func mentionsImage(line string, imgs []ImageRef) bool {
	lower := strings.ToLower(line)
	for _, img := range imgs {
		if img.Alt != "" && strings.Contains(lower, strings.ToLower(img.Alt)) {
			return true
		}
	}
	for _, w := range imageCueWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
