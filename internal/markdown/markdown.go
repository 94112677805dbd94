// Package markdown converts article HTML into a cleaned, markdown-free
// text representation that keeps light structural markers (headings, list
// prefixes, image references, CODE BLOCK sections) for layout.
package markdown

import (
	"regexp"
	"strings"

	htmlmd "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"rsspress/internal/normalize"
)

// keepAttrs is the attribute allow-list applied before conversion; anything
// else (class, style, id, data-*) confuses the converter or leaks styling.
var keepAttrs = map[string]bool{
	"href":  true,
	"src":   true,
	"alt":   true,
	"title": true,
}

var converter = newConverter()

func newConverter() *htmlmd.Converter {
	conv := htmlmd.NewConverter("", true, nil)
	conv.Remove("script", "style", "noscript")
	return conv
}

var (
	fenceRe      = regexp.MustCompile("(?s)```(?:\\w+)?\\n(.*?)```")
	boldRe       = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe     = regexp.MustCompile(`\*(.*?)\*`)
	underscoreRe = regexp.MustCompile(`_(.*?)_`)
	inlineCodeRe = regexp.MustCompile("`(.*?)`")
	// The leading (^|[^!]) keeps image syntax ![alt](url) intact while
	// unwrapping ordinary links to their text.
	linkRe       = regexp.MustCompile(`(^|[^!])\[([^\]]*)\]\([^)]*\)`)
	listMarkerRe = regexp.MustCompile(`(?m)^[-*•]\s*`)
	numMarkerRe  = regexp.MustCompile(`(?m)^\d+\.\s*`)
	quoteRe      = regexp.MustCompile(`(?m)^>\s*`)
	blankRunsRe  = regexp.MustCompile(`\n\s*\n`)
	spaceRunsRe  = regexp.MustCompile(`[ \t]+`)
	tagRe        = regexp.MustCompile(`<[^>]+>`)
)

// CleanHTML converts an HTML fragment to cleaned text. Script, style and
// noscript subtrees are dropped and all attributes outside the allow-list
// are stripped before conversion. Any parse or conversion failure falls
// back to crude tag stripping; this function never fails.
func CleanHTML(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return stripTags(input)
	}
	doc.Find("script, style, noscript").Remove()
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			kept := n.Attr[:0]
			for _, a := range n.Attr {
				if keepAttrs[a.Key] {
					kept = append(kept, a)
				}
			}
			n.Attr = kept
		}
	})
	sanitized, err := doc.Find("body").Html()
	if err != nil || strings.TrimSpace(sanitized) == "" {
		return stripTags(input)
	}
	md, err := converter.ConvertString(sanitized)
	if err != nil {
		return stripTags(input)
	}
	return CleanMarkdown(md)
}

// CleanMarkdown removes markdown syntax while preserving semantic
// structure: emphasis and links unwrap to their text, list and quote
// markers are stripped, fenced code blocks become CODE BLOCK: sections
// with the language tag dropped, and image syntax survives untouched.
func CleanMarkdown(md string) string {
	if md == "" {
		return ""
	}
	s := fenceRe.ReplaceAllString(md, "CODE BLOCK:\n$1")
	s = boldRe.ReplaceAllString(s, "$1")
	s = italicRe.ReplaceAllString(s, "$1")
	s = underscoreRe.ReplaceAllString(s, "$1")
	s = inlineCodeRe.ReplaceAllString(s, "$1")
	s = linkRe.ReplaceAllString(s, "$1$2")
	s = listMarkerRe.ReplaceAllString(s, "")
	s = numMarkerRe.ReplaceAllString(s, "")
	s = quoteRe.ReplaceAllString(s, "")
	s = normalize.CleanArtifacts(s)
	s = blankRunsRe.ReplaceAllString(s, "\n\n")
	s = spaceRunsRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// stripTags is the last-resort path when HTML cannot be parsed or
// converted: walk whatever parses, collect raw text, normalize.
func stripTags(input string) string {
	node, err := html.Parse(strings.NewReader(input))
	if err != nil || node == nil {
		return normalize.Normalize(tagRe.ReplaceAllString(input, ""))
	}
	var b strings.Builder
	collectText(&b, node)
	return normalize.Normalize(b.String())
}

func collectText(b *strings.Builder, n *html.Node) {
	if n.Type == html.ElementNode {
		switch strings.ToLower(n.Data) {
		case "script", "style", "noscript":
			return
		}
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteString(" ")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}
}
