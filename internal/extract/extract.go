// Package extract selects the readable content region of an article page,
// strips boilerplate subtrees, and collects the cleaned text plus the
// deduplicated content images found inside the region.
package extract

import (
	"bytes"
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"rsspress/internal/fetch"
	"rsspress/internal/images"
	"rsspress/internal/markdown"
)

// Image is one content image discovered in the article region, in document
// order.
type Image struct {
	URL string
	Alt string
}

// Content is the extraction result for one article page.
type Content struct {
	Text   string
	Images []Image
}

// contentSelectors is the priority-ordered candidate list for the article
// region: semantic containers first, common CMS class names next, generic
// fallbacks last. First candidate whose stripped text clears the threshold
// wins.
var contentSelectors = []string{
	"article",
	".post-content",
	".entry-content",
	".content",
	".post-body",
	"main",
	".main-content",
	"#content",
	".article-content",
	".post",
	".entry",
	".blog-post",
	".post-text",
	".entry-text",
	".content-body",
	".article-body",
	".blog-entry",
	".post-entry",
	"#primary",
}

// noiseClassRe matches class names of navigation and boilerplate elements
// removed from a candidate region before measuring its text.
var noiseClassRe = regexp.MustCompile(`sidebar|navigation|menu|nav|ad|advertisement|social|share|comment|footer|header`)

// minContentChars is the visible-text threshold a candidate region must
// clear; kept low so short posts still match a specific container.
const minContentChars = 500

// minParagraphChars: paragraphs at or under this length are dropped as
// noise (share prompts, bylines, widget captions).
const minParagraphChars = 20

// Extractor fetches article pages and extracts their readable content.
type Extractor struct {
	Client *fetch.Client
}

// Extract fetches and extracts one article page. Extraction is best effort:
// any transport or parse failure is logged and yields nil, which callers
// must treat as "content unavailable", never as fatal.
func (e *Extractor) Extract(ctx context.Context, pageURL string) *Content {
	body, _, err := e.Client.Get(ctx, pageURL)
	if err != nil {
		log.Warn().Err(err).Str("url", pageURL).Msg("article fetch failed")
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		log.Warn().Err(err).Str("url", pageURL).Msg("article parse failed")
		return nil
	}
	doc.Find("script, style, noscript").Remove()

	region, selector := selectRegion(doc)
	if region == nil {
		log.Warn().Str("url", pageURL).Msg("no content region found")
		return nil
	}
	log.Debug().Str("url", pageURL).Str("selector", selector).Msg("content region selected")

	// Images are enumerated before the short-paragraph prune: a content
	// image often sits alone in a <p> with no text at all.
	imgs := collectImages(region)

	region.Find("p").Each(func(_ int, p *goquery.Selection) {
		if len(strings.TrimSpace(p.Text())) <= minParagraphChars {
			p.Remove()
		}
	})

	regionHTML, err := goquery.OuterHtml(region)
	if err != nil {
		log.Warn().Err(err).Str("url", pageURL).Msg("content region serialization failed")
		return nil
	}
	return &Content{
		Text:   markdown.CleanHTML(regionHTML),
		Images: imgs,
	}
}

// selectRegion tries each candidate selector in priority order and returns
// the first whose stripped visible text exceeds the threshold, falling back
// to <body> with the same stripping.
func selectRegion(doc *goquery.Document) (*goquery.Selection, string) {
	for _, sel := range contentSelectors {
		s := doc.Find(sel).First()
		if s.Length() == 0 {
			continue
		}
		stripNoise(s)
		if len(strings.TrimSpace(s.Text())) > minContentChars {
			return s, sel
		}
	}
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return nil, ""
	}
	stripNoise(body)
	return body, "body"
}

func stripNoise(s *goquery.Selection) {
	s.Find("nav, header, footer, aside").Remove()
	s.Find("[class]").Each(func(_ int, el *goquery.Selection) {
		if cls, ok := el.Attr("class"); ok && noiseClassRe.MatchString(strings.ToLower(cls)) {
			el.Remove()
		}
	})
}

// collectImages enumerates <img> tags with an absolute src inside the
// region, keeps those classified as content, and deduplicates by derived
// base key with first occurrence winning.
func collectImages(region *goquery.Selection) []Image {
	var out []Image
	seen := map[string]bool{}
	region.Find("img").Each(func(_ int, el *goquery.Selection) {
		src, _ := el.Attr("src")
		alt, _ := el.Attr("alt")
		if !strings.HasPrefix(src, "http") {
			return
		}
		if !images.IsContentImage(src, alt) {
			return
		}
		key := images.BaseKey(src)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, Image{URL: src, Alt: alt})
	})
	return out
}
