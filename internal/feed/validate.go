package feed

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"rsspress/internal/fetch"
)

// recentWindow is how far back an entry may be dated and still count as
// recent.
const recentWindow = 30 * 24 * time.Hour

// recencyProbe caps how many entries are inspected for recency.
const recencyProbe = 10

// Report is the result of a feed health check.
type Report struct {
	URL           string
	Reachable     bool
	ContentType   string
	ContentTypeOK bool
	Title         string
	Description   string
	Link          string
	Updated       string
	EntryCount    int
	MissingTitles int
	MissingLinks  int
	RecentEntries int
	Issues        []string
	Err           string
}

// Healthy reports whether the feed is usable: reachable, parseable and
// non-empty. Issues are advisory and do not make a feed unhealthy.
func (r *Report) Healthy() bool {
	return r.Reachable && r.Err == "" && r.EntryCount > 0
}

// Validate checks the feed for reachability, a plausible content type,
// presence of entries and entry recency. It never fails hard: transport
// and parse problems are recorded on the report.
func Validate(ctx context.Context, client *fetch.Client, feedURL string) *Report {
	r := &Report{URL: feedURL}
	body, contentType, err := client.Get(ctx, feedURL)
	if err != nil {
		r.Err = fmt.Sprintf("network error: %v", err)
		return r
	}
	r.Reachable = true
	r.ContentType = contentType
	r.ContentTypeOK = plausibleFeedType(contentType)
	if !r.ContentTypeOK {
		r.Issues = append(r.Issues, fmt.Sprintf("content type %q may not be RSS/Atom", contentType))
	}

	parsed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		r.Err = fmt.Sprintf("parse error: %v", err)
		return r
	}
	r.Title = orDefault(parsed.Title, "Unknown")
	r.Description = orDefault(parsed.Description, "No description")
	r.Link = parsed.Link
	r.Updated = parsed.Updated
	r.EntryCount = len(parsed.Items)
	if r.EntryCount == 0 {
		r.Err = ErrNoEntries.Error()
		return r
	}

	for _, item := range parsed.Items {
		if item.Title == "" {
			r.MissingTitles++
		}
		if item.Link == "" {
			r.MissingLinks++
		}
	}
	if r.MissingTitles > 0 {
		r.Issues = append(r.Issues, fmt.Sprintf("%d entries missing titles", r.MissingTitles))
	}
	if r.MissingLinks > 0 {
		r.Issues = append(r.Issues, fmt.Sprintf("%d entries missing links", r.MissingLinks))
	}

	probe := parsed.Items
	if len(probe) > recencyProbe {
		probe = probe[:recencyProbe]
	}
	now := time.Now()
	for _, item := range probe {
		when := item.PublishedParsed
		if when == nil {
			when = item.UpdatedParsed
		}
		if when != nil && now.Sub(*when) <= recentWindow {
			r.RecentEntries++
		}
	}
	if r.RecentEntries == 0 {
		r.Issues = append(r.Issues, "no recent entries (within 30 days)")
	}
	return r
}

func plausibleFeedType(contentType string) bool {
	ct := strings.ToLower(contentType)
	for _, tok := range []string{"xml", "rss", "atom"} {
		if strings.Contains(ct, tok) {
			return true
		}
	}
	return false
}

// feedPathSuffixes are the common feed locations tried when suggesting
// alternatives for a failing feed URL.
var feedPathSuffixes = []string{
	"/feed",
	"/rss",
	"/atom",
	"/feed.xml",
	"/rss.xml",
	"/atom.xml",
	"/feed/rss",
	"/feed/atom",
	"/blog/feed",
	"/news/feed",
	"/articles/feed",
	"/posts/feed",
}

// strippableSuffixes are removed from the original URL to recover the site
// root before appending suggestions.
var strippableSuffixes = []string{"/feed", "/rss", "/atom", "/feed.xml", "/rss.xml", "/atom.xml"}

// SuggestAlternatives generates heuristic alternative feed URLs by
// appending common feed paths to the site root. The original URL is never
// suggested back.
func SuggestAlternatives(originalURL string) []string {
	base := strings.TrimRight(originalURL, "/")
	for _, suffix := range strippableSuffixes {
		if strings.HasSuffix(base, suffix) {
			base = base[:len(base)-len(suffix)]
			break
		}
	}
	var out []string
	for _, suffix := range feedPathSuffixes {
		if s := base + suffix; s != originalURL {
			out = append(out, s)
		}
	}
	if strings.Contains(originalURL, "blog") || strings.Contains(originalURL, "news") {
		for _, s := range []string{base + "/blog/feed", base + "/news/feed", base + "/articles/feed"} {
			out = append(out, s)
		}
	}
	return out
}

// WriteReport prints a human-readable health report.
func WriteReport(w io.Writer, r *Report, suggestions []string) {
	fmt.Fprintf(w, "Feed health check: %s\n", r.URL)
	if !r.Healthy() {
		fmt.Fprintf(w, "  status: UNHEALTHY\n")
		if r.Err != "" {
			fmt.Fprintf(w, "  error: %s\n", r.Err)
		}
		for _, issue := range r.Issues {
			fmt.Fprintf(w, "  issue: %s\n", issue)
		}
		if len(suggestions) > 0 {
			fmt.Fprintf(w, "  try these alternative feed URLs:\n")
			for i, s := range suggestions {
				if i >= 5 {
					break
				}
				fmt.Fprintf(w, "    %d. %s\n", i+1, s)
			}
		}
		return
	}
	fmt.Fprintf(w, "  status: healthy\n")
	fmt.Fprintf(w, "  title: %s\n", r.Title)
	fmt.Fprintf(w, "  description: %s\n", r.Description)
	if r.Link != "" {
		fmt.Fprintf(w, "  link: %s\n", r.Link)
	}
	if r.Updated != "" {
		fmt.Fprintf(w, "  last updated: %s\n", r.Updated)
	}
	fmt.Fprintf(w, "  entries: %d\n", r.EntryCount)
	fmt.Fprintf(w, "  recent entries (30 days): %d\n", r.RecentEntries)
	for _, issue := range r.Issues {
		fmt.Fprintf(w, "  warning: %s\n", issue)
	}
}
