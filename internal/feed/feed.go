// Package feed retrieves and validates RSS/Atom feeds and maps their
// entries to article descriptors.
package feed

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog/log"

	"rsspress/internal/fetch"
)

// ErrNoEntries indicates a feed parsed cleanly but contains no entries.
var ErrNoEntries = errors.New("no entries found in feed")

// Article is one feed entry scheduled for extraction. Missing fields get
// placeholder defaults rather than failing the entry.
type Article struct {
	Title     string
	Link      string
	Published string
	Author    string
}

// Feed is the parsed feed with its entries mapped to articles.
type Feed struct {
	Title       string
	Description string
	Link        string
	Updated     string
	Articles    []Article
}

// Fetch retrieves and parses the feed.
func Fetch(ctx context.Context, client *fetch.Client, feedURL string) (*Feed, error) {
	body, _, err := client.Get(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	parsed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	if len(parsed.Items) == 0 {
		return nil, ErrNoEntries
	}
	f := &Feed{
		Title:       orDefault(parsed.Title, "Unknown"),
		Description: orDefault(parsed.Description, "No description"),
		Link:        parsed.Link,
		Updated:     parsed.Updated,
	}
	for _, item := range parsed.Items {
		a := Article{
			Title:     orDefault(item.Title, "No title"),
			Link:      item.Link,
			Published: item.Published,
			Author:    orDefault(itemAuthor(item), "Unknown"),
		}
		log.Debug().Str("title", a.Title).Str("url", a.Link).Msg("feed entry")
		f.Articles = append(f.Articles, a)
	}
	return f, nil
}

func itemAuthor(item *gofeed.Item) string {
	if item.Author != nil && item.Author.Name != "" {
		return item.Author.Name
	}
	for _, p := range item.Authors {
		if p != nil && p.Name != "" {
			return p.Name
		}
	}
	return ""
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
