// Package app wires the pipeline: feed retrieval, article extraction,
// layout assembly and PDF rendering.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"rsspress/internal/extract"
	"rsspress/internal/feed"
	"rsspress/internal/fetch"
	"rsspress/internal/images"
	"rsspress/internal/layout"
	"rsspress/internal/pdf"
)

// ErrFeedUnavailable is returned when the pre-run health check fails and
// the run was not forced.
var ErrFeedUnavailable = errors.New("feed failed health check")

type App struct {
	cfg        Config
	feedClient *fetch.Client
	extractor  *extract.Extractor
	renderer   *pdf.Renderer
}

func New(cfg Config) *App {
	feedClient := &fetch.Client{
		UserAgent:         cfg.UserAgent,
		Accept:            fetch.AcceptFeed,
		MaxAttempts:       3,
		PerRequestTimeout: orDuration(cfg.FeedTimeout, DefaultFeedTimeout),
	}
	articleClient := &fetch.Client{
		UserAgent:         cfg.UserAgent,
		Accept:            fetch.AcceptHTML,
		MaxAttempts:       3,
		PerRequestTimeout: orDuration(cfg.ArticleTimeout, DefaultArticleTimeout),
	}
	imageClient := &fetch.Client{
		UserAgent: cfg.UserAgent,
		Accept:    fetch.AcceptImage,
		// Some image CDNs refuse requests without a referer.
		Referer:           cfg.FeedURL,
		PerRequestTimeout: orDuration(cfg.ImageTimeout, DefaultImageTimeout),
	}
	return &App{
		cfg:        cfg,
		feedClient: feedClient,
		extractor:  &extract.Extractor{Client: articleClient},
		renderer: &pdf.Renderer{
			FontsDir: cfg.FontsDir,
			Fetcher:  &images.Fetcher{Client: imageClient},
		},
	}
}

// Run executes the full pipeline and writes the PDF to cfg.OutputPath.
func (a *App) Run(ctx context.Context) error {
	report := feed.Validate(ctx, a.feedClient, a.cfg.FeedURL)
	if !report.Healthy() {
		feed.WriteReport(os.Stderr, report, feed.SuggestAlternatives(a.cfg.FeedURL))
		if !a.cfg.Force {
			return ErrFeedUnavailable
		}
		log.Warn().Str("url", a.cfg.FeedURL).Msg("health check failed, continuing because of -force")
	}

	f, err := feed.Fetch(ctx, a.feedClient, a.cfg.FeedURL)
	if err != nil {
		return fmt.Errorf("fetch feed: %w", err)
	}
	articles := f.Articles
	if a.cfg.MaxArticles > 0 && len(articles) > a.cfg.MaxArticles {
		articles = articles[:a.cfg.MaxArticles]
	}
	log.Info().Str("feed", f.Title).Int("articles", len(articles)).Msg("processing feed")

	items := make([]layout.ArticleItem, 0, len(articles))
	for i, art := range articles {
		log.Info().Int("n", i+1).Int("of", len(articles)).Str("title", art.Title).Msg("extracting article")
		item := layout.ArticleItem{
			Title:     art.Title,
			Author:    art.Author,
			Published: art.Published,
			Link:      art.Link,
		}
		content := a.extractor.Extract(ctx, art.Link)
		if content == nil {
			item.Unavailable = true
		} else {
			item.Text = content.Text
			for _, img := range content.Images {
				item.Images = append(item.Images, layout.ImageRef{URL: img.URL, Alt: img.Alt})
			}
		}
		items = append(items, item)
	}

	blocks := layout.Assemble(layout.DocumentMeta{
		FeedURL:   a.cfg.FeedURL,
		Generated: time.Now(),
	}, items)

	if err := a.renderer.Render(ctx, blocks, a.cfg.OutputPath); err != nil {
		return err
	}
	if info, err := os.Stat(a.cfg.OutputPath); err == nil {
		log.Info().Str("path", a.cfg.OutputPath).Int64("bytes", info.Size()).Msg("wrote PDF")
	}
	return nil
}

// ListFeeds prints the feed summary and its first entries without
// producing a PDF.
func (a *App) ListFeeds(ctx context.Context) error {
	f, err := feed.Fetch(ctx, a.feedClient, a.cfg.FeedURL)
	if err != nil {
		return fmt.Errorf("fetch feed: %w", err)
	}
	writeFeedList(os.Stdout, f)
	return nil
}

func writeFeedList(w io.Writer, f *feed.Feed) {
	fmt.Fprintf(w, "Feed: %s\n", f.Title)
	fmt.Fprintf(w, "Description: %s\n", f.Description)
	if f.Link != "" {
		fmt.Fprintf(w, "Link: %s\n", f.Link)
	}
	if f.Updated != "" {
		fmt.Fprintf(w, "Updated: %s\n", f.Updated)
	}
	fmt.Fprintf(w, "Entries: %d\n\n", len(f.Articles))
	for i, art := range f.Articles {
		if i >= 10 {
			fmt.Fprintf(w, "... and %d more\n", len(f.Articles)-i)
			break
		}
		fmt.Fprintf(w, "%2d. %s\n", i+1, art.Title)
		if art.Published != "" {
			fmt.Fprintf(w, "    %s\n", art.Published)
		}
		fmt.Fprintf(w, "    %s\n", art.Link)
	}
}

// HealthCheck validates the feed and prints the report. Returns
// ErrFeedUnavailable when the feed is unusable.
func (a *App) HealthCheck(ctx context.Context) error {
	report := feed.Validate(ctx, a.feedClient, a.cfg.FeedURL)
	var suggestions []string
	if !report.Healthy() {
		suggestions = feed.SuggestAlternatives(a.cfg.FeedURL)
	}
	feed.WriteReport(os.Stdout, report, suggestions)
	if !report.Healthy() {
		return ErrFeedUnavailable
	}
	return nil
}

func orDuration(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}
