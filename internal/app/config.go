package app

import "time"

// Config holds runtime configuration for the application.
type Config struct {
	FeedURL    string
	OutputPath string

	// MaxArticles caps how many feed entries are processed. Zero means all.
	MaxArticles int

	// Modes
	ListOnly    bool
	HealthCheck bool
	// Force skips the pre-run health gate and processes the feed anyway.
	Force bool

	// FontsDir holds the Ubuntu TTF files for PDF embedding.
	FontsDir string

	// Network
	UserAgent      string
	FeedTimeout    time.Duration
	ArticleTimeout time.Duration
	ImageTimeout   time.Duration

	Verbose bool
}

// Defaults shared between flag registration and config-file overlay.
const (
	DefaultOutputPath     = "rss_articles.pdf"
	DefaultFontsDir       = "fonts"
	DefaultFeedTimeout    = 10 * time.Second
	DefaultArticleTimeout = 30 * time.Second
	DefaultImageTimeout   = 15 * time.Second
)
