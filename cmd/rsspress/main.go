package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"rsspress/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		outputPath     string
		maxArticles    int
		listOnly       bool
		healthCheck    bool
		force          bool
		configPath     string
		fontsDir       string
		userAgent      string
		feedTimeout    time.Duration
		articleTimeout time.Duration
		imageTimeout   time.Duration
		verbose        bool
	)

	flag.StringVar(&outputPath, "output", app.DefaultOutputPath, "Path to write the PDF")
	flag.IntVar(&maxArticles, "max", 0, "Maximum number of articles to process (0 = all)")
	flag.BoolVar(&listOnly, "list", false, "List feed entries without generating a PDF")
	flag.BoolVar(&healthCheck, "check", false, "Run the feed health check and exit")
	flag.BoolVar(&force, "force", false, "Process the feed even when the health check fails")
	flag.StringVar(&configPath, "config", "", "Path to YAML config file")
	flag.StringVar(&fontsDir, "fonts.dir", app.DefaultFontsDir, "Directory containing Ubuntu TTF fonts")
	flag.StringVar(&userAgent, "ua", "", "Custom User-Agent (default mimics a desktop browser)")
	flag.DurationVar(&feedTimeout, "timeout.feed", app.DefaultFeedTimeout, "Feed request timeout")
	flag.DurationVar(&articleTimeout, "timeout.article", app.DefaultArticleTimeout, "Article request timeout")
	flag.DurationVar(&imageTimeout, "timeout.image", app.DefaultImageTimeout, "Image request timeout")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <feed-url>\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := app.Config{
		FeedURL:        flag.Arg(0),
		OutputPath:     outputPath,
		MaxArticles:    maxArticles,
		ListOnly:       listOnly,
		HealthCheck:    healthCheck,
		Force:          force,
		FontsDir:       fontsDir,
		UserAgent:      userAgent,
		FeedTimeout:    feedTimeout,
		ArticleTimeout: articleTimeout,
		ImageTimeout:   imageTimeout,
		Verbose:        verbose,
	}

	if configPath != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("load config")
			os.Exit(1)
		}
		if err := app.ApplyFileConfig(&cfg, fc); err != nil {
			log.Error().Err(err).Str("path", configPath).Msg("apply config")
			os.Exit(1)
		}
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if cfg.FeedURL == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func run(cfg app.Config) error {
	ctx := context.Background()
	a := app.New(cfg)
	switch {
	case cfg.HealthCheck:
		return a.HealthCheck(ctx)
	case cfg.ListOnly:
		return a.ListFeeds(ctx)
	default:
		return a.Run(ctx)
	}
}
