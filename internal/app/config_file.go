package app

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the optional YAML configuration schema. Timeouts are
// duration strings ("10s", "1m30s").
type FileConfig struct {
	Feed        string `yaml:"feed"`
	Output      string `yaml:"output"`
	MaxArticles int    `yaml:"maxArticles"`

	Fonts struct {
		Dir string `yaml:"dir"`
	} `yaml:"fonts"`

	UserAgent string `yaml:"userAgent"`

	Timeouts struct {
		Feed    string `yaml:"feed"`
		Article string `yaml:"article"`
		Image   string `yaml:"image"`
	} `yaml:"timeouts"`

	Force   bool `yaml:"force"`
	Verbose bool `yaml:"verbose"`
}

// LoadConfigFile reads a YAML config file.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("parse yaml: %w", err)
	}
	return fc, nil
}

// ApplyFileConfig overlays file values into cfg for fields still at their
// defaults. Flags should already have been parsed; explicit flags win.
func ApplyFileConfig(cfg *Config, fc FileConfig) error {
	if cfg == nil {
		return nil
	}
	if cfg.FeedURL == "" && fc.Feed != "" {
		cfg.FeedURL = fc.Feed
	}
	if (cfg.OutputPath == "" || cfg.OutputPath == DefaultOutputPath) && fc.Output != "" {
		cfg.OutputPath = fc.Output
	}
	if cfg.MaxArticles == 0 && fc.MaxArticles > 0 {
		cfg.MaxArticles = fc.MaxArticles
	}
	if (cfg.FontsDir == "" || cfg.FontsDir == DefaultFontsDir) && fc.Fonts.Dir != "" {
		cfg.FontsDir = fc.Fonts.Dir
	}
	if cfg.UserAgent == "" && fc.UserAgent != "" {
		cfg.UserAgent = fc.UserAgent
	}
	if !cfg.Force && fc.Force {
		cfg.Force = true
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
	type overlay struct {
		raw    string
		target *time.Duration
		def    time.Duration
	}
	for _, o := range []overlay{
		{fc.Timeouts.Feed, &cfg.FeedTimeout, DefaultFeedTimeout},
		{fc.Timeouts.Article, &cfg.ArticleTimeout, DefaultArticleTimeout},
		{fc.Timeouts.Image, &cfg.ImageTimeout, DefaultImageTimeout},
	} {
		if o.raw == "" || (*o.target != 0 && *o.target != o.def) {
			continue
		}
		d, err := time.ParseDuration(o.raw)
		if err != nil {
			return fmt.Errorf("parse timeout %q: %w", o.raw, err)
		}
		*o.target = d
	}
	return nil
}
