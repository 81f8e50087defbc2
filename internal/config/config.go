// Package config loads stylemark configuration from .stylemark.yaml
// files and STYLEMARK_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/stylemark/linkcheck"
	"github.com/tsawler/stylemark/lint"
)

// FileName is the configuration file commands look for, walking up
// from the working directory.
const FileName = ".stylemark.yaml"

// Config holds all stylemark configuration.
type Config struct {
	// Guide is the document commands default to when no file argument
	// is given.
	Guide string `yaml:"guide" env:"STYLEMARK_GUIDE"`

	// Lint settings
	Lint LintConfig `yaml:"lint"`

	// Link checker settings
	Links LinksConfig `yaml:"links"`

	// Render settings
	Render RenderConfig `yaml:"render"`

	// User-defined checks
	Plugins PluginsConfig `yaml:"plugins"`

	// CacheDir holds the link cache database. Default: .stylemark
	CacheDir string `yaml:"cache_dir" env:"STYLEMARK_CACHE_DIR"`
}

// LintConfig configures the check runner.
type LintConfig struct {
	// Enable restricts the run to these checks. Empty means all.
	Enable []string `yaml:"enable" env:"STYLEMARK_CHECKS" envSeparator:","`

	// Disable skips these checks.
	Disable []string `yaml:"disable" env:"STYLEMARK_DISABLE" envSeparator:","`

	// MinSeverity drops findings below this level: info, warning or
	// error. Default: info
	MinSeverity string `yaml:"min_severity" env:"STYLEMARK_MIN_SEVERITY"`

	// LineLength is the maximum prose line length. Zero disables the
	// check.
	LineLength int `yaml:"line_length" env:"STYLEMARK_LINE_LENGTH"`

	// BadMarker and GoodMarker override the comment words opening bad
	// and good example blocks. Empty keeps the built-in markers.
	BadMarker  string `yaml:"bad_marker" env:"STYLEMARK_BAD_MARKER"`
	GoodMarker string `yaml:"good_marker" env:"STYLEMARK_GOOD_MARKER"`
}

// LinksConfig configures the external link checker.
type LinksConfig struct {
	// Timeout per request, as a duration string. Default: 10s
	Timeout string `yaml:"timeout" env:"STYLEMARK_TIMEOUT"`

	// Concurrency bounds parallel requests. Default: 8
	Concurrency int `yaml:"concurrency" env:"STYLEMARK_CONCURRENCY"`

	// Retries after the first attempt. Default: 2
	Retries int `yaml:"retries" env:"STYLEMARK_RETRIES"`

	// CacheTTL is how long cached link results stay fresh, as a
	// duration string. Default: 24h
	CacheTTL string `yaml:"cache_ttl" env:"STYLEMARK_CACHE_TTL"`

	// Exclude lists URL substrings or globs to skip.
	Exclude []string `yaml:"exclude" env:"STYLEMARK_EXCLUDE" envSeparator:","`

	// UserAgent header. Empty uses the checker's default.
	UserAgent string `yaml:"user_agent" env:"STYLEMARK_USER_AGENT"`
}

// RenderConfig configures HTML output.
type RenderConfig struct {
	// Title overrides the page title. Empty uses the document's own.
	Title string `yaml:"title" env:"STYLEMARK_TITLE"`

	// SectionNumbers numbers sections in HTML output.
	SectionNumbers bool `yaml:"section_numbers" env:"STYLEMARK_SECTION_NUMBERS"`
}

// PluginsConfig configures user-defined checks.
type PluginsConfig struct {
	// Dir is scanned for *.yaml and *.go check definitions.
	// Default: .stylemark/checks
	Dir string `yaml:"dir" env:"STYLEMARK_PLUGINS_DIR"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Lint: LintConfig{
			MinSeverity: "info",
		},
		Links: LinksConfig{
			Timeout:     "10s",
			Concurrency: 8,
			Retries:     2,
			CacheTTL:    "24h",
		},
		Plugins: PluginsConfig{
			Dir: filepath.Join(".stylemark", "checks"),
		},
		CacheDir: ".stylemark",
	}
}

// Load loads configuration. With an empty path it looks for the
// nearest .stylemark.yaml, walking up from the working directory; no
// file means the defaults. Environment variables override both.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = findConfig()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err != nil && explicit:
			return nil, fmt.Errorf("reading config: %w", err)
		case err != nil && !os.IsNotExist(err):
			return nil, fmt.Errorf("reading config: %w", err)
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// findConfig walks from the working directory toward the filesystem
// root and returns the first .stylemark.yaml, or "".
func findConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// LintConfig converts the lint settings to a check configuration.
func (c *Config) LintConfig() lint.Config {
	cfg := lint.DefaultConfig()
	if c.Lint.LineLength > 0 {
		cfg.LineLength = c.Lint.LineLength
	}
	if c.Lint.BadMarker != "" {
		cfg.BadMarkers = []string{c.Lint.BadMarker}
	}
	if c.Lint.GoodMarker != "" {
		cfg.GoodMarkers = []string{c.Lint.GoodMarker}
	}
	return cfg
}

// MinSeverity returns the configured severity floor, defaulting to
// Info when the value does not parse.
func (c *Config) MinSeverity() lint.Severity {
	s, err := lint.ParseSeverity(c.Lint.MinSeverity)
	if err != nil {
		return lint.Info
	}
	return s
}

// LinkOptions converts the link settings to checker options.
func (c *Config) LinkOptions() linkcheck.Options {
	opts := linkcheck.DefaultOptions()
	opts.Timeout = c.LinkTimeout()
	opts.Retries = c.Links.Retries
	opts.CacheTTL = c.LinkCacheTTL()
	opts.Exclude = c.Links.Exclude
	if c.Links.Concurrency > 0 {
		opts.Concurrency = c.Links.Concurrency
	}
	if c.Links.UserAgent != "" {
		opts.UserAgent = c.Links.UserAgent
	}
	return opts
}

// LinkTimeout returns the per-request timeout as a duration.
func (c *Config) LinkTimeout() time.Duration {
	d, err := time.ParseDuration(c.Links.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// LinkCacheTTL returns the link cache lifetime as a duration.
func (c *Config) LinkCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.Links.CacheTTL)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// CachePath returns the location of the link cache database.
func (c *Config) CachePath() string {
	dir := c.CacheDir
	if dir == "" {
		dir = ".stylemark"
	}
	return filepath.Join(dir, "cache.db")
}
