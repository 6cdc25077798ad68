package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Site struct {
		BaseURL     string `yaml:"base_url" json:"base_url" jsonschema:"required,description=Canonical site URL without trailing slash"`
		Title       string `yaml:"title" json:"title" jsonschema:"description=Site title used in the feed channel"`
		Author      string `yaml:"author" json:"author" jsonschema:"description=Site author name"`
		Description string `yaml:"description" json:"description" jsonschema:"description=Site description used in the feed channel"`
	} `yaml:"site" json:"site" jsonschema:"description=Site identity"`

	Collections []Collection `yaml:"collections" json:"collections" jsonschema:"description=Content collections to build"`

	Feed struct {
		File     string `yaml:"file" json:"file" jsonschema:"default=rss.xml,description=Feed output path relative to the site directory"`
		MaxItems int    `yaml:"max_items" json:"max_items" jsonschema:"default=30,description=Maximum number of items in the emitted feed"`
	} `yaml:"feed" json:"feed" jsonschema:"description=Aggregated feed configuration"`

	Notion NotionConfig `yaml:"notion" json:"notion" jsonschema:"description=Notion content source configuration"`

	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:upvotes.db?cache=shared&mode=rwc,description=Database connection string"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Database configuration for the upvote store"`

	Captcha CaptchaConfig `yaml:"captcha" json:"captcha" jsonschema:"description=CAPTCHA verification configuration"`

	// SiteDir is the root of the generated output tree, also served by the server
	SiteDir string `yaml:"site_dir" json:"site_dir" jsonschema:"default=public,description=Root directory of the generated site"`
}

// Collection describes one content grouping (blog, til, weblog)
type Collection struct {
	Name      string `yaml:"name" json:"name" jsonschema:"required,description=Collection name, used as the feed category"`
	Source    string `yaml:"source" json:"source" jsonschema:"required,description=Directory with Markdown source files"`
	Output    string `yaml:"output" json:"output" jsonschema:"required,description=Output directory relative to site_dir"`
	URLPrefix string `yaml:"url_prefix" json:"url_prefix" jsonschema:"description=URL path prefix for post links, defaults to the output directory"`
	Title     string `yaml:"title" json:"title" jsonschema:"description=Collection index page title, defaults to the name"`
}

// NotionConfig holds settings for the Notion content source
type NotionConfig struct {
	Enabled    bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Enable pulling posts from Notion"`
	Token      string        `yaml:"token" json:"token" jsonschema:"description=Notion integration token (can use environment variable)"`
	DatabaseID string        `yaml:"database_id" json:"database_id" jsonschema:"description=Notion database ID with published posts"`
	Collection string        `yaml:"collection" json:"collection" jsonschema:"description=Collection name Notion posts belong to"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Request timeout"`
}

// CaptchaConfig holds settings for the CAPTCHA verification service
type CaptchaConfig struct {
	Secret    string        `yaml:"secret" json:"secret" jsonschema:"description=Verification secret key (can use environment variable)"`
	VerifyURL string        `yaml:"verify_url" json:"verify_url" jsonschema:"default=https://challenges.cloudflare.com/turnstile/v0/siteverify,description=Verification endpoint"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=10s,description=Verification request timeout"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	// validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema, supplementary to validate
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		log.Printf("[WARN] schema validation failed: %v", err)
	}

	return &cfg, nil
}

// setDefaults fills zero values with defaults
func (c *Config) setDefaults() {
	// canonical form joins with path-prefixed slugs, a trailing slash
	// would fork item links on a config tweak
	c.Site.BaseURL = strings.TrimRight(c.Site.BaseURL, "/")

	if c.Feed.File == "" {
		c.Feed.File = "rss.xml"
	}
	if c.Feed.MaxItems == 0 {
		c.Feed.MaxItems = 30
	}

	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}

	if c.Database.DSN == "" {
		c.Database.DSN = "file:upvotes.db?cache=shared&mode=rwc"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 3600
	}

	if c.Notion.Timeout == 0 {
		c.Notion.Timeout = 30 * time.Second
	}

	if c.Captcha.VerifyURL == "" {
		c.Captcha.VerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"
	}
	if c.Captcha.Timeout == 0 {
		c.Captcha.Timeout = 10 * time.Second
	}

	if c.SiteDir == "" {
		c.SiteDir = "public"
	}

	for i := range c.Collections {
		if c.Collections[i].URLPrefix == "" {
			c.Collections[i].URLPrefix = c.Collections[i].Output
		}
		if c.Collections[i].Title == "" {
			c.Collections[i].Title = c.Collections[i].Name
		}
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Site.BaseURL == "" {
		return fmt.Errorf("site.base_url is required")
	}

	if len(cfg.Collections) == 0 {
		return fmt.Errorf("at least one collection is required")
	}

	seen := map[string]bool{}
	for _, col := range cfg.Collections {
		if col.Name == "" {
			return fmt.Errorf("collection name is required")
		}
		if seen[col.Name] {
			return fmt.Errorf("duplicate collection name %q", col.Name)
		}
		seen[col.Name] = true
		if col.Source == "" {
			return fmt.Errorf("collection %q: source directory is required", col.Name)
		}
		if col.Output == "" {
			return fmt.Errorf("collection %q: output directory is required", col.Name)
		}
	}

	if cfg.Feed.MaxItems < 1 {
		return fmt.Errorf("feed.max_items must be at least 1")
	}

	if cfg.Notion.Enabled {
		if cfg.Notion.Token == "" {
			return fmt.Errorf("notion.token is required when notion is enabled")
		}
		if cfg.Notion.DatabaseID == "" {
			return fmt.Errorf("notion.database_id is required when notion is enabled")
		}
		if cfg.Notion.Collection == "" {
			return fmt.Errorf("notion.collection is required when notion is enabled")
		}
	}

	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetCaptchaConfig returns CAPTCHA verification configuration
func (c *Config) GetCaptchaConfig() CaptchaConfig {
	return c.Captcha
}

// GetNotionConfig returns Notion source configuration
func (c *Config) GetNotionConfig() NotionConfig {
	return c.Notion
}

// Collection returns the collection with the given name, nil if absent
func (c *Config) Collection(name string) *Collection {
	for i := range c.Collections {
		if c.Collections[i].Name == name {
			return &c.Collections[i]
		}
	}
	return nil
}
