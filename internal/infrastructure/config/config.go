package config

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Index     IndexConfig
	Watch     WatchConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"127.0.0.1"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// IndexConfig controls which files the tree indexer and document
// listing pick up.
type IndexConfig struct {
	Extensions     []string `envconfig:"INDEX_EXTENSIONS" default:"md,mdx"`
	Ignore         []string `envconfig:"INDEX_IGNORE"`
	FollowSymlinks bool     `envconfig:"INDEX_FOLLOW_SYMLINKS" default:"true"`
}

// WatchConfig holds change notification settings.
type WatchConfig struct {
	EventBuffer int `envconfig:"WATCH_EVENT_BUFFER" default:"64"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Index.Extensions = normalizeExtensions(cfg.Index.Extensions)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "127.0.0.1",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Index: IndexConfig{
			Extensions:     []string{"md", "mdx"},
			FollowSymlinks: true,
		},
		Watch: WatchConfig{
			EventBuffer: 64,
		},
	}
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	if len(c.Index.Extensions) == 0 {
		return fmt.Errorf("invalid config: INDEX_EXTENSIONS must name at least one extension")
	}
	for _, pattern := range c.Index.Ignore {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid config: bad INDEX_IGNORE pattern %q", pattern)
		}
	}
	if c.Watch.EventBuffer < 1 {
		return fmt.Errorf("invalid config: WATCH_EVENT_BUFFER must be positive, got %d", c.Watch.EventBuffer)
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("invalid config: RATE_LIMIT_RPS must be positive when rate limiting is enabled")
	}
	return nil
}

// Addr returns the host:port the HTTP server listens on.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// normalizeExtensions lowercases entries and strips a leading dot so both
// "md" and ".MD" are accepted.
func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			out = append(out, ext)
		}
	}
	return out
}
