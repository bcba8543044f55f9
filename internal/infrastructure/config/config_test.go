package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "127.0.0.1:8000", cfg.Server.Addr())

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	// Rate limit config
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)

	// Index config
	assert.Equal(t, []string{"md", "mdx"}, cfg.Index.Extensions)
	assert.Empty(t, cfg.Index.Ignore)
	assert.True(t, cfg.Index.FollowSymlinks)

	assert.Equal(t, 64, cfg.Watch.EventBuffer)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMatchesDefault(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":                  "9000",
		"HOST":                  "0.0.0.0",
		"LOG_LEVEL":             "debug",
		"LOG_DEV":               "true",
		"RATE_LIMIT_RPS":        "500",
		"RATE_LIMIT_BURST":      "1000",
		"RATE_LIMIT_ENABLED":    "false",
		"INDEX_EXTENSIONS":      ".MD,markdown",
		"INDEX_IGNORE":          "node_modules/**,drafts/*.md",
		"INDEX_FOLLOW_SYMLINKS": "false",
		"WATCH_EVENT_BUFFER":    "8",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, 500, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 1000, cfg.RateLimit.Burst)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, []string{"md", "markdown"}, cfg.Index.Extensions)
	assert.Equal(t, []string{"node_modules/**", "drafts/*.md"}, cfg.Index.Ignore)
	assert.False(t, cfg.Index.FollowSymlinks)
	assert.Equal(t, 8, cfg.Watch.EventBuffer)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad ignore glob", key: "INDEX_IGNORE", value: "drafts/[abc"},
		{name: "zero event buffer", key: "WATCH_EVENT_BUFFER", value: "0"},
		{name: "non-numeric rps", key: "RATE_LIMIT_RPS", value: "fast"},
		{name: "empty extension list", key: "INDEX_EXTENSIONS", value: " , "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)

			// LoadOrDefault falls back instead of failing.
			assert.Equal(t, Default(), LoadOrDefault())
		})
	}
}

func TestServerConfig(t *testing.T) {
	tests := []struct {
		name     string
		port     string
		host     string
		wantAddr string
	}{
		{name: "default values", wantAddr: "127.0.0.1:8000"},
		{name: "custom port", port: "9000", wantAddr: "127.0.0.1:9000"},
		{name: "custom host", host: "localhost", wantAddr: "localhost:8000"},
		{name: "custom port and host", port: "3000", host: "0.0.0.0", wantAddr: "0.0.0.0:3000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.port != "" {
				t.Setenv("PORT", tt.port)
			}
			if tt.host != "" {
				t.Setenv("HOST", tt.host)
			}

			cfg := LoadOrDefault()
			assert.Equal(t, tt.wantAddr, cfg.Server.Addr())
		})
	}
}
