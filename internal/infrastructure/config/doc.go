// Package config provides 12-factor configuration management for the Sidenote backend.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//   - Index: Indexed extensions, ignore globs, symlink handling
//   - Watch: Per-client event queue length
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s\n", cfg.Server.Addr())
//
// Environment Variables:
//   - PORT, HOST
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - INDEX_EXTENSIONS, INDEX_IGNORE, INDEX_FOLLOW_SYMLINKS
//   - WATCH_EVENT_BUFFER
package config
