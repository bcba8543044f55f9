// Package middleware provides the HTTP middleware in front of the command
// surface.
//
// Middleware stack includes:
//   - CORS: accepts the desktop webview (tauri://) and loopback dev servers
//   - RateLimit: per-IP token bucket, idle clients are swept
//   - GlobalRateLimit: a single bucket shared by every caller
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
