// Package main is the entry point for the Sidenote filesystem backend.
//
// The desktop shell starts it with the folder to open; the webview then
// talks to it over HTTP (commands) and a websocket (events).
//
//	Webview ──POST /invoke/:command──▶ sidenote-core ──▶ filesystem
//	        ◀──────GET /events─────── (file-changed, open-folder)
//
// Commands:
//
//	sidenote-core [path]          serve; path "." opens the working directory
//	sidenote-core tree <root>     print the document tree (json, yaml, toml)
//	sidenote-core ls <root>       print every markdown path under root
//
// Configuration:
//   - Environment variables (PORT, LOG_LEVEL, INDEX_IGNORE, ...)
//   - CLI flags (override env vars)
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown, all file watches are stopped
package main
