// Package http provides the HTTP handlers for the command surface.
//
// Endpoints:
//   - GET  /                 liveness
//   - GET  /health           registry stats and metrics snapshot
//   - GET  /commands         command catalog, optional ?category=
//   - POST /invoke/:command  run a command, JSON body holds its params
//   - GET  /metrics          Prometheus exposition
//   - GET  /metrics/json     metrics snapshot
//
// Invoke mirrors the desktop invoke bridge: a command either succeeds with
// data or fails with a human-readable message in the result body.
package http
