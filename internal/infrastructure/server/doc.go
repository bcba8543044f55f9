/*
Package server assembles the backend: configuration, logging, metrics,
tracing, the event hub, the command registry and its providers, and the
gin router behind a gzip handler.

Routes:

	GET  /                  liveness
	GET  /health            registry stats and metrics snapshot
	GET  /commands          command catalog
	POST /invoke/:command   run a command
	GET  /events            websocket event stream
	GET  /metrics           Prometheus exposition
	GET  /metrics/json      metrics snapshot

Shutdown order: the HTTP server stops accepting, the hub closes (ending
websocket streams), every file watch is stopped, and the logger is synced.
*/
package server
