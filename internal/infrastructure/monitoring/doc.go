/*
Package monitoring provides Prometheus metrics for the backend.

# Overview

Metrics are registered on a caller-supplied prometheus.Registerer so the
server can use the default registry while tests build isolated ones.

# Features

- HTTP request metrics (latency, status, response size)
- Command metrics (calls, duration, failures by error kind)
- Tree indexing metrics (build time, entry count, skipped directories)
- Content store byte counters
- Watch registration and notification metrics
- Event fan-out and WebSocket metrics
- Uptime

# Usage

	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)
	defer metrics.Close()

	router.Use(monitoring.Middleware(metrics))

	timer := monitoring.NewTimer(metrics, "read_file")
	// ... run command ...
	timer.Stop(monitoring.StatusSuccess)

# Metrics Endpoint

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
*/
package monitoring
