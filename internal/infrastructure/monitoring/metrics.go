package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
//
// Every Record/Set method is safe to call on a nil *Metrics, so components
// built without metrics (CLI subcommands, most tests) need no stubs.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Command metrics
	CommandCalls    *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec
	CommandErrors   *prometheus.CounterVec

	// Tree indexing metrics
	TreeBuildDuration  prometheus.Histogram
	TreeEntries        prometheus.Histogram
	DirectoriesSkipped *prometheus.CounterVec

	// Content metrics
	ContentBytes *prometheus.CounterVec

	// Watch metrics
	WatchesActive        prometheus.Gauge
	WatchEventsReceived  *prometheus.CounterVec
	WatchEventsForwarded prometheus.Counter

	// Event fan-out metrics
	EventsPublished *prometheus.CounterVec
	EventsDropped   prometheus.Counter

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
	stop      chan struct{}
	stopOnce  sync.Once

	// Snapshot for the JSON health endpoint
	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds current metric values for the JSON API
type Snapshot struct {
	TotalRequests  int64   `json:"total_requests"`
	TotalErrors    int64   `json:"total_errors"`
	TotalCommands  int64   `json:"total_commands"`
	FailedCommands int64   `json:"failed_commands"`
	ActiveWatches  int64   `json:"active_watches"`
	ActiveClients  int64   `json:"active_clients"`
	AvgLatencyMS   float64 `json:"avg_latency_ms"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
	totalDuration  float64
}

// NewMetrics creates a metrics collector registered on reg. Pass
// prometheus.DefaultRegisterer in the server and a fresh
// prometheus.NewRegistry() in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		startTime: time.Now(),
		stop:      make(chan struct{}),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sidenote_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sidenote_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sidenote_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		// Command metrics
		CommandCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sidenote_command_calls_total",
				Help: "Total number of command invocations",
			},
			[]string{"command", "status"},
		),
		CommandDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sidenote_command_duration_seconds",
				Help:    "Command duration in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"command"},
		),
		CommandErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sidenote_command_errors_total",
				Help: "Total number of failed commands by error kind",
			},
			[]string{"command", "kind"},
		),

		// Tree indexing metrics
		TreeBuildDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sidenote_tree_build_duration_seconds",
				Help:    "Time spent building a document tree",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
		),
		TreeEntries: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sidenote_tree_entries",
				Help:    "Number of entries in a built tree",
				Buckets: prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
		DirectoriesSkipped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sidenote_tree_directories_skipped_total",
				Help: "Directories left out of a tree",
			},
			[]string{"reason"},
		),

		// Content metrics
		ContentBytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sidenote_content_bytes_total",
				Help: "Bytes read and written through the content store",
			},
			[]string{"op"},
		),

		// Watch metrics
		WatchesActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "sidenote_watches_active",
				Help: "Number of live watch registrations",
			},
		),
		WatchEventsReceived: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sidenote_watch_events_received_total",
				Help: "Filesystem notifications received by watch registrations",
			},
			[]string{"op"},
		),
		WatchEventsForwarded: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "sidenote_watch_events_forwarded_total",
				Help: "Modify notifications forwarded as file-changed",
			},
		),

		// Event fan-out metrics
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sidenote_events_published_total",
				Help: "Events published to subscribers",
			},
			[]string{"event"},
		),
		EventsDropped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "sidenote_events_dropped_total",
				Help: "Events dropped because a subscriber queue was full",
			},
		),

		// WebSocket metrics
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "sidenote_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sidenote_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),

		// System metrics
		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "sidenote_uptime_seconds",
				Help: "Backend uptime in seconds",
			},
		),
	}

	go m.updateUptime()

	return m
}

// updateUptime updates the uptime metric until Close is called
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Uptime.Set(time.Since(m.startTime).Seconds())
		case <-m.stop:
			return
		}
	}
}

// Close stops the uptime updater
func (m *Metrics) Close() {
	if m == nil {
		return
	}
	m.stopOnce.Do(func() { close(m.stop) })
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, respSize int64) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.totalDuration += duration.Seconds()
	if len(status) > 0 && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordCommand records a command invocation
func (m *Metrics) RecordCommand(command, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.CommandCalls.WithLabelValues(command, status).Inc()
	m.CommandDuration.WithLabelValues(command).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalCommands++
	if status != StatusSuccess {
		m.snapshot.FailedCommands++
	}
	m.mu.Unlock()
}

// RecordCommandError records a failed command by error kind
func (m *Metrics) RecordCommandError(command, kind string) {
	if m == nil {
		return
	}
	m.CommandErrors.WithLabelValues(command, kind).Inc()
}

// RecordTreeBuild records a completed tree build
func (m *Metrics) RecordTreeBuild(duration time.Duration, entries int) {
	if m == nil {
		return
	}
	m.TreeBuildDuration.Observe(duration.Seconds())
	m.TreeEntries.Observe(float64(entries))
}

// RecordDirectorySkipped counts a directory left out of a tree.
// Reasons: "unreadable", "cycle", "ignored".
func (m *Metrics) RecordDirectorySkipped(reason string) {
	if m == nil {
		return
	}
	m.DirectoriesSkipped.WithLabelValues(reason).Inc()
}

// RecordContentBytes counts bytes moved by a read or write
func (m *Metrics) RecordContentBytes(op string, n int) {
	if m == nil {
		return
	}
	m.ContentBytes.WithLabelValues(op).Add(float64(n))
}

// IncWatches increments live watch registrations
func (m *Metrics) IncWatches() {
	if m == nil {
		return
	}
	m.WatchesActive.Inc()
	m.mu.Lock()
	m.snapshot.ActiveWatches++
	m.mu.Unlock()
}

// DecWatches decrements live watch registrations
func (m *Metrics) DecWatches() {
	if m == nil {
		return
	}
	m.WatchesActive.Dec()
	m.mu.Lock()
	m.snapshot.ActiveWatches--
	m.mu.Unlock()
}

// RecordWatchEvent records a filesystem notification and whether it was
// forwarded to the change callback
func (m *Metrics) RecordWatchEvent(op string, forwarded bool) {
	if m == nil {
		return
	}
	m.WatchEventsReceived.WithLabelValues(op).Inc()
	if forwarded {
		m.WatchEventsForwarded.Inc()
	}
}

// RecordEventPublished records an event handed to the hub
func (m *Metrics) RecordEventPublished(event string) {
	if m == nil {
		return
	}
	m.EventsPublished.WithLabelValues(event).Inc()
}

// RecordEventDropped records an event dropped for a slow subscriber
func (m *Metrics) RecordEventDropped() {
	if m == nil {
		return
	}
	m.EventsDropped.Inc()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	if m == nil {
		return
	}
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveClients++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveClients--
	m.mu.Unlock()
}

// Snapshot returns a copy of the current counters
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.snapshot
	if s.TotalRequests > 0 {
		s.AvgLatencyMS = s.totalDuration / float64(s.TotalRequests) * 1000
	}
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
