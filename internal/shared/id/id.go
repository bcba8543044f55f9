// Package id provides centralized ID generation for the backend.
//
// All identifiers are ULIDs, optionally carrying a short type prefix
// (watch_*, req_*, trace_*) so they read well in logs and event payloads.
// ULIDs sort by creation time, which keeps listed watch registrations in
// the order they were made.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ============================================================================
// Type-Safe ID Wrappers
// ============================================================================

// WatchID identifies a change-watch registration
type WatchID string

// RequestID identifies a command invocation
type RequestID string

// TraceID identifies a traced request
type TraceID string

// SpanID identifies a single span within a trace
type SpanID string

// ============================================================================
// ID Prefixes
// ============================================================================

const (
	WatchPrefix   = "watch"
	RequestPrefix = "req"
	TracePrefix   = "trace"
	SpanPrefix    = "span"
)

// ============================================================================
// ULID Generator
// ============================================================================

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a new ULID generator backed by crypto/rand
func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// NewGeneratorWithEntropy creates a generator with custom entropy source.
// Tests use it for deterministic IDs.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{
		entropy: entropy,
	}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// ============================================================================
// Typed ID Generators
// ============================================================================

// NewWatchID generates a new watch registration ID
func NewWatchID() WatchID {
	return WatchID(Default().GenerateWithPrefix(WatchPrefix))
}

// NewRequestID generates a new request ID
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

// NewTraceID generates a new trace ID
func NewTraceID() TraceID {
	return TraceID(Default().GenerateWithPrefix(TracePrefix))
}

// NewSpanID generates a new span ID
func NewSpanID() SpanID {
	return SpanID(Default().GenerateWithPrefix(SpanPrefix))
}

func (id WatchID) String() string   { return string(id) }
func (id RequestID) String() string { return string(id) }
func (id TraceID) String() string   { return string(id) }
func (id SpanID) String() string    { return string(id) }

// ============================================================================
// Parsing and Validation
// ============================================================================

// IsValid checks if an ID string is a valid bare ULID
func IsValid(id string) bool {
	_, err := ulid.Parse(id)
	return err == nil
}

// Parse parses a bare ULID string
func Parse(id string) (ulid.ULID, error) {
	return ulid.Parse(id)
}

// ParsePrefixed splits "prefix_ULID" and checks that the prefix matches
// the expected one.
func ParsePrefixed(prefix, id string) (ulid.ULID, error) {
	p, rest, ok := strings.Cut(id, "_")
	if !ok || p != prefix {
		return ulid.ULID{}, fmt.Errorf("id %q does not have prefix %q", id, prefix)
	}
	return ulid.Parse(rest)
}

// ParseWatchID validates a watch ID received from a client.
func ParseWatchID(s string) (WatchID, error) {
	if _, err := ParsePrefixed(WatchPrefix, s); err != nil {
		return "", err
	}
	return WatchID(s), nil
}

// Timestamp extracts the timestamp from a bare or prefixed ULID
func Timestamp(id string) (time.Time, error) {
	if _, rest, ok := strings.Cut(id, "_"); ok {
		id = rest
	}
	parsed, err := Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
