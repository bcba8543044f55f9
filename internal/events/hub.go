package events

import (
	"sync"

	"github.com/GriffinCanCode/sidenote/backend/internal/infrastructure/monitoring"
	"go.uber.org/zap"
)

// DefaultBuffer is the per-subscriber queue length used when none is given.
const DefaultBuffer = 64

// Subscription is one subscriber's view of the hub.
type Subscription struct {
	ID string
	C  <-chan Event

	ch   chan Event
	hub  *Hub
	once sync.Once
}

// Close unsubscribes and closes C. Safe to call more than once.
func (s *Subscription) Close() {
	s.hub.unsubscribe(s)
}

// Hub fans events out to subscribers.
type Hub struct {
	mu         sync.RWMutex
	subs       map[string]*Subscription
	lastFolder *Event
	buffer     int
	closed     bool
	logger     *zap.Logger
	metrics    *monitoring.Metrics
}

// NewHub creates a hub whose subscribers each queue up to buffer events.
func NewHub(buffer int, logger *zap.Logger, metrics *monitoring.Metrics) *Hub {
	if buffer < 1 {
		buffer = DefaultBuffer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		subs:    make(map[string]*Subscription),
		buffer:  buffer,
		logger:  logger,
		metrics: metrics,
	}
}

// Emit delivers e to every subscriber without blocking.
func (h *Hub) Emit(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	if e.Name == OpenFolder {
		ev := e
		h.lastFolder = &ev
	}
	h.metrics.RecordEventPublished(e.Name)

	for _, sub := range h.subs {
		select {
		case sub.ch <- e:
		default:
			h.metrics.RecordEventDropped()
			h.logger.Warn("subscriber queue full, dropping event",
				zap.String("subscriber", sub.ID),
				zap.String("event", e.Name))
		}
	}
}

// Subscribe registers a subscriber under id. The last open-folder event,
// if any, is queued for it immediately.
func (h *Hub) Subscribe(id string) *Subscription {
	ch := make(chan Event, h.buffer)
	sub := &Subscription{ID: id, C: ch, ch: ch, hub: h}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(ch)
		sub.once.Do(func() {})
		return sub
	}
	if h.lastFolder != nil {
		ch <- *h.lastFolder
	}
	if prev, ok := h.subs[id]; ok {
		prev.once.Do(func() { close(prev.ch) })
	}
	h.subs[id] = sub
	return sub
}

func (h *Hub) unsubscribe(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cur, ok := h.subs[s.ID]; ok && cur == s {
		delete(h.subs, s.ID)
	}
	s.once.Do(func() { close(s.ch) })
}

// Subscribers returns the number of live subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// LastFolder returns the most recent open-folder event.
func (h *Hub) LastFolder() (Event, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.lastFolder == nil {
		return Event{}, false
	}
	return *h.lastFolder, true
}

// Close closes every subscription and drops later events.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for id, sub := range h.subs {
		sub.once.Do(func() { close(sub.ch) })
		delete(h.subs, id)
	}
}
