package events

import (
	"time"
)

// Event names
const (
	FileChanged = "file-changed"
	OpenFolder  = "open-folder"
)

// Event is a named notification with a payload.
type Event struct {
	Name      string      `json:"event"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// New creates an event stamped with the current time.
func New(name string, payload interface{}) Event {
	return Event{Name: name, Payload: payload, Timestamp: time.Now()}
}

// Notifier delivers events to subscribers.
type Notifier interface {
	Emit(Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Event)

// Emit calls f(e).
func (f NotifierFunc) Emit(e Event) { f(e) }

// Discard is a Notifier that drops every event.
var Discard Notifier = NotifierFunc(func(Event) {})
