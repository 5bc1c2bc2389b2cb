// Package pubsub provides a generic publish/subscribe event system.
package pubsub

import "time"

// EventType represents the type of event being published.
type EventType string

const (
	// EventRawKey carries a raw key-press signal into a listening capture session.
	EventRawKey EventType = "raw-key"
	// EventRefreshRequested asks the OS hotkey registrar to re-apply bindings.
	EventRefreshRequested EventType = "refresh-requested"
	// EventLogLine carries a formatted log entry.
	EventLogLine EventType = "log-line"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}
