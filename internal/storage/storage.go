package storage

import "time"

// Event is one lifecycle transition of an order: confirmed by the
// customer, accepted by the barista, or handed out ready.
// Events are expected to be appended in chronological order.
type Event struct {
	Timestamp   time.Time `json:"timestamp"`
	OrderID     int64     `json:"order_id"`
	Customer    string    `json:"customer"`
	Action      string    `json:"action"`
	Description string    `json:"description,omitempty"`
}

// Recorder abstracts persistence of lifecycle events.
// Implementations can be file-based, database, etc.
// LoadEvents should return events in chronological order.
// AppendEvent should atomically append a new event.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendEvent(event Event) error
	LoadEvents() ([]Event, error)
}
