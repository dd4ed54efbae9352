// Package events publishes what the speech store serves and refills.
//
// Recorder plugs into speech.Observer and turns callbacks into Events for a
// Sink. Sinks ship events to Kafka, ClickHouse, several sinks at once, or
// nowhere. Publishing is best effort: failures are logged and never reach the
// speech path.
package events

import (
	"context"
	"time"
)

// Type names the kind of event
type Type string

const (
	// TypeServe is emitted for every entry handed to a caller
	TypeServe Type = "serve"
	// TypeRefill is emitted after every background refill pass
	TypeRefill Type = "refill"
)

// Event is one serve or refill record
type Event struct {
	Type     Type      `json:"type"`
	UserID   string    `json:"user_id"`
	At       time.Time `json:"at"`
	Category string    `json:"category,omitempty"`
	Source   string    `json:"source,omitempty"`
	Content  string    `json:"content,omitempty"`

	Calls   map[string]int `json:"calls,omitempty"`
	Added   map[string]int `json:"added,omitempty"`
	Evicted bool           `json:"evicted,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// Sink receives events
type Sink interface {
	// Publish hands ev to the sink. It may buffer; an error means ev is lost.
	Publish(ctx context.Context, ev Event) error
	// Close flushes anything buffered and releases resources
	Close() error
}
