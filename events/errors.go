package events

import "fmt"

var (
	// ErrSinkClosed is returned by Publish after Close
	ErrSinkClosed = fmt.Errorf("events: sink is closed")
)

// ErrInvalidConfig invalid sink config
func ErrInvalidConfig(msg string) error {
	return fmt.Errorf("events: invalid config: %s", msg)
}

// ErrConnection wraps a broker or database connection failure
func ErrConnection(backend string, err error) error {
	return fmt.Errorf("events: %s connection failed: %w", backend, err)
}

// ErrPublish wraps a failure to hand an event to its backend
func ErrPublish(backend string, err error) error {
	return fmt.Errorf("events: publish to %s failed: %w", backend, err)
}

// ErrInsert wraps a failed ClickHouse batch
func ErrInsert(table string, err error) error {
	return fmt.Errorf("events: insert to table %s failed: %w", table, err)
}
