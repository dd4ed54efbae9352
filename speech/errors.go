package speech

import (
	"fmt"
	"time"
)

var (
	// ErrStoreClosed is returned by Prefill after Close
	ErrStoreClosed = fmt.Errorf("speech: store is closed")
	// ErrNilGenerator is returned when NewStore gets no generator
	ErrNilGenerator = fmt.Errorf("speech: generator is required")
)

// ErrInvalidConfig invalid config
func ErrInvalidConfig(msg string) error {
	return fmt.Errorf("speech: invalid config: %s", msg)
}

// ErrInvalidDuration returns an error for a non-positive duration field
func ErrInvalidDuration(field string, d time.Duration) error {
	return fmt.Errorf("speech: invalid %s: %v (must be > 0)", field, d)
}

// ErrInvalidCount returns an error for a count field below 1
func ErrInvalidCount(field string, n int) error {
	return fmt.Errorf("speech: invalid %s: %d (must be >= 1)", field, n)
}

// ErrGenerate wraps a generator failure
func ErrGenerate(userID string, err error) error {
	return fmt.Errorf("speech: generate for user %s failed: %w", userID, err)
}
