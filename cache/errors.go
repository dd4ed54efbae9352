package cache

import (
	"fmt"
	"time"
)

var (
	// ErrInvalidConfig is returned when the configuration is invalid
	ErrInvalidConfig = fmt.Errorf("cache: invalid config")
	// ErrNilSyncFunc is returned when no sync function is given
	ErrNilSyncFunc = fmt.Errorf("cache: sync func is required")
)

// ErrSync wraps a sync operation error
func ErrSync(name string, err error) error {
	return fmt.Errorf("cache: sync %s failed: %w", name, err)
}

// ErrInvalidName returns an error for invalid name
func ErrInvalidName(name string) error {
	return fmt.Errorf("cache: invalid name: %q (must be non-empty)", name)
}

// ErrInvalidSyncInterval returns an error for invalid sync interval
func ErrInvalidSyncInterval(interval time.Duration) error {
	return fmt.Errorf("cache: invalid sync interval: %v (must be > 0)", interval)
}

// ErrInvalidSyncTimeout returns an error for invalid sync timeout
func ErrInvalidSyncTimeout(timeout time.Duration) error {
	return fmt.Errorf("cache: invalid sync timeout: %v (must be > 0)", timeout)
}

// ErrInvalidMaxRetries returns an error for invalid max retries
func ErrInvalidMaxRetries(retries int) error {
	return fmt.Errorf("cache: invalid max retries: %d (must be >= 1)", retries)
}
