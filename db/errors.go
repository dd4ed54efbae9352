package db

import "fmt"

var (
	// ErrNotConnected is returned when no profile database handle exists
	ErrNotConnected = fmt.Errorf("db: profile database is not connected")

	// ErrClosed is returned for sessions requested after Close
	ErrClosed = fmt.Errorf("db: profile database is closed")
)

// ErrInvalidConfig reports an unusable profile database setting
func ErrInvalidConfig(msg string) error {
	return fmt.Errorf("db: invalid profile database config: %s", msg)
}

// ErrConnection wraps a failure to reach the profile database at host
func ErrConnection(host string, err error) error {
	return fmt.Errorf("db: profile database at %s unreachable: %w", host, err)
}
