package routine

import (
	"fmt"
)

var (
	// ErrPanicRecovered is returned when a panic is recovered in a goroutine
	ErrPanicRecovered = fmt.Errorf("routine: panic recovered")

	// ErrPoolClosed is returned when a job is submitted to a closed pool
	ErrPoolClosed = fmt.Errorf("routine: pool is closed")
)

// ErrPanic returns an error wrapping the recovered panic value
func ErrPanic(recovered any) error {
	return fmt.Errorf("%w: %v", ErrPanicRecovered, recovered)
}

// ErrInvalidConfig invalid pool config
func ErrInvalidConfig(msg string) error {
	return fmt.Errorf("routine: invalid config: %s", msg)
}
