package cron

import "fmt"

var (
	// ErrNoTasks is returned when attempting to add a chain job with no tasks
	ErrNoTasks = fmt.Errorf("cron: no tasks provided")

	// ErrCronClosed is returned when adding tasks to a closed manager
	ErrCronClosed = fmt.Errorf("cron: cron manager is closed")
)

// ErrInvalidSpec wraps a spec parse failure
func ErrInvalidSpec(spec string, err error) error {
	return fmt.Errorf("cron: invalid spec %q: %w", spec, err)
}
