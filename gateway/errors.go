package gateway

import "fmt"

var (
	// ErrEmptyOutput is returned when the provider answers with no text
	ErrEmptyOutput = fmt.Errorf("gateway: provider returned empty output")
)

// ErrInvalidConfig invalid config
func ErrInvalidConfig(msg string) error {
	return fmt.Errorf("gateway: invalid config: %s", msg)
}

// ErrProviderStatus is returned for a non-2xx provider response
func ErrProviderStatus(status int, body string) error {
	return fmt.Errorf("gateway: provider status %d: %s", status, body)
}

// ErrProviderRequest wraps a transport or decoding failure
func ErrProviderRequest(err error) error {
	return fmt.Errorf("gateway: provider request failed: %w", err)
}
