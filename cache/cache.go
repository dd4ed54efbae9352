// Package cache provides a value that is periodically reloaded from a source.
//
// The speech gateway keeps its canned fallback lines in one: they are read
// on every failed model call, and edited rarely enough that a few minutes of
// staleness is fine.
package cache

import "context"

// SyncFunc loads a fresh value. It should respect ctx for cancellation.
type SyncFunc[T any] func(ctx context.Context) (T, error)

// SyncableCache holds a value refreshed in the background
type SyncableCache[T any] interface {
	// Start performs an initial sync and then syncs every SyncInterval.
	// If the initial sync fails and a seed value was configured, Start logs
	// the error and keeps the seed; otherwise it returns the error.
	Start() error

	// Stop ends background syncing. It can be called multiple times safely.
	Stop()

	// Get returns the current value. Reference types are shared; callers
	// must treat the result as read-only.
	Get() T

	// Sync triggers a sync now, retrying per the config
	Sync(ctx context.Context) error
}
