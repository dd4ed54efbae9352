// Package speech buffers generated mascot speech per user.
//
// A Store keeps two small FIFO queues per user, one per Category, filled
// ahead of time by a bounded background worker pool that calls a slow
// Generator. Requests are served from the queues in alternating category
// order; only a full miss waits on the Generator inline.
//
// Entries expire after a fixed TTL and are discarded lazily whenever a queue
// is read. A user's whole state is dropped once it has been idle longer than
// the configured window, checked at the end of every refill job and
// optionally by a scheduled sweep.
package speech

import (
	"context"
	"time"
)

// Generator produces one piece of content for a user.
//
// Implementations own their fallback wording: a nil error is expected even
// when the upstream model fails. Generate may block for a long time and is
// never called while the store holds a lock.
type Generator interface {
	Generate(ctx context.Context, userID string) (content string, category Category, err error)
}

// GeneratorFunc adapts a function to the Generator interface
type GeneratorFunc func(ctx context.Context, userID string) (string, Category, error)

// Generate calls f(ctx, userID)
func (f GeneratorFunc) Generate(ctx context.Context, userID string) (string, Category, error) {
	return f(ctx, userID)
}

// Store is the per-user speech buffer
type Store interface {
	// Next returns the next entry for the user. It never fails: on a full
	// miss it generates inline, and in the worst case returns DefaultEntry.
	// A refill job is submitted before it returns.
	Next(ctx context.Context, userID string) Entry

	// Prefill tops both queues up to perCategoryTarget on the calling
	// goroutine, then submits an asynchronous refill on top.
	Prefill(ctx context.Context, userID string, perCategoryTarget int) error

	// Offer buffers content with a fresh TTL. Unknown categories go to the
	// primary queue.
	Offer(userID, content string, category Category)

	// PurgeExpired drops expired entries from both of the user's queues
	PurgeExpired(userID string)

	// Depth returns the number of live entries per category
	Depth(userID string) map[Category]int

	// EvictIdle removes every user idle beyond the configured window and
	// returns how many were removed
	EvictIdle() int

	// Stats reports tracked users and pending refill jobs
	Stats() Stats

	// Close stops the refill pool. Next keeps serving afterwards but no
	// longer schedules refills.
	Close()
}

// Stats is a point-in-time view of the store
type Stats struct {
	Users       int `json:"users"`
	PendingJobs int `json:"pending_jobs"`
}

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Source tells where a served entry came from
type Source string

const (
	// SourceBuffer entries were popped from a queue
	SourceBuffer Source = "buffer"
	// SourceMiss entries were generated inline on a full miss
	SourceMiss Source = "miss"
	// SourceFallback is the hardcoded default entry
	SourceFallback Source = "fallback"
)

// RefillStats summarises one refill pass for a user
type RefillStats struct {
	Calls   map[Category]int `json:"calls"`
	Added   map[Category]int `json:"added"`
	Evicted bool             `json:"evicted"`
	Err     error            `json:"-"`
}

// Observer is notified after serves and refills. Calls happen outside any
// store lock, possibly from pool workers.
type Observer interface {
	OnServe(userID string, entry Entry, source Source)
	OnRefill(userID string, stats RefillStats)
}

type nopObserver struct{}

func (nopObserver) OnServe(string, Entry, Source) {}
func (nopObserver) OnRefill(string, RefillStats)  {}
