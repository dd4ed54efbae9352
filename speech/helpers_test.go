package speech

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MinJeongKimm/SOLSOLHEY-sub000/logger"
	"github.com/MinJeongKimm/SOLSOLHEY-sub000/routine"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: epoch}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// manualPool queues jobs until the test runs them
type manualPool struct {
	mu     sync.Mutex
	jobs   []routine.Job
	closed bool
}

func (p *manualPool) Submit(_ string, job routine.Job) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return routine.ErrPoolClosed
	}
	p.jobs = append(p.jobs, job)
	return nil
}

func (p *manualPool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.jobs)
}

func (p *manualPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

// runAll drains the queue on the calling goroutine and returns how many jobs ran
func (p *manualPool) runAll() int {
	ran := 0
	for {
		p.mu.Lock()
		if len(p.jobs) == 0 {
			p.mu.Unlock()
			return ran
		}
		job := p.jobs[0]
		p.jobs = p.jobs[1:]
		p.mu.Unlock()

		job(context.Background())
		ran++
	}
}

// countingGenerator returns categories from pick and counts calls
type countingGenerator struct {
	calls atomic.Int64
	pick  func(n int64) Category
	err   error
}

func alternating(n int64) Category {
	if n%2 == 1 {
		return CategoryDaily
	}
	return CategoryCheer
}

func always(c Category) func(int64) Category {
	return func(int64) Category { return c }
}

func (g *countingGenerator) Generate(_ context.Context, userID string) (string, Category, error) {
	n := g.calls.Add(1)
	if g.err != nil {
		return "", "", g.err
	}
	c := g.pick(n)
	return fmt.Sprintf("%s-%s-%d", userID, c, n), c, nil
}

func (g *countingGenerator) count() int {
	return int(g.calls.Load())
}

var errUpstream = errors.New("upstream unavailable")

type recordingObserver struct {
	mu      sync.Mutex
	serves  []Source
	refills []RefillStats
}

func (o *recordingObserver) OnServe(_ string, _ Entry, src Source) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.serves = append(o.serves, src)
}

func (o *recordingObserver) OnRefill(_ string, stats RefillStats) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.refills = append(o.refills, stats)
}

type fixture struct {
	store *store
	clock *fakeClock
	pool  *manualPool
	gen   *countingGenerator
}

func newFixture(t *testing.T, gen *countingGenerator, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{clock: newFakeClock(), pool: &manualPool{}, gen: gen}
	opts = append([]Option{WithClock(f.clock), WithPool(f.pool)}, opts...)
	s, err := NewStore(logger.NewNop(), nil, gen, opts...)
	require.NoError(t, err)
	f.store = s.(*store)
	t.Cleanup(s.Close)
	return f
}
