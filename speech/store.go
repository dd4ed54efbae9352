package speech

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/MinJeongKimm/SOLSOLHEY-sub000/logger"
	"github.com/MinJeongKimm/SOLSOLHEY-sub000/routine"
	"go.uber.org/zap"
)

// Option customises a Store
type Option func(*store)

// WithClock replaces the wall clock
func WithClock(c Clock) Option {
	return func(s *store) { s.clock = c }
}

// WithPool runs refill jobs on p instead of a pool owned by the store.
// The store does not close a pool it was given.
func WithPool(p routine.Pool) Option {
	return func(s *store) { s.pool = p }
}

// WithObserver registers o for serve and refill notifications
func WithObserver(o Observer) Option {
	return func(s *store) { s.observer = o }
}

type store struct {
	logger    logger.Logger
	generator Generator
	cfg       *Config
	clock     Clock
	observer  Observer

	pool     routine.Pool
	ownsPool bool

	// userID -> *userState
	states sync.Map
	users  atomic.Int64
	closed atomic.Bool
}

// NewStore creates a Store backed by gen.
// A nil cfg means DefaultConfig; zero fields are filled from the defaults.
func NewStore(log logger.Logger, cfg *Config, gen Generator, opts ...Option) (Store, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg = cfg.MergeDefaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if gen == nil {
		return nil, ErrNilGenerator
	}

	s := &store{
		logger:    log,
		generator: gen,
		cfg:       cfg,
		clock:     systemClock{},
		observer:  nopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.pool == nil {
		pool, err := routine.NewPool(log, &routine.PoolConfig{
			Name:          "speech-refill",
			Workers:       cfg.Workers,
			QueueCapacity: cfg.QueueCapacity,
		})
		if err != nil {
			return nil, err
		}
		s.pool = pool
		s.ownsPool = true
	}

	return s, nil
}

// acquire returns the user's state, creating it atomically on first access
func (s *store) acquire(userID string) *userState {
	if v, ok := s.states.Load(userID); ok {
		return v.(*userState)
	}
	v, loaded := s.states.LoadOrStore(userID, newUserState(userID, s.clock.Now()))
	if !loaded {
		s.users.Add(1)
		s.logger.Debug("speech buffer created", zap.String("user_id", userID))
	}
	return v.(*userState)
}

func (s *store) lookup(userID string) (*userState, bool) {
	v, ok := s.states.Load(userID)
	if !ok {
		return nil, false
	}
	return v.(*userState), true
}

// evict removes st only if it is still the registered state for its user
func (s *store) evict(st *userState) bool {
	if !s.states.CompareAndDelete(st.userID, st) {
		return false
	}
	s.users.Add(-1)
	return true
}

func (s *store) Next(ctx context.Context, userID string) Entry {
	st := s.acquire(userID)
	now := s.clock.Now()
	st.touch(now)
	st.purge(now)

	desired := st.desired()
	source := SourceBuffer
	entry, ok := st.popPreferring(desired, now)
	if !ok {
		source = SourceMiss
		entry, ok = s.generateInline(ctx, st, desired)
	}
	if !ok {
		source = SourceFallback
		entry = DefaultEntry(s.clock.Now(), s.cfg.TTL)
		s.logger.Warn("speech buffer exhausted, serving default entry",
			zap.String("user_id", userID),
			zap.String("desired", string(desired)),
		)
	}

	st.markServed(entry.Category, s.clock.Now())
	s.scheduleRefill(st, s.cfg.DefaultTarget)
	s.observer.OnServe(userID, entry, source)
	return entry
}

// generateInline handles a full miss: one synchronous generation, buffered
// and then popped again so ordering still goes through the queues
func (s *store) generateInline(ctx context.Context, st *userState, desired Category) (Entry, bool) {
	content, category, err := s.generator.Generate(ctx, st.userID)
	if err != nil {
		s.logger.Error("inline generation failed",
			zap.String("user_id", st.userID),
			zap.Error(ErrGenerate(st.userID, err)),
		)
		return Entry{}, false
	}

	now := s.clock.Now()
	st.offer(content, category, now, s.cfg.TTL)
	return st.popPreferring(desired, now)
}

func (s *store) Prefill(ctx context.Context, userID string, perCategoryTarget int) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}
	target := max(perCategoryTarget, 1)

	st := s.acquire(userID)
	now := s.clock.Now()
	st.touch(now)
	st.purge(now)

	stats := s.refill(ctx, st, target)
	if stats.Err != nil {
		s.logger.Warn("synchronous prefill incomplete",
			zap.String("user_id", userID),
			zap.Int("target", target),
			zap.Error(stats.Err),
		)
	}
	s.observer.OnRefill(userID, stats)

	s.scheduleRefill(st, target)
	return nil
}

func (s *store) Offer(userID, content string, category Category) {
	st := s.acquire(userID)
	st.offer(content, category, s.clock.Now(), s.cfg.TTL)
}

func (s *store) PurgeExpired(userID string) {
	if st, ok := s.lookup(userID); ok {
		st.purge(s.clock.Now())
	}
}

func (s *store) Depth(userID string) map[Category]int {
	st, ok := s.lookup(userID)
	if !ok {
		return map[Category]int{CategoryDaily: 0, CategoryCheer: 0}
	}
	return st.depths(s.clock.Now())
}

func (s *store) EvictIdle() int {
	now := s.clock.Now()
	evicted := 0
	s.states.Range(func(_, v any) bool {
		st := v.(*userState)
		if st.idleFor(now) > s.cfg.IdleTimeout && s.evict(st) {
			evicted++
		}
		return true
	})
	if evicted > 0 {
		s.logger.Info("idle speech buffers evicted", zap.Int("count", evicted))
	}
	return evicted
}

func (s *store) Stats() Stats {
	return Stats{
		Users:       int(s.users.Load()),
		PendingJobs: s.pool.Pending(),
	}
}

func (s *store) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	if s.ownsPool {
		s.pool.Close()
	}
	s.logger.Info("speech store closed")
}
