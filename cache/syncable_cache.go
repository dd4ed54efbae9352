package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MinJeongKimm/SOLSOLHEY-sub000/logger"
	"github.com/MinJeongKimm/SOLSOLHEY-sub000/routine"
	"go.uber.org/zap"
)

type syncableCache[T any] struct {
	logger   logger.Logger
	syncFunc SyncFunc[T]
	cfg      *SyncableCacheConfig

	value  atomic.Pointer[T]
	seeded bool

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// NewSyncableCache creates a cache filled by syncFunc.
// seed, when non-nil, is served until the first successful sync.
func NewSyncableCache[T any](
	log logger.Logger,
	cfg *SyncableCacheConfig,
	syncFunc SyncFunc[T],
	seed *T,
) (SyncableCache[T], error) {
	if cfg == nil {
		cfg = DefaultSyncableCacheConfig()
	} else {
		cfg = cfg.MergeDefaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if syncFunc == nil {
		return nil, ErrNilSyncFunc
	}

	sc := &syncableCache[T]{
		logger:   log,
		syncFunc: syncFunc,
		cfg:      cfg,
	}
	if seed != nil {
		v := *seed
		sc.value.Store(&v)
		sc.seeded = true
	}
	sc.ctx, sc.cancel = context.WithCancel(context.Background())
	return sc, nil
}

func (sc *syncableCache[T]) Start() error {
	if err := sc.sync(sc.ctx); err != nil {
		if !sc.seeded {
			sc.cancel()
			return err
		}
		sc.logger.Warn("initial sync failed, serving seed value",
			zap.String("cache", sc.cfg.Name),
			zap.Error(err),
		)
	}

	routine.GoNamedWithContext(sc.ctx, sc.logger, sc.cfg.Name+"-sync", func(ctx context.Context) {
		ticker := time.NewTicker(sc.cfg.SyncInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := sc.sync(ctx); err != nil {
					sc.logger.Error("periodic sync failed",
						zap.String("cache", sc.cfg.Name),
						zap.Error(err),
					)
				}
			case <-ctx.Done():
				sc.logger.Info("stopping sync", zap.String("cache", sc.cfg.Name))
				return
			}
		}
	})
	return nil
}

func (sc *syncableCache[T]) Stop() {
	sc.once.Do(sc.cancel)
}

func (sc *syncableCache[T]) Get() T {
	if v := sc.value.Load(); v != nil {
		return *v
	}
	var zero T
	return zero
}

func (sc *syncableCache[T]) Sync(ctx context.Context) error {
	return sc.sync(ctx)
}

// sync runs syncFunc up to MaxRetries times with doubling backoff
func (sc *syncableCache[T]) sync(ctx context.Context) error {
	var lastErr error
	backoff := sc.cfg.RetryBackoff

	for attempt := 1; attempt <= sc.cfg.MaxRetries; attempt++ {
		if attempt > 1 {
			sc.logger.Warn("retrying sync after backoff",
				zap.String("cache", sc.cfg.Name),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
			)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ErrSync(sc.cfg.Name, ctx.Err())
			}
			backoff *= 2
		}

		attemptCtx, cancel := context.WithTimeout(ctx, sc.cfg.SyncTimeout)
		data, err := sc.syncFunc(attemptCtx)
		cancel()

		if err == nil {
			sc.value.Store(&data)
			sc.logger.Debug("sync completed",
				zap.String("cache", sc.cfg.Name),
				zap.Int("attempt", attempt),
			)
			return nil
		}
		lastErr = err

		if errors.Is(err, context.Canceled) {
			break
		}
	}

	return ErrSync(sc.cfg.Name, lastErr)
}
