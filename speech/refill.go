package speech

import (
	"context"

	"github.com/MinJeongKimm/SOLSOLHEY-sub000/routine"
	"go.uber.org/zap"
)

const refillJobName = "speech-refill"

// scheduleRefill submits a fire-and-forget refill job for st
func (s *store) scheduleRefill(st *userState, target int) {
	if s.closed.Load() {
		return
	}
	err := s.pool.Submit(refillJobName, func(ctx context.Context) {
		s.runRefill(ctx, st, target)
	})
	if err != nil {
		s.logger.Debug("refill not scheduled",
			zap.String("user_id", st.userID),
			zap.Error(err),
		)
	}
}

// runRefill is the body of a background refill job. Failures stop the pass
// and are logged here; the idle check runs either way.
func (s *store) runRefill(ctx context.Context, st *userState, target int) {
	stats := s.refill(ctx, st, target)
	if stats.Err != nil {
		s.logger.Warn("refill job failed",
			zap.String("user_id", st.userID),
			zap.Int("target", target),
			zap.Error(stats.Err),
		)
	}

	stats.Evicted = s.reapIfIdle(st)
	s.observer.OnRefill(st.userID, stats)
}

// refill tops both of st's queues up to target, one category at a time.
// A panic in the generator is recovered into stats.Err. Callers report the
// returned stats to the observer.
func (s *store) refill(ctx context.Context, st *userState, target int) RefillStats {
	stats := RefillStats{
		Calls: make(map[Category]int, len(Categories)),
		Added: make(map[Category]int, len(Categories)),
	}

	var err error
	panicErr := routine.Safe(s.logger, refillJobName, func() {
		for _, c := range Categories {
			if err = s.ensureTarget(ctx, st, c, target, &stats); err != nil {
				return
			}
		}
	})
	if panicErr != nil {
		err = panicErr
	}
	stats.Err = err
	return stats
}

// ensureTarget generates until category c holds target live entries or
// target*AttemptMultiplier generator calls have been made. Results for the
// other category are still buffered; they just do not count toward c.
func (s *store) ensureTarget(ctx context.Context, st *userState, c Category, target int, stats *RefillStats) error {
	q := st.queue(c)
	attempts := target * s.cfg.AttemptMultiplier

	for attempts > 0 && q.depth(s.clock.Now()) < target {
		if err := ctx.Err(); err != nil {
			return err
		}

		content, got, err := s.generator.Generate(ctx, st.userID)
		attempts--
		stats.Calls[c]++
		if err != nil {
			return ErrGenerate(st.userID, err)
		}

		added := st.offer(content, got, s.clock.Now(), s.cfg.TTL)
		stats.Added[added]++
	}

	if remaining := q.depth(s.clock.Now()); remaining < target {
		s.logger.Debug("refill attempts exhausted",
			zap.String("user_id", st.userID),
			zap.String("category", string(c)),
			zap.Int("depth", remaining),
			zap.Int("target", target),
		)
	}
	return nil
}

// reapIfIdle drops st from the store when its user has been idle for longer
// than IdleTimeout
func (s *store) reapIfIdle(st *userState) bool {
	idle := st.idleFor(s.clock.Now())
	if idle <= s.cfg.IdleTimeout || !s.evict(st) {
		return false
	}
	s.logger.Info("idle speech buffer evicted",
		zap.String("user_id", st.userID),
		zap.Duration("idle", idle),
	)
	return true
}
