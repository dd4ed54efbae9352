package speech

import (
	"context"

	"github.com/MinJeongKimm/SOLSOLHEY-sub000/logger"
	"go.uber.org/zap"
)

// SweepTask evicts idle users on a schedule. It satisfies cron.Task.
type SweepTask struct {
	store  Store
	logger logger.Logger
}

// NewSweepTask creates a sweep over store
func NewSweepTask(log logger.Logger, store Store) *SweepTask {
	return &SweepTask{store: store, logger: log}
}

// Name returns the task name
func (t *SweepTask) Name() string {
	return "speech-idle-sweep"
}

// Run evicts idle users once
func (t *SweepTask) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	evicted := t.store.EvictIdle()
	t.logger.Debug("idle sweep finished",
		zap.Int("evicted", evicted),
		zap.Int("users", t.store.Stats().Users),
	)
	return nil
}
