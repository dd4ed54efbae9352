package routine

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/MinJeongKimm/SOLSOLHEY-sub000/logger"
	"github.com/smallnest/chanx"
	"go.uber.org/zap"
)

// Job is a unit of background work. The context is cancelled when the pool
// is closed; long jobs should check it between steps.
type Job func(ctx context.Context)

// Pool runs submitted jobs on a fixed number of workers
type Pool interface {
	// Submit queues a job and returns immediately. It never blocks on the
	// workers; the queue grows instead.
	Submit(name string, job Job) error

	// Pending returns the number of jobs queued or running
	Pending() int

	// Close stops accepting jobs, cancels the job context and waits for the
	// workers to drain the queue. It can be called multiple times safely.
	Close()
}

type task struct {
	name string
	job  Job
}

type defaultPool struct {
	logger logger.Logger
	name   string

	queue   *chanx.UnboundedChan[task]
	pending atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewPool creates a pool and starts its workers
func NewPool(log logger.Logger, cfg *PoolConfig) (Pool, error) {
	if cfg == nil {
		cfg = DefaultPoolConfig()
	} else {
		cfg = cfg.MergeDefaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &defaultPool{
		logger: log,
		name:   cfg.Name,
		queue:  chanx.NewUnboundedChan[task](context.Background(), cfg.QueueCapacity),
		ctx:    ctx,
		cancel: cancel,
	}

	for i := 0; i < cfg.Workers; i++ {
		p.wg.Add(1)
		go p.work()
	}

	log.Info("worker pool started",
		zap.String("pool", p.name),
		zap.Int("workers", cfg.Workers),
		zap.Int("queue_capacity", cfg.QueueCapacity),
	)
	return p, nil
}

func (p *defaultPool) Submit(name string, job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	p.pending.Add(1)
	p.queue.In <- task{name: name, job: job}
	return nil
}

func (p *defaultPool) Pending() int {
	return int(p.pending.Load())
}

func (p *defaultPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue.In)
	p.mu.Unlock()

	p.cancel()
	p.wg.Wait()
	p.logger.Info("worker pool stopped", zap.String("pool", p.name))
}

func (p *defaultPool) work() {
	defer p.wg.Done()
	for t := range p.queue.Out {
		p.run(t)
	}
}

// run executes one job; a panic is logged and the worker keeps going
func (p *defaultPool) run(t task) {
	defer p.pending.Add(-1)
	defer recoverWithLog(p.logger, t.name)
	t.job(p.ctx)
}
