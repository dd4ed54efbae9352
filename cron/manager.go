package cron

import (
	"context"
	"fmt"
	"sync"

	"github.com/MinJeongKimm/SOLSOLHEY-sub000/logger"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// chainJob runs its tasks in order, stopping at the first failure
type chainJob struct {
	name   string
	tasks  []Task
	ctx    context.Context
	logger logger.Logger
}

func (j *chainJob) Run() {
	for _, task := range j.tasks {
		if err := task.Run(j.ctx); err != nil {
			j.logger.Error("chain aborted due to task failure",
				zap.String("chain_name", j.name),
				zap.String("task_name", task.Name()),
				zap.Error(err),
			)
			return
		}
	}
}

type cronManager struct {
	cron        *cron.Cron
	middlewares []Middleware
	logger      logger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

func newCronManager(log logger.Logger, mws ...Middleware) *cronManager {
	ctx, cancel := context.WithCancel(context.Background())
	return &cronManager{
		cron:        cron.New(cron.WithSeconds()),
		middlewares: mws,
		logger:      log,
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (m *cronManager) Start() {
	m.cron.Start()
}

func (m *cronManager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	m.mu.Unlock()

	m.cancel()
	<-m.cron.Stop().Done()
}

func (m *cronManager) AddTasks(name, spec string, tasks ...Task) error {
	if len(tasks) == 0 {
		return ErrNoTasks
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrCronClosed
	}

	job := m.buildChain(name, tasks)
	if _, err := m.cron.AddJob(spec, job); err != nil {
		return ErrInvalidSpec(spec, err)
	}

	m.logger.Info("chain added",
		zap.String("chain_name", name),
		zap.String("spec", spec),
		zap.Int("task_count", len(tasks)),
	)
	return nil
}

func (m *cronManager) buildChain(name string, tasks []Task) *chainJob {
	wrapped := make([]Task, len(tasks))
	for i, task := range tasks {
		named := &wrappedTask{
			name: fmt.Sprintf("%s:%s", name, task.Name()),
			exec: task.Run,
		}
		wrapped[i] = applyMiddlewares(named, m.middlewares...)
	}
	return &chainJob{
		name:   name,
		tasks:  wrapped,
		ctx:    m.ctx,
		logger: m.logger,
	}
}
