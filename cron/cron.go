// Package cron schedules background maintenance tasks.
//
// Tasks registered together form a chain that runs sequentially on each
// tick; every task is wrapped with panic recovery and timing logs.
package cron

import (
	"context"

	"github.com/MinJeongKimm/SOLSOLHEY-sub000/logger"
)

// Task is the interface for a cron task
type Task interface {
	// Name returns the unique identifier for this task
	Name() string
	// Run executes the task once
	Run(ctx context.Context) error
}

// Cron is the interface for managing cron jobs
type Cron interface {
	// Start begins the cron scheduler
	Start()
	// Close stops the scheduler, cancels running tasks' context and waits
	// for them to return
	Close()
	// AddTasks schedules a chain of tasks under spec (six fields, with
	// seconds, or a descriptor such as "@every 1m"). If a task fails the
	// rest of the chain is skipped for that tick.
	AddTasks(name string, spec string, tasks ...Task) error
}

// NewCron creates a new cron manager.
// Recovery and logging middlewares always wrap tasks, outermost first.
func NewCron(log logger.Logger, mws ...Middleware) Cron {
	defaultMws := []Middleware{
		recoveryMiddleware(log),
		loggingMiddleware(log),
	}
	return newCronManager(log, append(defaultMws, mws...)...)
}
