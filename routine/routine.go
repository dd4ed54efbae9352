// Package routine provides safe goroutine execution with panic recovery and a
// bounded worker pool for fire-and-forget jobs.
//
// A panic inside a job is recovered and logged; it never takes down the
// process or the pool worker that ran it.
package routine

import (
	"context"
	"runtime/debug"

	"github.com/MinJeongKimm/SOLSOLHEY-sub000/logger"
	"go.uber.org/zap"
)

// GoNamed executes a named function in a new goroutine with panic recovery
func GoNamed(log logger.Logger, name string, fn func()) {
	go func() {
		defer recoverWithLog(log, name)
		fn()
	}()
}

// GoNamedWithContext executes a named function with context in a new
// goroutine with panic recovery
func GoNamedWithContext(ctx context.Context, log logger.Logger, name string, fn func(ctx context.Context)) {
	go func() {
		defer recoverWithLog(log, name)
		fn(ctx)
	}()
}

// Safe runs fn on the calling goroutine and converts a panic into an error.
func Safe(log logger.Logger, name string, fn func()) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			logPanic(log, name, rec)
			err = ErrPanic(rec)
		}
	}()
	fn()
	return nil
}

func recoverWithLog(log logger.Logger, name string) {
	if rec := recover(); rec != nil {
		logPanic(log, name, rec)
	}
}

func logPanic(log logger.Logger, name string, rec any) {
	fields := []zap.Field{
		zap.Any("panic", rec),
		zap.String("stack", string(debug.Stack())),
	}
	if name != "" {
		fields = append([]zap.Field{zap.String("routine", name)}, fields...)
	}
	log.Error("goroutine panicked", fields...)
}
