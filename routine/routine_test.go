package routine

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MinJeongKimm/SOLSOLHEY-sub000/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestLogger(t *testing.T) logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "debug", Encoding: "console"})
	require.NoError(t, err)
	return log
}

func TestGoNamed(t *testing.T) {
	log := newTestLogger(t)

	var executed atomic.Bool
	var wg sync.WaitGroup
	wg.Add(1)
	GoNamed(log, "standalone-named", func() {
		defer wg.Done()
		executed.Store(true)
	})
	wg.Wait()

	assert.True(t, executed.Load())
}

func TestGoNamed_WithPanic(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)

	var wg sync.WaitGroup
	wg.Add(1)
	GoNamed(zap.New(core), "panic-routine", func() {
		defer wg.Done()
		panic("named panic")
	})
	wg.Wait()

	// the recover runs after the deferred Done
	require.Eventually(t, func() bool { return recorded.Len() == 1 }, time.Second, 5*time.Millisecond)
	entry := recorded.All()[0]
	assert.Equal(t, "goroutine panicked", entry.Message)
	assert.Equal(t, "panic-routine", entry.ContextMap()["routine"])
}

func TestGoNamedWithContext(t *testing.T) {
	log := newTestLogger(t)

	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "value")

	got := make(chan any, 1)
	GoNamedWithContext(ctx, log, "ctx-routine", func(ctx context.Context) {
		got <- ctx.Value(key{})
	})

	assert.Equal(t, "value", <-got)
}

func TestSafe(t *testing.T) {
	log := newTestLogger(t)

	assert.NoError(t, Safe(log, "ok", func() {}))

	err := Safe(log, "boom", func() { panic("boom") })
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPanicRecovered)
	assert.Equal(t, "routine: panic recovered: boom", err.Error())
}
