package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MinJeongKimm/SOLSOLHEY-sub000/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errSource = errors.New("connection refused")

func testConfig() *SyncableCacheConfig {
	return &SyncableCacheConfig{
		Name:         "lines",
		SyncInterval: time.Hour,
		SyncTimeout:  time.Second,
		MaxRetries:   3,
		RetryBackoff: time.Millisecond,
	}
}

func TestSyncableCacheConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *SyncableCacheConfig
		wantErr bool
	}{
		{"valid", testConfig(), false},
		{"empty name", &SyncableCacheConfig{SyncInterval: time.Second, SyncTimeout: time.Second, MaxRetries: 1}, true},
		{"zero retries", &SyncableCacheConfig{Name: "x", SyncInterval: time.Second, SyncTimeout: time.Second}, true},
		{"negative interval", &SyncableCacheConfig{Name: "x", SyncInterval: -1, SyncTimeout: time.Second, MaxRetries: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			assert.Equal(t, tt.wantErr, err != nil, "Validate() error = %v", err)
		})
	}
}

func TestNewSyncableCache_NilFunc(t *testing.T) {
	_, err := NewSyncableCache[int](logger.NewNop(), testConfig(), nil, nil)
	assert.ErrorIs(t, err, ErrNilSyncFunc)
}

func TestSyncableCache_StartLoadsValue(t *testing.T) {
	c, err := NewSyncableCache(logger.NewNop(), testConfig(), func(context.Context) ([]string, error) {
		return []string{"a", "b"}, nil
	}, nil)
	require.NoError(t, err)
	require.NoError(t, c.Start())
	defer c.Stop()

	assert.Equal(t, []string{"a", "b"}, c.Get())
}

func TestSyncableCache_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	c, err := NewSyncableCache(logger.NewNop(), testConfig(), func(context.Context) (int, error) {
		if calls.Add(1) < 3 {
			return 0, errSource
		}
		return 42, nil
	}, nil)
	require.NoError(t, err)

	require.NoError(t, c.Sync(context.Background()))
	assert.EqualValues(t, 3, calls.Load())
	assert.Equal(t, 42, c.Get())
}

func TestSyncableCache_StartFailsWithoutSeed(t *testing.T) {
	c, err := NewSyncableCache(logger.NewNop(), testConfig(), func(context.Context) (int, error) {
		return 0, errSource
	}, nil)
	require.NoError(t, err)

	err = c.Start()
	assert.ErrorIs(t, err, errSource)
	assert.Equal(t, 0, c.Get())
}

func TestSyncableCache_SeedSurvivesFailedStart(t *testing.T) {
	seed := map[string]int{"seed": 1}
	c, err := NewSyncableCache(logger.NewNop(), testConfig(), func(context.Context) (map[string]int, error) {
		return nil, errSource
	}, &seed)
	require.NoError(t, err)

	require.NoError(t, c.Start())
	defer c.Stop()
	c.Stop()

	assert.Equal(t, seed, c.Get())
}

func TestSyncableCache_CancelledSyncStops(t *testing.T) {
	var calls atomic.Int32
	c, err := NewSyncableCache(logger.NewNop(), testConfig(), func(ctx context.Context) (int, error) {
		calls.Add(1)
		return 0, context.Canceled
	}, nil)
	require.NoError(t, err)

	assert.Error(t, c.Sync(context.Background()))
	assert.EqualValues(t, 1, calls.Load())
}
