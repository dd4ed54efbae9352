package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MinJeongKimm/SOLSOLHEY-sub000/logger"
	"github.com/MinJeongKimm/SOLSOLHEY-sub000/speech"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	speech.Store

	prefillUser   string
	prefillTarget int
	prefillErr    error
}

func (s *stubStore) Prefill(_ context.Context, userID string, target int) error {
	s.prefillUser, s.prefillTarget = userID, target
	return s.prefillErr
}

func (s *stubStore) Depth(string) map[speech.Category]int {
	return map[speech.Category]int{speech.CategoryDaily: s.prefillTarget, speech.CategoryCheer: s.prefillTarget}
}

func (s *stubStore) Stats() speech.Stats {
	return speech.Stats{Users: 3, PendingJobs: 1}
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHandleNext_WithRealStore(t *testing.T) {
	gen := speech.GeneratorFunc(func(context.Context, string) (string, speech.Category, error) {
		return "Hello!", speech.CategoryCheer, nil
	})
	cfg := speech.DefaultConfig()
	store, err := speech.NewStore(logger.NewNop(), cfg, gen)
	require.NoError(t, err)
	defer store.Close()

	h := newServer(logger.NewNop(), store, cfg).routes()
	rec := do(t, h, http.MethodGet, "/speech?user_id=u1")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got speech.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Hello!", got.Content)
	assert.Equal(t, speech.CategoryCheer, got.Category)
	assert.Equal(t, cfg.TTL, got.ExpiresAt.Sub(got.CreatedAt))
}

func TestHandleNext_MissingUser(t *testing.T) {
	h := newServer(logger.NewNop(), &stubStore{}, speech.DefaultConfig()).routes()

	rec := do(t, h, http.MethodGet, "/speech?user_id=%20")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"user_id is required"}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/speech")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandlePrefill(t *testing.T) {
	cases := []struct {
		name   string
		query  string
		status int
		target int
	}{
		{"default target", "user_id=u1", http.StatusOK, 2},
		{"explicit", "user_id=u1&target=4", http.StatusOK, 4},
		{"clamped high", "user_id=u1&target=50", http.StatusOK, 5},
		{"clamped low", "user_id=u1&target=0", http.StatusOK, 1},
		{"bad target", "user_id=u1&target=two", http.StatusBadRequest, 0},
		{"no user", "target=2", http.StatusBadRequest, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &stubStore{}
			h := newServer(logger.NewNop(), store, speech.DefaultConfig()).routes()

			rec := do(t, h, http.MethodPost, "/speech/prefill?"+tc.query)

			require.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.target, store.prefillTarget)
			if tc.status != http.StatusOK {
				return
			}
			var got prefillResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, "u1", got.UserID)
			assert.Equal(t, tc.target, got.Target)
			assert.Equal(t, tc.target, got.Depth[speech.CategoryDaily])
		})
	}
}

func TestHandlePrefill_StoreClosed(t *testing.T) {
	store := &stubStore{prefillErr: speech.ErrStoreClosed}
	h := newServer(logger.NewNop(), store, speech.DefaultConfig()).routes()

	rec := do(t, h, http.MethodPost, "/speech/prefill?user_id=u1")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandlePrefill_RealStoreFillsQueues(t *testing.T) {
	var turn atomic.Int64
	gen := speech.GeneratorFunc(func(context.Context, string) (string, speech.Category, error) {
		return "line", speech.Categories[turn.Add(1)%2], nil
	})
	cfg := speech.DefaultConfig()
	store, err := speech.NewStore(logger.NewNop(), cfg, gen)
	require.NoError(t, err)
	defer store.Close()

	h := newServer(logger.NewNop(), store, cfg).routes()
	rec := do(t, h, http.MethodPost, "/speech/prefill?user_id=u1&target=3")

	require.Equal(t, http.StatusOK, rec.Code)
	var got prefillResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.GreaterOrEqual(t, got.Depth[speech.CategoryDaily], 3)
	assert.GreaterOrEqual(t, got.Depth[speech.CategoryCheer], 3)
}

func TestHandlePrefill_AfterClose(t *testing.T) {
	cfg := speech.DefaultConfig()
	store, err := speech.NewStore(logger.NewNop(), cfg, speech.GeneratorFunc(
		func(context.Context, string) (string, speech.Category, error) {
			return "line", speech.CategoryDaily, nil
		}))
	require.NoError(t, err)
	store.Close()

	h := newServer(logger.NewNop(), store, cfg).routes()
	rec := do(t, h, http.MethodPost, "/speech/prefill?user_id=u1")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	h := newServer(logger.NewNop(), &stubStore{}, speech.DefaultConfig()).routes()

	rec := do(t, h, http.MethodGet, "/healthz")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"users":3,"pending_jobs":1}`, rec.Body.String())
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	t.Setenv("SPEECHD_HTTP_ADDR", "127.0.0.1:0")
	t.Setenv("SPEECHD_LOG_LEVEL", "error")

	cfg := mustLoad(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}
