package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/MinJeongKimm/SOLSOLHEY-sub000/logger"
	"github.com/MinJeongKimm/SOLSOLHEY-sub000/profile"
	"github.com/MinJeongKimm/SOLSOLHEY-sub000/speech"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeProvider struct {
	mu      sync.Mutex
	prompts []string
	reply   string
	err     error
	block   bool
}

func (f *fakeProvider) Complete(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

func (f *fakeProvider) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

type failingSource struct{}

func (failingSource) Load(context.Context, string) (profile.Profile, error) {
	return profile.Profile{}, errors.New("db down")
}

func (failingSource) FallbackLines(context.Context) ([]profile.FallbackLine, error) {
	return nil, errors.New("db down")
}

func newGateway(t *testing.T, cfg *Config, p Provider, src profile.Source) *Gateway {
	t.Helper()
	g, err := New(logger.NewNop(), cfg, p, src)
	require.NoError(t, err)
	return g
}

func TestGenerate_AlternatesCategories(t *testing.T) {
	g := newGateway(t, nil, &fakeProvider{reply: "Hello there!"}, nil)

	var got []speech.Category
	for i := 0; i < 4; i++ {
		text, c, err := g.Generate(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, "Hello there!", text)
		got = append(got, c)
	}

	assert.Equal(t, []speech.Category{
		speech.CategoryCheer, speech.CategoryDaily,
		speech.CategoryCheer, speech.CategoryDaily,
	}, got)
}

func TestGenerate_PromptUsesProfile(t *testing.T) {
	src := profile.NewStatic()
	src.Put(profile.Profile{UserID: "u1", Nickname: "Mina", MascotName: "Sol", Points: 120, Streak: 4, Major: "Economics"})
	p := &fakeProvider{reply: "ok"}
	g := newGateway(t, nil, p, src)

	_, c, err := g.Generate(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, speech.CategoryCheer, c)

	prompt := p.lastPrompt()
	assert.Contains(t, prompt, "You are Sol")
	assert.Contains(t, prompt, "Student: Mina.")
	assert.Contains(t, prompt, "Major: Economics.")
	assert.Contains(t, prompt, "Points: 120.")

	_, c, err = g.Generate(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, speech.CategoryDaily, c)
	assert.NotContains(t, p.lastPrompt(), "Points:")
}

func TestGenerate_UnknownUserGetsNeutralPrompt(t *testing.T) {
	p := &fakeProvider{reply: "ok"}
	g := newGateway(t, nil, p, nil)

	_, _, err := g.Generate(context.Background(), "stranger")
	require.NoError(t, err)
	assert.Contains(t, p.lastPrompt(), "the campus mascot")
	assert.Contains(t, p.lastPrompt(), "Student: friend.")
}

func TestGenerate_ProviderErrorFallsBack(t *testing.T) {
	core, recorded := observer.New(zapcore.WarnLevel)
	g, err := New(zap.New(core), nil, &fakeProvider{err: errors.New("rate limited")}, nil)
	require.NoError(t, err)

	text, c, err := g.Generate(context.Background(), "u1")

	require.NoError(t, err)
	assert.Contains(t, DefaultLines()[c], text)
	assert.Equal(t, 1, recorded.FilterMessage("speech generation failed, using canned line").Len())
}

func TestGenerate_EmptyOutputFallsBack(t *testing.T) {
	g := newGateway(t, nil, &fakeProvider{reply: "  \n  "}, nil)

	text, c, err := g.Generate(context.Background(), "u1")

	require.NoError(t, err)
	assert.Contains(t, DefaultLines()[c], text)
}

func TestGenerate_TimeoutFallsBack(t *testing.T) {
	g := newGateway(t, &Config{Timeout: 20 * time.Millisecond}, &fakeProvider{block: true}, nil)

	start := time.Now()
	text, c, err := g.Generate(context.Background(), "u1")

	require.NoError(t, err)
	assert.Contains(t, DefaultLines()[c], text)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestGenerate_NoProviderServesCanned(t *testing.T) {
	src := profile.NewStatic(
		profile.FallbackLine{Category: "cheer", Text: "Go go go!"},
		profile.FallbackLine{Category: "bogus", Text: "ignored"},
		profile.FallbackLine{Category: "DAILY", Text: "  "},
	)
	g := newGateway(t, nil, nil, src)
	require.NoError(t, g.Start())
	defer g.Stop()

	text, c, err := g.Generate(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, speech.CategoryCheer, c)
	assert.Equal(t, "Go go go!", text)

	text, c, err = g.Generate(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, speech.CategoryDaily, c)
	assert.Contains(t, DefaultLines()[speech.CategoryDaily], text)
}

func TestStart_SourceFailureKeepsDefaults(t *testing.T) {
	g := newGateway(t, nil, nil, failingSource{})
	require.NoError(t, g.Start())
	defer g.Stop()

	text, c, err := g.Generate(context.Background(), "u1")
	require.NoError(t, err)
	assert.Contains(t, DefaultLines()[c], text)
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(logger.NewNop(), &Config{MaxRunes: -1}, nil, nil)
	assert.Error(t, err)
}

func TestClean(t *testing.T) {
	assert.Equal(t, "Hi!", clean("  \"Hi!\"  ", 60))
	assert.Equal(t, "first", clean("first\nsecond", 60))
	assert.Equal(t, "abc", clean("abcdef", 3))

	long := strings.Repeat("가", 80)
	got := clean(long, 60)
	assert.Equal(t, 60, utf8.RuneCountInString(got))
	assert.True(t, utf8.ValidString(got))
}

func TestOpenAIProvider_Complete(t *testing.T) {
	var gotAuth string
	var gotBody responsesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"output":[{"content":[{"type":"output_text","text":"Keep going!"}]}]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", ResponsesURL: srv.URL, HTTPClient: srv.Client()})
	text, err := p.Complete(context.Background(), "say hi")

	require.NoError(t, err)
	assert.Equal(t, "Keep going!", text)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "say hi", gotBody.Input)
	assert.Equal(t, "gpt-4o-mini", gotBody.Model)
}

func TestOpenAIProvider_OutputText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"output_text":"  Top-level text  "}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider(OpenAIConfig{ResponsesURL: srv.URL})
	text, err := p.Complete(context.Background(), "x")

	require.NoError(t, err)
	assert.Equal(t, "Top-level text", text)
}

func TestOpenAIProvider_Errors(t *testing.T) {
	status := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer status.Close()

	_, err := NewOpenAIProvider(OpenAIConfig{ResponsesURL: status.URL}).Complete(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "quota exceeded")

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"output":[]}`))
	}))
	defer empty.Close()

	_, err = NewOpenAIProvider(OpenAIConfig{ResponsesURL: empty.URL}).Complete(context.Background(), "x")
	assert.ErrorIs(t, err, ErrEmptyOutput)
}

func TestGateway_WithOpenAIProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"output_text":"\"You can do it!\""}`))
	}))
	defer srv.Close()

	g := newGateway(t, nil, NewOpenAIProvider(OpenAIConfig{ResponsesURL: srv.URL}), nil)
	text, c, err := g.Generate(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, speech.CategoryCheer, c)
	assert.Equal(t, "You can do it!", text)
}
