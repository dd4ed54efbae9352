// Package gateway generates mascot speech for the speech buffer.
//
// Gateway implements speech.Generator: it picks a category, builds a prompt
// from the user's profile, asks a Provider for a line and, whenever that
// fails, answers with a canned line instead. Callers therefore always get
// usable content.
package gateway

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/MinJeongKimm/SOLSOLHEY-sub000/cache"
	"github.com/MinJeongKimm/SOLSOLHEY-sub000/logger"
	"github.com/MinJeongKimm/SOLSOLHEY-sub000/profile"
	"github.com/MinJeongKimm/SOLSOLHEY-sub000/speech"
	"go.uber.org/zap"
)

// Provider completes a prompt with a single line of text
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Lines holds canned lines per category
type Lines map[speech.Category][]string

// DefaultLines are served when neither the provider nor the line source
// has anything better
func DefaultLines() Lines {
	return Lines{
		speech.CategoryDaily: {
			"Did you eat something good today?",
			"The campus looks lovely today, doesn't it?",
			"Let's take a short walk between classes!",
		},
		speech.CategoryCheer: {
			"You're doing great, keep it up!",
			"One more challenge and you'll level up!",
			"I'm proud of how far you've come!",
		},
	}
}

// Gateway is the speech.Generator backed by a text Provider
type Gateway struct {
	logger   logger.Logger
	cfg      *Config
	provider Provider
	profiles profile.Source
	lines    cache.SyncableCache[Lines]

	turn atomic.Uint64
}

var _ speech.Generator = (*Gateway)(nil)

// New creates a Gateway. A nil provider serves canned lines only.
// profiles also supplies the canned lines; Start begins reloading them.
func New(log logger.Logger, cfg *Config, provider Provider, profiles profile.Source) (*Gateway, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg = cfg.MergeDefaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles = profile.NewStatic()
	}

	g := &Gateway{
		logger:   log,
		cfg:      cfg,
		provider: provider,
		profiles: profiles,
	}

	seed := DefaultLines()
	lines, err := cache.NewSyncableCache(log, &cache.SyncableCacheConfig{
		Name:         "speech-fallback-lines",
		SyncInterval: cfg.LinesRefresh,
	}, g.loadLines, &seed)
	if err != nil {
		return nil, err
	}
	g.lines = lines

	if provider == nil {
		log.Warn("no speech provider configured, serving canned lines only")
	}
	return g, nil
}

// Start loads canned lines and keeps them fresh
func (g *Gateway) Start() error {
	return g.lines.Start()
}

// Stop ends canned line reloading
func (g *Gateway) Stop() {
	g.lines.Stop()
}

// Generate returns one line for userID. The error is always nil: provider
// and profile failures degrade to a canned line.
func (g *Gateway) Generate(ctx context.Context, userID string) (string, speech.Category, error) {
	turn := g.turn.Add(1)
	category := speech.Categories[turn%uint64(len(speech.Categories))]

	if g.provider != nil {
		text, err := g.complete(ctx, userID, category)
		if err == nil {
			return text, category, nil
		}
		g.logger.Warn("speech generation failed, using canned line",
			zap.String("user_id", userID),
			zap.String("category", string(category)),
			zap.Error(err),
		)
	}
	return g.canned(category, turn), category, nil
}

func (g *Gateway) complete(ctx context.Context, userID string, category speech.Category) (string, error) {
	p := g.loadProfile(ctx, userID)

	callCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()
	text, err := g.provider.Complete(callCtx, buildPrompt(category, p))
	if err != nil {
		return "", err
	}

	text = clean(text, g.cfg.MaxRunes)
	if text == "" {
		return "", ErrEmptyOutput
	}
	return text, nil
}

// loadProfile returns the user's profile, or a bare one when it cannot be
// loaded in time
func (g *Gateway) loadProfile(ctx context.Context, userID string) profile.Profile {
	ctx, cancel := context.WithTimeout(ctx, g.cfg.ProfileTimeout)
	defer cancel()

	p, err := g.profiles.Load(ctx, userID)
	if err != nil {
		if !errors.Is(err, profile.ErrNotFound) {
			g.logger.Warn("profile lookup failed",
				zap.String("user_id", userID),
				zap.Error(err),
			)
		}
		return profile.Profile{UserID: userID}
	}
	return p
}

func (g *Gateway) canned(category speech.Category, turn uint64) string {
	pool := g.lines.Get()[category]
	if len(pool) == 0 {
		pool = DefaultLines()[category]
	}
	return pool[(turn/uint64(len(speech.Categories)))%uint64(len(pool))]
}

// loadLines reads canned lines from the profile source. Categories the
// source has no lines for keep the defaults.
func (g *Gateway) loadLines(ctx context.Context) (Lines, error) {
	rows, err := g.profiles.FallbackLines(ctx)
	if err != nil {
		return nil, err
	}

	lines := make(Lines, len(speech.Categories))
	for _, row := range rows {
		c, ok := speech.ParseCategory(row.Category)
		text := strings.TrimSpace(row.Text)
		if !ok || text == "" {
			continue
		}
		lines[c] = append(lines[c], text)
	}
	for c, defaults := range DefaultLines() {
		if len(lines[c]) == 0 {
			lines[c] = defaults
		}
	}
	return lines, nil
}

// clean keeps the first line of text, strips wrapping quotes and truncates
// to maxRunes
func clean(text string, maxRunes int) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}
	text = strings.Trim(text, "\"'“”")
	text = strings.TrimSpace(text)

	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:maxRunes]))
}
