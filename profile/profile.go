// Package profile loads the user facts that personalise mascot speech.
package profile

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// ErrNotFound is returned when a user has no profile row
var ErrNotFound = fmt.Errorf("profile: not found")

// Profile is what the speech prompt knows about a user
type Profile struct {
	UserID     string
	Nickname   string
	MascotName string
	Points     int64
	Streak     int
	Major      string
}

// DisplayName returns the nickname, or a neutral address when it is unset
func (p Profile) DisplayName() string {
	if n := strings.TrimSpace(p.Nickname); n != "" {
		return n
	}
	return "friend"
}

// FallbackLine is one canned speech line
type FallbackLine struct {
	Category string
	Text     string
}

// Source loads profiles and canned lines
type Source interface {
	Load(ctx context.Context, userID string) (Profile, error)
	FallbackLines(ctx context.Context) ([]FallbackLine, error)
}

// Static is an in-memory Source
type Static struct {
	mu       sync.RWMutex
	profiles map[string]Profile
	lines    []FallbackLine
}

// NewStatic creates a Static source with the given lines
func NewStatic(lines ...FallbackLine) *Static {
	return &Static{profiles: make(map[string]Profile), lines: lines}
}

// Put stores or replaces a profile
func (s *Static) Put(p Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = p
}

// Load returns the stored profile or ErrNotFound
func (s *Static) Load(_ context.Context, userID string) (Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

// FallbackLines returns a copy of the configured lines
func (s *Static) FallbackLines(context.Context) ([]FallbackLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]FallbackLine(nil), s.lines...), nil
}
