package gateway

import "time"

// Config is the configuration for the speech Gateway
type Config struct {
	// Timeout bounds one provider call; a slower call falls back to a
	// canned line
	// default: 8 * time.Second
	Timeout time.Duration `mapstructure:"timeout"`
	// ProfileTimeout bounds the profile lookup that feeds the prompt
	// default: 1 * time.Second
	ProfileTimeout time.Duration `mapstructure:"profile_timeout"`
	// MaxRunes truncates generated lines to fit the speech bubble
	// default: 60
	MaxRunes int `mapstructure:"max_runes"`
	// LinesRefresh is how often canned lines are reloaded from the source
	// default: 10 * time.Minute
	LinesRefresh time.Duration `mapstructure:"lines_refresh"`
}

// DefaultConfig returns the default configuration for the Gateway
func DefaultConfig() *Config {
	return &Config{
		Timeout:        8 * time.Second,
		ProfileTimeout: time.Second,
		MaxRunes:       60,
		LinesRefresh:   10 * time.Minute,
	}
}

// MergeDefaults fills zero fields from DefaultConfig and returns c
func (c *Config) MergeDefaults() *Config {
	defaults := DefaultConfig()
	if c.Timeout == 0 {
		c.Timeout = defaults.Timeout
	}
	if c.ProfileTimeout == 0 {
		c.ProfileTimeout = defaults.ProfileTimeout
	}
	if c.MaxRunes == 0 {
		c.MaxRunes = defaults.MaxRunes
	}
	if c.LinesRefresh == 0 {
		c.LinesRefresh = defaults.LinesRefresh
	}
	return c
}

// Validate validates the configuration for the Gateway
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return ErrInvalidConfig("timeout must be > 0")
	}
	if c.ProfileTimeout <= 0 {
		return ErrInvalidConfig("profile_timeout must be > 0")
	}
	if c.MaxRunes < 1 {
		return ErrInvalidConfig("max_runes must be >= 1")
	}
	if c.LinesRefresh <= 0 {
		return ErrInvalidConfig("lines_refresh must be > 0")
	}
	return nil
}
