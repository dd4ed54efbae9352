package speech

import "time"

// Config holds configuration for the speech Store
type Config struct {
	// TTL is how long a buffered entry stays servable
	// default: 180 * time.Second
	TTL time.Duration `mapstructure:"ttl"`
	// IdleTimeout is how long a user may go without access before the
	// whole buffer is dropped
	// default: 15 * time.Minute
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	// Workers is the size of the refill worker pool
	// default: 2
	Workers int `mapstructure:"workers"`
	// QueueCapacity is the initial capacity of the refill job queue
	// default: 64
	QueueCapacity int `mapstructure:"queue_capacity"`
	// DefaultTarget is the per-category depth background refills aim for
	// default: 2
	DefaultTarget int `mapstructure:"default_target"`
	// MaxTarget is the upper bound ClampTarget applies to caller-supplied
	// prefill targets
	// default: 5
	MaxTarget int `mapstructure:"max_target"`
	// AttemptMultiplier bounds generator calls per category per refill
	// pass to target * AttemptMultiplier
	// default: 3
	AttemptMultiplier int `mapstructure:"attempt_multiplier"`
	// SweepSpec is the cron spec (with seconds) of the optional idle sweep.
	// Empty disables it; idle users are then only reaped after refills.
	// default: ""
	SweepSpec string `mapstructure:"sweep_spec"`
}

// DefaultConfig returns the default configuration for the Store
func DefaultConfig() *Config {
	return &Config{
		TTL:               180 * time.Second,
		IdleTimeout:       15 * time.Minute,
		Workers:           2,
		QueueCapacity:     64,
		DefaultTarget:     2,
		MaxTarget:         5,
		AttemptMultiplier: 3,
	}
}

// MergeDefaults fills zero fields from DefaultConfig and returns c
func (c *Config) MergeDefaults() *Config {
	defaults := DefaultConfig()
	if c.TTL == 0 {
		c.TTL = defaults.TTL
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = defaults.IdleTimeout
	}
	if c.Workers == 0 {
		c.Workers = defaults.Workers
	}
	if c.QueueCapacity == 0 {
		c.QueueCapacity = defaults.QueueCapacity
	}
	if c.DefaultTarget == 0 {
		c.DefaultTarget = defaults.DefaultTarget
	}
	if c.MaxTarget == 0 {
		c.MaxTarget = defaults.MaxTarget
	}
	if c.AttemptMultiplier == 0 {
		c.AttemptMultiplier = defaults.AttemptMultiplier
	}
	return c
}

// Validate checks that every field has a usable value
func (c *Config) Validate() error {
	if c.TTL <= 0 {
		return ErrInvalidDuration("ttl", c.TTL)
	}
	if c.IdleTimeout <= 0 {
		return ErrInvalidDuration("idle_timeout", c.IdleTimeout)
	}
	if c.Workers < 1 {
		return ErrInvalidCount("workers", c.Workers)
	}
	if c.QueueCapacity < 1 {
		return ErrInvalidCount("queue_capacity", c.QueueCapacity)
	}
	if c.DefaultTarget < 1 {
		return ErrInvalidCount("default_target", c.DefaultTarget)
	}
	if c.MaxTarget < c.DefaultTarget {
		return ErrInvalidConfig("max_target must be >= default_target")
	}
	if c.AttemptMultiplier < 1 {
		return ErrInvalidCount("attempt_multiplier", c.AttemptMultiplier)
	}
	return nil
}

// ClampTarget bounds a caller-supplied per-category target to [1, MaxTarget]
func (c *Config) ClampTarget(target int) int {
	return min(max(target, 1), c.MaxTarget)
}
