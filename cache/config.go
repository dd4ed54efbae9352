package cache

import "time"

// SyncableCacheConfig holds configuration for SyncableCache
type SyncableCacheConfig struct {
	// Name is used for logging purposes to identify the cache (required)
	Name string `mapstructure:"name"`
	// SyncInterval is the interval between periodic sync operations
	// default: 5 * time.Minute
	SyncInterval time.Duration `mapstructure:"sync_interval"`
	// SyncTimeout is the timeout for each sync attempt
	// default: 30 * time.Second
	SyncTimeout time.Duration `mapstructure:"sync_timeout"`
	// MaxRetries is the maximum number of attempts per sync
	// default: 3
	MaxRetries int `mapstructure:"max_retries"`
	// RetryBackoff is the wait before the second attempt; it doubles after
	// every further failure
	// default: 1 * time.Second
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
}

// DefaultSyncableCacheConfig returns the default configuration.
// Name has no default and must be set by the caller.
func DefaultSyncableCacheConfig() *SyncableCacheConfig {
	return &SyncableCacheConfig{
		SyncInterval: 5 * time.Minute,
		SyncTimeout:  30 * time.Second,
		MaxRetries:   3,
		RetryBackoff: time.Second,
	}
}

// MergeDefaults fills zero fields from the defaults and returns c
func (c *SyncableCacheConfig) MergeDefaults() *SyncableCacheConfig {
	defaults := DefaultSyncableCacheConfig()
	if c.SyncInterval == 0 {
		c.SyncInterval = defaults.SyncInterval
	}
	if c.SyncTimeout == 0 {
		c.SyncTimeout = defaults.SyncTimeout
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = defaults.MaxRetries
	}
	if c.RetryBackoff == 0 {
		c.RetryBackoff = defaults.RetryBackoff
	}
	return c
}

// Validate validates the configuration
func (c *SyncableCacheConfig) Validate() error {
	if c.Name == "" {
		return ErrInvalidName(c.Name)
	}
	if c.SyncInterval <= 0 {
		return ErrInvalidSyncInterval(c.SyncInterval)
	}
	if c.SyncTimeout <= 0 {
		return ErrInvalidSyncTimeout(c.SyncTimeout)
	}
	if c.MaxRetries < 1 {
		return ErrInvalidMaxRetries(c.MaxRetries)
	}
	if c.RetryBackoff < 0 {
		return ErrInvalidConfig
	}
	return nil
}
