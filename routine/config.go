package routine

// PoolConfig is the configuration for a worker pool
type PoolConfig struct {
	// Name identifies the pool in logs
	// default: "pool"
	Name string `mapstructure:"name"`
	// Workers is the number of goroutines running jobs
	// default: 2
	Workers int `mapstructure:"workers"`
	// QueueCapacity is the initial capacity of the job queue; the queue
	// grows past it instead of blocking submitters
	// default: 64
	QueueCapacity int `mapstructure:"queue_capacity"`
}

// DefaultPoolConfig returns the default configuration for a worker pool
func DefaultPoolConfig() *PoolConfig {
	return &PoolConfig{
		Name:          "pool",
		Workers:       2,
		QueueCapacity: 64,
	}
}

// MergeDefaults fills zero fields from DefaultPoolConfig and returns c
func (c *PoolConfig) MergeDefaults() *PoolConfig {
	defaults := DefaultPoolConfig()
	if c.Name == "" {
		c.Name = defaults.Name
	}
	if c.Workers == 0 {
		c.Workers = defaults.Workers
	}
	if c.QueueCapacity == 0 {
		c.QueueCapacity = defaults.QueueCapacity
	}
	return c
}

// Validate validates the configuration for a worker pool
func (c *PoolConfig) Validate() error {
	if c.Workers < 1 {
		return ErrInvalidConfig("workers must be >= 1")
	}
	if c.QueueCapacity < 1 {
		return ErrInvalidConfig("queue_capacity must be >= 1")
	}
	return nil
}
