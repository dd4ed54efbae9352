package events

import (
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// ClickHouseConfig configures ClickHouseSink
type ClickHouseConfig struct {
	Hosts       []string      `mapstructure:"hosts"`
	Database    string        `mapstructure:"database"`
	Username    string        `mapstructure:"username"`
	Password    string        `mapstructure:"password"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	Debug       bool          `mapstructure:"debug"`
	// Settings are passed to every query
	Settings clickhouse.Settings `mapstructure:"settings"`

	// Table receives the events
	// default: "speech_events"
	Table string `mapstructure:"table"`
	// CreateTable runs CREATE TABLE IF NOT EXISTS on startup
	CreateTable bool `mapstructure:"create_table"`
	// FlushSize triggers a flush once this many events are buffered
	// default: 500
	FlushSize int `mapstructure:"flush_size"`
	// FlushInterval flushes whatever is buffered on every tick
	// default: 5s
	FlushInterval time.Duration `mapstructure:"flush_interval"`
	// WriteTimeout bounds one batch insert
	// default: 10s
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DefaultClickHouseConfig returns the default configuration
func DefaultClickHouseConfig() *ClickHouseConfig {
	return &ClickHouseConfig{
		Database:      "default",
		DialTimeout:   10 * time.Second,
		Table:         "speech_events",
		FlushSize:     500,
		FlushInterval: 5 * time.Second,
		WriteTimeout:  10 * time.Second,
	}
}

// MergeDefaults fills zero fields from DefaultClickHouseConfig and returns c
func (c *ClickHouseConfig) MergeDefaults() *ClickHouseConfig {
	defaults := DefaultClickHouseConfig()
	if c.Database == "" {
		c.Database = defaults.Database
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = defaults.DialTimeout
	}
	if c.Table == "" {
		c.Table = defaults.Table
	}
	if c.FlushSize == 0 {
		c.FlushSize = defaults.FlushSize
	}
	if c.FlushInterval == 0 {
		c.FlushInterval = defaults.FlushInterval
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = defaults.WriteTimeout
	}
	return c
}

// Validate validates the configuration. Connection fields are checked by
// NewClickHouseSink only.
func (c *ClickHouseConfig) Validate() error {
	if strings.ContainsAny(c.Table, "` ;") || c.Table == "" {
		return ErrInvalidConfig("clickhouse table name is invalid")
	}
	if c.FlushSize < 1 {
		return ErrInvalidConfig("clickhouse flush_size must be >= 1")
	}
	if c.FlushInterval <= 0 {
		return ErrInvalidConfig("clickhouse flush_interval must be > 0")
	}
	if c.WriteTimeout <= 0 {
		return ErrInvalidConfig("clickhouse write_timeout must be > 0")
	}
	return nil
}

func (c *ClickHouseConfig) validateConnection() error {
	if len(c.Hosts) == 0 {
		return ErrInvalidConfig("clickhouse hosts are required")
	}
	if c.Username == "" {
		return ErrInvalidConfig("clickhouse username is required")
	}
	return nil
}
