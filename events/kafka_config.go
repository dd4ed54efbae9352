package events

import (
	"strings"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// KafkaConfig configures KafkaSink
type KafkaConfig struct {
	// Brokers is the bootstrap broker list (required)
	Brokers []string `mapstructure:"brokers"`
	// Topic receives every event (required)
	Topic string `mapstructure:"topic"`
	// ClientID identifies the producer in broker logs
	ClientID string `mapstructure:"client_id"`
	// Acks is the number of broker acknowledgements: all, 1 or 0
	// default: "1"
	Acks string `mapstructure:"acks"`
	// Compression is one of none, gzip, snappy, lz4, zstd
	// default: "lz4"
	Compression string `mapstructure:"compression"`
	// LingerMs is how long the producer waits to fill a batch
	// default: 20
	LingerMs int `mapstructure:"linger_ms"`
	// MaxRetries bounds producer creation attempts and librdkafka retries
	// default: 3
	MaxRetries int `mapstructure:"max_retries"`
	// FlushTimeout bounds the final flush on Close
	// default: 5s
	FlushTimeout time.Duration `mapstructure:"flush_timeout"`
	// SkipValidation skips the metadata probe on startup
	SkipValidation bool `mapstructure:"skip_validation"`
}

// DefaultKafkaConfig returns the default configuration
func DefaultKafkaConfig() *KafkaConfig {
	return &KafkaConfig{
		Acks:         "1",
		Compression:  "lz4",
		LingerMs:     20,
		MaxRetries:   3,
		FlushTimeout: 5 * time.Second,
	}
}

// MergeDefaults fills zero fields from DefaultKafkaConfig and returns c
func (c *KafkaConfig) MergeDefaults() *KafkaConfig {
	defaults := DefaultKafkaConfig()
	if c.Acks == "" {
		c.Acks = defaults.Acks
	}
	if c.Compression == "" {
		c.Compression = defaults.Compression
	}
	if c.LingerMs == 0 {
		c.LingerMs = defaults.LingerMs
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = defaults.MaxRetries
	}
	if c.FlushTimeout == 0 {
		c.FlushTimeout = defaults.FlushTimeout
	}
	return c
}

// Validate validates the configuration
func (c *KafkaConfig) Validate() error {
	if len(c.Brokers) == 0 {
		return ErrInvalidConfig("kafka brokers are required")
	}
	if strings.TrimSpace(c.Topic) == "" {
		return ErrInvalidConfig("kafka topic is required")
	}
	if c.LingerMs < 0 {
		return ErrInvalidConfig("kafka linger_ms cannot be negative")
	}
	if c.MaxRetries < 1 {
		return ErrInvalidConfig("kafka max_retries must be >= 1")
	}
	if c.FlushTimeout <= 0 {
		return ErrInvalidConfig("kafka flush_timeout must be > 0")
	}
	return nil
}

// ConfigMap builds the librdkafka producer configuration
func (c *KafkaConfig) ConfigMap() *kafka.ConfigMap {
	configMap := &kafka.ConfigMap{
		"bootstrap.servers": strings.Join(c.Brokers, ","),
		"acks":              strings.ToLower(c.Acks),
		"compression.type":  strings.ToLower(c.Compression),
		"linger.ms":         c.LingerMs,
		"retries":           c.MaxRetries,
	}
	if c.ClientID != "" {
		_ = configMap.SetKey("client.id", c.ClientID)
	}
	return configMap
}
