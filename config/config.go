// Package config reads speechd settings from SPEECHD_* environment
// variables and converts them into each package's Config.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/MinJeongKimm/SOLSOLHEY-sub000/db"
	"github.com/MinJeongKimm/SOLSOLHEY-sub000/events"
	"github.com/MinJeongKimm/SOLSOLHEY-sub000/gateway"
	"github.com/MinJeongKimm/SOLSOLHEY-sub000/logger"
	"github.com/MinJeongKimm/SOLSOLHEY-sub000/speech"
	"github.com/caarlos0/env/v11"
)

// Config is the full speechd configuration
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Log        Log        `envPrefix:"LOG_"`
	Speech     Speech     `envPrefix:"SPEECH_"`
	Gateway    Gateway    `envPrefix:"GATEWAY_"`
	OpenAI     OpenAI     `envPrefix:"OPENAI_"`
	MySQL      MySQL      `envPrefix:"MYSQL_"`
	Kafka      Kafka      `envPrefix:"KAFKA_"`
	ClickHouse ClickHouse `envPrefix:"CLICKHOUSE_"`
}

// Log configures the process logger
type Log struct {
	Level    string `env:"LEVEL" envDefault:"info"`
	Encoding string `env:"ENCODING" envDefault:"json"`
}

// Speech configures the buffer store
type Speech struct {
	TTL               time.Duration `env:"TTL" envDefault:"180s"`
	IdleTimeout       time.Duration `env:"IDLE_TIMEOUT" envDefault:"15m"`
	Workers           int           `env:"WORKERS" envDefault:"2"`
	QueueCapacity     int           `env:"QUEUE_CAPACITY" envDefault:"64"`
	DefaultTarget     int           `env:"DEFAULT_TARGET" envDefault:"2"`
	MaxTarget         int           `env:"MAX_TARGET" envDefault:"5"`
	AttemptMultiplier int           `env:"ATTEMPT_MULTIPLIER" envDefault:"3"`
	SweepSpec         string        `env:"SWEEP_SPEC"`
}

// Gateway configures speech generation
type Gateway struct {
	Timeout        time.Duration `env:"TIMEOUT" envDefault:"8s"`
	ProfileTimeout time.Duration `env:"PROFILE_TIMEOUT" envDefault:"1s"`
	MaxRunes       int           `env:"MAX_RUNES" envDefault:"60"`
	LinesRefresh   time.Duration `env:"LINES_REFRESH" envDefault:"10m"`
}

// OpenAI configures the model provider. An empty APIKey disables it.
type OpenAI struct {
	APIKey          string `env:"API_KEY"`
	Model           string `env:"MODEL" envDefault:"gpt-4o-mini"`
	ResponsesURL    string `env:"RESPONSES_URL"`
	MaxOutputTokens int    `env:"MAX_OUTPUT_TOKENS" envDefault:"60"`
}

// MySQL configures the profile database. An empty Host disables it.
type MySQL struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"3306"`
	User     string `env:"USER"`
	Password string `env:"PASSWORD"`
	Database string `env:"DATABASE"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"warn"`
}

// Kafka configures the Kafka event sink. No brokers disables it.
type Kafka struct {
	Brokers  []string `env:"BROKERS" envSeparator:","`
	Topic    string   `env:"TOPIC" envDefault:"speech-events"`
	ClientID string   `env:"CLIENT_ID" envDefault:"speechd"`
}

// ClickHouse configures the ClickHouse event sink. No hosts disables it.
type ClickHouse struct {
	Hosts         []string      `env:"HOSTS" envSeparator:","`
	Database      string        `env:"DATABASE" envDefault:"default"`
	Username      string        `env:"USERNAME"`
	Password      string        `env:"PASSWORD"`
	Table         string        `env:"TABLE" envDefault:"speech_events"`
	CreateTable   bool          `env:"CREATE_TABLE"`
	FlushSize     int           `env:"FLUSH_SIZE" envDefault:"500"`
	FlushInterval time.Duration `env:"FLUSH_INTERVAL" envDefault:"5s"`
}

// Load parses SPEECHD_* environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "SPEECHD_"}); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	return &cfg, nil
}

// LoggerConfig converts Log to a logger.Config
func (c *Config) LoggerConfig() *logger.Config {
	return &logger.Config{Level: c.Log.Level, Encoding: c.Log.Encoding}
}

// SpeechConfig converts Speech to a speech.Config
func (c *Config) SpeechConfig() *speech.Config {
	s := c.Speech
	return &speech.Config{
		TTL:               s.TTL,
		IdleTimeout:       s.IdleTimeout,
		Workers:           s.Workers,
		QueueCapacity:     s.QueueCapacity,
		DefaultTarget:     s.DefaultTarget,
		MaxTarget:         s.MaxTarget,
		AttemptMultiplier: s.AttemptMultiplier,
		SweepSpec:         strings.TrimSpace(s.SweepSpec),
	}
}

// GatewayConfig converts Gateway to a gateway.Config
func (c *Config) GatewayConfig() *gateway.Config {
	g := c.Gateway
	return &gateway.Config{
		Timeout:        g.Timeout,
		ProfileTimeout: g.ProfileTimeout,
		MaxRunes:       g.MaxRunes,
		LinesRefresh:   g.LinesRefresh,
	}
}

// OpenAIConfig returns the provider config, or false when no key is set
func (c *Config) OpenAIConfig() (gateway.OpenAIConfig, bool) {
	o := c.OpenAI
	return gateway.OpenAIConfig{
		APIKey:          o.APIKey,
		Model:           o.Model,
		ResponsesURL:    o.ResponsesURL,
		MaxOutputTokens: o.MaxOutputTokens,
	}, strings.TrimSpace(o.APIKey) != ""
}

// DBConfig returns the database config, or nil when MySQL is disabled
func (c *Config) DBConfig() *db.Config {
	m := c.MySQL
	if strings.TrimSpace(m.Host) == "" {
		return nil
	}
	return &db.Config{
		Host:     m.Host,
		Port:     m.Port,
		User:     m.User,
		Password: m.Password,
		Database: m.Database,
		LogLevel: m.LogLevel,
	}
}

// KafkaConfig returns the Kafka sink config, or nil when disabled
func (c *Config) KafkaConfig() *events.KafkaConfig {
	k := c.Kafka
	if len(k.Brokers) == 0 {
		return nil
	}
	return &events.KafkaConfig{Brokers: k.Brokers, Topic: k.Topic, ClientID: k.ClientID}
}

// ClickHouseConfig returns the ClickHouse sink config, or nil when disabled
func (c *Config) ClickHouseConfig() *events.ClickHouseConfig {
	ch := c.ClickHouse
	if len(ch.Hosts) == 0 {
		return nil
	}
	return &events.ClickHouseConfig{
		Hosts:         ch.Hosts,
		Database:      ch.Database,
		Username:      ch.Username,
		Password:      ch.Password,
		Table:         ch.Table,
		CreateTable:   ch.CreateTable,
		FlushSize:     ch.FlushSize,
		FlushInterval: ch.FlushInterval,
	}
}
