package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	sc := cfg.SpeechConfig()
	assert.Equal(t, 180*time.Second, sc.TTL)
	assert.Equal(t, 15*time.Minute, sc.IdleTimeout)
	assert.Equal(t, 3, sc.AttemptMultiplier)
	assert.Empty(t, sc.SweepSpec)
	require.NoError(t, sc.Validate())

	require.NoError(t, cfg.GatewayConfig().Validate())
	require.NoError(t, cfg.LoggerConfig().Validate())

	_, enabled := cfg.OpenAIConfig()
	assert.False(t, enabled)
	assert.Nil(t, cfg.DBConfig())
	assert.Nil(t, cfg.KafkaConfig())
	assert.Nil(t, cfg.ClickHouseConfig())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SPEECHD_HTTP_ADDR", ":9000")
	t.Setenv("SPEECHD_SPEECH_TTL", "30s")
	t.Setenv("SPEECHD_SPEECH_SWEEP_SPEC", " @every 5m ")
	t.Setenv("SPEECHD_OPENAI_API_KEY", "sk-test")
	t.Setenv("SPEECHD_MYSQL_HOST", "db.internal")
	t.Setenv("SPEECHD_MYSQL_USER", "speech")
	t.Setenv("SPEECHD_KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("SPEECHD_CLICKHOUSE_HOSTS", "ch1:9000")
	t.Setenv("SPEECHD_CLICKHOUSE_FLUSH_SIZE", "50")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, 30*time.Second, cfg.SpeechConfig().TTL)
	assert.Equal(t, "@every 5m", cfg.SpeechConfig().SweepSpec)

	oc, enabled := cfg.OpenAIConfig()
	assert.True(t, enabled)
	assert.Equal(t, "sk-test", oc.APIKey)
	assert.Equal(t, "gpt-4o-mini", oc.Model)

	dc := cfg.DBConfig()
	require.NotNil(t, dc)
	assert.Equal(t, "db.internal", dc.Host)
	assert.Equal(t, 3306, dc.Port)

	kc := cfg.KafkaConfig()
	require.NotNil(t, kc)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, kc.Brokers)
	assert.Equal(t, "speech-events", kc.Topic)

	cc := cfg.ClickHouseConfig()
	require.NotNil(t, cc)
	assert.Equal(t, 50, cc.FlushSize)
	assert.Equal(t, "speech_events", cc.Table)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("SPEECHD_SPEECH_WORKERS", "many")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: parse env:")
}
