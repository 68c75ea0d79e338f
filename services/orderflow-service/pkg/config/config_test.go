package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammadchandra19/orderflow/pkg/logger"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "orderflow-service", cfg.App.Name)
	assert.Equal(t, "30s", cfg.Pipeline.Interval)
	assert.Equal(t, int64(20), cfg.Pipeline.ThresholdQ)
	assert.Equal(t, int64(50), cfg.Pipeline.ThresholdBigPlayer)
	assert.Equal(t, SourceFile, cfg.Feed.Source)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 30*time.Second, cfg.Kafka.ReadTimeout)
	assert.Equal(t, "feed", cfg.Redis.Stream)
	assert.Equal(t, []string{"localhost:6379"}, cfg.Redis.Addrs)
	assert.Equal(t, 8812, cfg.QuestDB.Port)
	assert.Equal(t, "feed_lines", cfg.QuestDB.FeedTable)
	assert.Equal(t, int64(256<<20), cfg.App.MaxBodyBytes)
	assert.Empty(t, cfg.App.LogTimeKey)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PIPELINE_INSTRUMENT", "NSE_FO|45450")
	t.Setenv("PIPELINE_INTERVAL", "1 minute")
	t.Setenv("FEED_SOURCE", "redis")
	t.Setenv("FEED_REDIS_STREAM", "ticks")
	t.Setenv("FEED_REDIS_PREFIX_KEY", "test:")
	t.Setenv("FEED_KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("QUESTDB_SESSION", "morning")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "NSE_FO|45450", cfg.Pipeline.Instrument)
	assert.Equal(t, "1 minute", cfg.Pipeline.Interval)
	assert.Equal(t, SourceRedis, cfg.Feed.Source)
	assert.Equal(t, "ticks", cfg.Redis.Stream)
	assert.Equal(t, "test:", cfg.Redis.PrefixKey)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "morning", cfg.QuestDB.Session)
}

func TestAppConfig_LoggerOptions(t *testing.T) {
	t.Setenv("APP_LOG_LEVEL", "debug")
	t.Setenv("APP_LOG_TIME_KEY", "timestamp")
	t.Setenv("APP_LOG_LEVEL_KEY", "severity")

	cfg, err := Load()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "app.log")
	log, err := logger.NewLogger(cfg.App.LoggerOptions(path)...)
	require.NoError(t, err)

	log.Debug("configured")
	require.NoError(t, log.Sync())

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"severity":"debug"`)
	assert.Contains(t, string(out), `"timestamp":`)
	assert.Contains(t, string(out), `"message":"configured"`)
}
