package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/muhammadchandra19/orderflow/pkg/logger"
	"github.com/muhammadchandra19/orderflow/pkg/questdb"
	"github.com/muhammadchandra19/orderflow/pkg/redis"
	"github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/infrastructure/feed/kafka"
)

// Feed source kinds.
const (
	SourceFile    = "file"
	SourceKafka   = "kafka"
	SourceRedis   = "redis"
	SourceQuestDB = "questdb"
)

// Config represents the application configuration.
type Config struct {
	App      AppConfig      `envPrefix:"APP_"`
	Pipeline PipelineConfig `envPrefix:"PIPELINE_"`
	Feed     FeedConfig     `envPrefix:"FEED_"`
	Kafka    kafka.Config   `envPrefix:"FEED_KAFKA_"`
	Redis    RedisConfig    `envPrefix:"FEED_REDIS_"`
	QuestDB  QuestDBConfig  `envPrefix:"QUESTDB_"`
}

// AppConfig represents the application configuration.
type AppConfig struct {
	Name        string `env:"NAME" envDefault:"orderflow-service"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Port        int    `env:"PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogTimeKey  string `env:"LOG_TIME_KEY"`
	LogLevelKey string `env:"LOG_LEVEL_KEY"`

	// MaxBodyBytes limits the feed accepted in one HTTP request body.
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" envDefault:"268435456"`
}

// LoggerOptions returns the logger options of the app section. outputPaths
// replaces zap's default stderr sink when given.
func (c AppConfig) LoggerOptions(outputPaths ...string) []logger.Options {
	opts := []logger.Options{
		logger.WithLoggingLevel(logger.Level(c.LogLevel)),
		logger.WithTimeKey(c.LogTimeKey),
		logger.WithLevelKey(c.LogLevelKey),
	}
	if len(outputPaths) > 0 {
		opts = append(opts, logger.WithOutputPaths(outputPaths))
	}
	return opts
}

// PipelineConfig holds the default run parameters.
type PipelineConfig struct {
	Instrument         string `env:"INSTRUMENT"`
	Interval           string `env:"INTERVAL" envDefault:"30s"`
	ThresholdQ         int64  `env:"THRESHOLD_Q" envDefault:"20"`
	ThresholdBigPlayer int64  `env:"THRESHOLD_BIG_PLAYER" envDefault:"50"`
}

// FeedConfig selects where feed lines are read from.
type FeedConfig struct {
	Source   string `env:"SOURCE" envDefault:"file"`
	FilePath string `env:"FILE_PATH"`
}

// RedisConfig is the Redis stream feed configuration.
type RedisConfig struct {
	redis.Config
	Stream   string `env:"STREAM" envDefault:"feed"`
	PageSize int64  `env:"PAGE_SIZE" envDefault:"500"`
}

// QuestDBConfig is the QuestDB connection plus the recorded feed session to replay.
type QuestDBConfig struct {
	questdb.Config
	FeedTable string `env:"FEED_TABLE" envDefault:"feed_lines"`
	Session   string `env:"SESSION"`
}

// Load loads the configuration from the environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}
