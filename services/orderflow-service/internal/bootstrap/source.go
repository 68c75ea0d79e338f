package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/muhammadchandra19/orderflow/pkg/errors"
	"github.com/muhammadchandra19/orderflow/pkg/logger"
	"github.com/muhammadchandra19/orderflow/pkg/questdb"
	"github.com/muhammadchandra19/orderflow/pkg/redis"
	feedDomain "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/domain/feed"
	"github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/infrastructure/feed/file"
	kafkaFeed "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/infrastructure/feed/kafka"
	questdbFeed "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/infrastructure/feed/questdb"
	redisFeed "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/infrastructure/feed/redis"
	"github.com/muhammadchandra19/orderflow/services/orderflow-service/pkg/config"
)

// Feed is a configured feed source together with the client it holds.
type Feed struct {
	Source feedDomain.Source
	// Ping probes the backing store.
	Ping func(ctx context.Context) error
	// Close releases the backing client. Never nil.
	Close func()
}

// NewFeed builds the feed source selected by cfg.Feed.Source.
func NewFeed(ctx context.Context, cfg *config.Config, log logger.Interface) (*Feed, error) {
	switch cfg.Feed.Source {
	case config.SourceFile, "":
		path := cfg.Feed.FilePath
		return &Feed{
			Source: file.NewSource(path, log),
			Ping: func(ctx context.Context) error {
				_, err := os.Stat(path)
				return err
			},
			Close: func() {},
		}, nil

	case config.SourceKafka:
		src := kafkaFeed.NewSource(cfg.Kafka, log)
		return &Feed{Source: src, Ping: src.Ping, Close: func() {}}, nil

	case config.SourceRedis:
		client := redis.NewClient(log, &cfg.Redis.Config)
		if err := client.Connect(ctx); err != nil {
			return nil, err
		}
		return &Feed{
			Source: redisFeed.NewSource(client, cfg.Redis.Stream, cfg.Redis.PageSize, log),
			Ping:   client.Ping,
			Close: func() {
				if err := client.Disconnect(context.Background()); err != nil {
					log.Error(errors.TracerFromError(err), logger.Field{Key: "action", Value: "redis_disconnect"})
				}
			},
		}, nil

	case config.SourceQuestDB:
		client, err := questdb.NewClient(ctx, cfg.QuestDB.Config)
		if err != nil {
			return nil, errors.TracerFromError(err)
		}
		return &Feed{
			Source: questdbFeed.NewSource(client, cfg.QuestDB.FeedTable, cfg.QuestDB.Session, log),
			Ping:   client.Ping,
			Close:  client.Close,
		}, nil
	}

	return nil, errors.NewErrorDetailsWithObject(
		fmt.Sprintf("unknown feed source %q", cfg.Feed.Source),
		string(errors.FeedSourceError),
		"source",
		cfg.Feed.Source,
	)
}
