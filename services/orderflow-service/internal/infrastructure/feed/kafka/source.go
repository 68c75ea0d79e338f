package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/muhammadchandra19/orderflow/pkg/errors"
	"github.com/muhammadchandra19/orderflow/pkg/logger"
)

// Config is the Kafka feed source configuration.
type Config struct {
	Brokers     []string      `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic       string        `env:"TOPIC" envDefault:"market-feed"`
	Partition   int           `env:"PARTITION" envDefault:"0"`
	ReadTimeout time.Duration `env:"READ_TIMEOUT" envDefault:"30s"`
}

//go:generate mockgen -source=source.go -destination=mock/source_mock.go -package=mock

// MessageReader is the part of *kafka.Reader the source needs.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// OffsetFunc returns the first offset and the high-water mark of the partition.
type OffsetFunc func(ctx context.Context) (first, last int64, err error)

// Source replays one partition of a topic from its first offset up to the
// high-water mark observed when ReadLines starts. Later messages are not read.
type Source struct {
	config    Config
	logger    logger.Interface
	newReader func() MessageReader
	offsets   OffsetFunc
}

// NewSource creates a new Kafka source.
func NewSource(config Config, logger logger.Interface) *Source {
	s := &Source{config: config, logger: logger}
	s.newReader = func() MessageReader {
		return kafka.NewReader(kafka.ReaderConfig{
			Brokers:     config.Brokers,
			Topic:       config.Topic,
			Partition:   config.Partition,
			MinBytes:    1,
			MaxBytes:    10e6,
			StartOffset: kafka.FirstOffset,
		})
	}
	s.offsets = s.readOffsets
	return s
}

// Name returns the source name.
func (s *Source) Name() string {
	return "kafka:" + s.config.Topic
}

// ReadLines returns the value of every message in [first, high-water).
func (s *Source) ReadLines(ctx context.Context) ([]string, error) {
	if s.config.ReadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.ReadTimeout)
		defer cancel()
	}

	first, last, err := s.offsets(ctx)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}

	s.logger.InfoContext(ctx, "replaying kafka partition",
		logger.Field{Key: "topic", Value: s.config.Topic},
		logger.Field{Key: "partition", Value: s.config.Partition},
		logger.Field{Key: "first_offset", Value: first},
		logger.Field{Key: "high_water", Value: last},
	)

	if last <= first {
		return []string{}, nil
	}

	reader := s.newReader()
	defer func() {
		if err := reader.Close(); err != nil {
			s.logger.ErrorContext(ctx, errors.TracerFromError(err), logger.Field{Key: "action", Value: "close_reader"})
		}
	}()

	lines := make([]string, 0, last-first)
	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			return nil, errors.TracerFromError(err)
		}
		if msg.Offset >= last {
			break
		}
		if len(msg.Value) > 0 {
			lines = append(lines, string(msg.Value))
		}
		if msg.Offset >= last-1 {
			break
		}
	}

	return lines, nil
}

// Ping dials the partition leader.
func (s *Source) Ping(ctx context.Context) error {
	_, _, err := s.offsets(ctx)
	return err
}

func (s *Source) readOffsets(ctx context.Context) (int64, int64, error) {
	if len(s.config.Brokers) == 0 {
		return 0, 0, errors.NewErrorDetails("kafka brokers are empty", string(errors.FeedSourceError), "brokers")
	}

	conn, err := kafka.DialLeader(ctx, "tcp", s.config.Brokers[0], s.config.Topic, s.config.Partition)
	if err != nil {
		return 0, 0, err
	}
	defer conn.Close()

	return conn.ReadOffsets()
}
