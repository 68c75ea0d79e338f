package redis

import (
	"context"

	"github.com/muhammadchandra19/orderflow/pkg/errors"
	"github.com/muhammadchandra19/orderflow/pkg/logger"
	"github.com/muhammadchandra19/orderflow/pkg/redis"
)

// LineField is the stream entry field holding the raw feed line.
const LineField = "line"

const defaultPageSize int64 = 500

// Source reads a Redis stream from its first entry to its last in pages.
type Source struct {
	client   redis.Client
	stream   string
	pageSize int64
	logger   logger.Interface
}

// NewSource creates a new Redis stream source. The stream name is prefixed by the client.
func NewSource(client redis.Client, stream string, pageSize int64, logger logger.Interface) *Source {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Source{
		client:   client,
		stream:   stream,
		pageSize: pageSize,
		logger:   logger,
	}
}

// Name returns the source name.
func (s *Source) Name() string {
	return "redis:" + s.stream
}

// ReadLines returns the line field of every entry in stream order.
// Entries without a string line field are skipped.
func (s *Source) ReadLines(ctx context.Context) ([]string, error) {
	if s.stream == "" {
		return nil, errors.NewErrorDetails("redis stream is empty", string(errors.FeedSourceError), "stream")
	}

	key := s.client.Key(s.stream)
	start := "-"
	lines := []string{}
	skipped := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		messages, err := s.client.XRangeN(ctx, key, start, "+", s.pageSize)
		if err != nil {
			return nil, errors.TracerFromError(err)
		}

		for _, msg := range messages {
			line, ok := msg.Values[LineField].(string)
			if !ok || line == "" {
				skipped++
				continue
			}
			lines = append(lines, line)
		}

		if int64(len(messages)) < s.pageSize {
			break
		}
		start = "(" + messages[len(messages)-1].ID
	}

	if skipped > 0 {
		s.logger.WarnContext(ctx, "stream entries without a line field",
			logger.Field{Key: "stream", Value: key},
			logger.Field{Key: "skipped", Value: skipped},
		)
	}

	return lines, nil
}
