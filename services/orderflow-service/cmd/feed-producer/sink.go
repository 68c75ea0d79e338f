package main

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	goredis "github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/muhammadchandra19/orderflow/pkg/errors"
	"github.com/muhammadchandra19/orderflow/pkg/questdb"
	"github.com/muhammadchandra19/orderflow/pkg/redis"
	questdbFeed "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/infrastructure/feed/questdb"
	redisFeed "github.com/muhammadchandra19/orderflow/services/orderflow-service/internal/infrastructure/feed/redis"
)

// Sink publishes feed lines in order.
type Sink interface {
	Publish(ctx context.Context, lines []string) error
}

// WriterSink writes newline-delimited lines.
type WriterSink struct {
	w io.Writer
}

// Publish writes every line followed by a newline.
func (s WriterSink) Publish(ctx context.Context, lines []string) error {
	bw := bufio.NewWriter(s.w)
	for _, line := range lines {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// MessageWriter is the part of *kafka.Writer the sink needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaSink produces one message per line, keyed by sequence number.
type KafkaSink struct {
	writer    MessageWriter
	batchSize int
}

// Publish writes the lines in batches.
func (s KafkaSink) Publish(ctx context.Context, lines []string) error {
	batch := make([]kafka.Message, 0, s.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.writer.WriteMessages(ctx, batch...); err != nil {
			return errors.TracerFromError(err)
		}
		batch = batch[:0]
		return nil
	}

	for i, line := range lines {
		batch = append(batch, kafka.Message{
			Key:   []byte(strconv.Itoa(i)),
			Value: []byte(line),
		})
		if len(batch) >= s.batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}

// RedisSink appends each line to a stream under the line field.
type RedisSink struct {
	client redis.Client
	stream string
}

// Publish XADDs every line.
func (s RedisSink) Publish(ctx context.Context, lines []string) error {
	key := s.client.Key(s.stream)
	for _, line := range lines {
		if _, err := s.client.XAdd(ctx, &goredis.XAddArgs{
			Stream: key,
			Values: map[string]interface{}{redisFeed.LineField: line},
		}); err != nil {
			return err
		}
	}
	return nil
}

// QuestDBSink copies the lines of one session into the feed table.
type QuestDBSink struct {
	client  questdb.QuestDBClient
	table   string
	session string
	now     func() time.Time
}

// Publish bulk-loads lines with sequence numbers starting at zero.
func (s QuestDBSink) Publish(ctx context.Context, lines []string) error {
	if s.session == "" {
		return errors.NewErrorDetails("questdb feed session is empty", string(errors.FeedSourceError), "session")
	}

	ts := s.now().UTC()
	rows := make([][]any, 0, len(lines))
	for i, line := range lines {
		rows = append(rows, []any{s.session, int64(i), line, ts})
	}

	n, err := s.client.CopyFrom(ctx, pgx.Identifier{s.table}, questdbFeed.Columns, pgx.CopyFromRows(rows))
	if err != nil {
		return errors.TracerFromError(err)
	}
	if n != int64(len(lines)) {
		return errors.NewErrorDetailsWithObject("short copy into feed table", string(errors.FeedSourceError), "table", n)
	}
	return nil
}
