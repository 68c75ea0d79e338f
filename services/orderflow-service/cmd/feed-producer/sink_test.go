package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/jackc/pgx/v5"
	goredis "github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/muhammadchandra19/orderflow/pkg/errors"
	questdb_mock "github.com/muhammadchandra19/orderflow/pkg/questdb/mock"
	redis_mock "github.com/muhammadchandra19/orderflow/pkg/redis/mock"
)

type recordingWriter struct {
	batches [][]kafka.Message
	err     error
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	batch := make([]kafka.Message, len(msgs))
	copy(batch, msgs)
	w.batches = append(w.batches, batch)
	return nil
}

func TestWriterSink_Publish(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriterSink{w: &buf}.Publish(context.Background(), []string{"a", "b"}))
	assert.Equal(t, "a\nb\n", buf.String())
}

func TestKafkaSink_Publish(t *testing.T) {
	w := &recordingWriter{}
	sink := KafkaSink{writer: w, batchSize: 2}

	require.NoError(t, sink.Publish(context.Background(), []string{"a", "b", "c"}))
	require.Len(t, w.batches, 2)
	assert.Len(t, w.batches[0], 2)
	assert.Equal(t, "c", string(w.batches[1][0].Value))
	assert.Equal(t, "2", string(w.batches[1][0].Key))

	w.err = errors.New("broker down")
	assert.EqualError(t, sink.Publish(context.Background(), []string{"a"}), "broker down")
}

func TestRedisSink_Publish(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := redis_mock.NewMockClient(ctrl)
	client.EXPECT().Key("feed").Return("orderflow:feed")
	gomock.InOrder(
		client.EXPECT().XAdd(gomock.Any(), &goredis.XAddArgs{
			Stream: "orderflow:feed",
			Values: map[string]interface{}{"line": "a"},
		}).Return("1-0", nil),
		client.EXPECT().XAdd(gomock.Any(), &goredis.XAddArgs{
			Stream: "orderflow:feed",
			Values: map[string]interface{}{"line": "b"},
		}).Return("", pkgerrors.NewErrorDetails("fail", string(pkgerrors.RedisXAddError), "xadd")),
	)

	err := RedisSink{client: client, stream: "feed"}.Publish(context.Background(), []string{"a", "b", "c"})
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.RedisXAddError))
}

func TestQuestDBSink_Publish(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 15, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		session  string
		mockFn   func(client *questdb_mock.MockQuestDBClient)
		assertFn func(t *testing.T, err error)
	}{
		{
			name:    "copies all rows",
			session: "s1",
			mockFn: func(client *questdb_mock.MockQuestDBClient) {
				client.EXPECT().
					CopyFrom(gomock.Any(), pgx.Identifier{"feed_lines"}, []string{"session", "seq", "line", "ts"}, gomock.Any()).
					DoAndReturn(func(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error) {
						var n int64
						for src.Next() {
							values, err := src.Values()
							require.NoError(t, err)
							assert.Equal(t, []any{"s1", n, []string{"a", "b"}[n], now}, values)
							n++
						}
						return n, nil
					})
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:    "short copy",
			session: "s1",
			mockFn: func(client *questdb_mock.MockQuestDBClient) {
				client.EXPECT().CopyFrom(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil)
			},
			assertFn: func(t *testing.T, err error) {
				assert.True(t, pkgerrors.HasCode(err, pkgerrors.FeedSourceError))
			},
		},
		{
			name:    "missing session",
			session: "",
			mockFn:  func(client *questdb_mock.MockQuestDBClient) {},
			assertFn: func(t *testing.T, err error) {
				assert.True(t, pkgerrors.HasCode(err, pkgerrors.FeedSourceError))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			client := questdb_mock.NewMockQuestDBClient(ctrl)
			tc.mockFn(client)

			sink := QuestDBSink{client: client, table: "feed_lines", session: tc.session, now: func() time.Time { return now }}
			tc.assertFn(t, sink.Publish(context.Background(), []string{"a", "b"}))
		})
	}
}
