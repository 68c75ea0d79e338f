package questdb

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/muhammadchandra19/orderflow/pkg/errors"
	"github.com/muhammadchandra19/orderflow/pkg/logger"
	"github.com/muhammadchandra19/orderflow/pkg/questdb"
)

// DefaultTable is the table written by the feed producer and the migrations.
const DefaultTable = "feed_lines"

// Columns is the column order used when copying feed lines into the table.
var Columns = []string{"session", "seq", "line", "ts"}

// Source reads one recorded session of feed lines from QuestDB.
type Source struct {
	client  questdb.QuestDBClient
	table   string
	session string
	logger  logger.Interface
}

// NewSource creates a new QuestDB source.
func NewSource(client questdb.QuestDBClient, table, session string, logger logger.Interface) *Source {
	if table == "" {
		table = DefaultTable
	}
	return &Source{
		client:  client,
		table:   table,
		session: session,
		logger:  logger,
	}
}

// Name returns the source name.
func (s *Source) Name() string {
	return fmt.Sprintf("questdb:%s/%s", s.table, s.session)
}

// ReadLines returns the session's lines ordered by sequence number.
func (s *Source) ReadLines(ctx context.Context) ([]string, error) {
	if s.session == "" {
		return nil, errors.NewErrorDetails("questdb feed session is empty", string(errors.FeedSourceError), "session")
	}

	query := fmt.Sprintf("SELECT line FROM %s WHERE session = $1 ORDER BY seq", pgx.Identifier{s.table}.Sanitize())

	rows, err := s.client.Query(ctx, query, s.session)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	defer rows.Close()

	lines := []string{}
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, errors.TracerFromError(err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.TracerFromError(err)
	}

	s.logger.DebugContext(ctx, "loaded feed session",
		logger.Field{Key: "table", Value: s.table},
		logger.Field{Key: "session", Value: s.session},
		logger.Field{Key: "lines", Value: len(lines)},
	)

	return lines, nil
}
