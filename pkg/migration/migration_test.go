package migration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/muhammadchandra19/orderflow/pkg/logger"
	"github.com/muhammadchandra19/orderflow/pkg/questdb/mock"
)

func writeMigrations(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"20250101000000_create_feed_lines.up.sql":   "CREATE TABLE feed_lines (line STRING);",
		"20250101000000_create_feed_lines.down.sql": "DROP TABLE feed_lines;",
		"20250102000000_add_index.up.sql":           "ALTER TABLE feed_lines ADD COLUMN x INT;",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content+"\n"), 0o600))
	}
	return dir
}

func expectApplied(rows *mock.MockRowsInterface, ids ...string) {
	i := 0
	rows.EXPECT().Next().DoAndReturn(func() bool { return i < len(ids) }).Times(len(ids) + 1)
	if len(ids) > 0 {
		rows.EXPECT().Scan(gomock.Any()).DoAndReturn(func(dest ...any) error {
			*dest[0].(*string) = ids[i]
			i++
			return nil
		}).Times(len(ids))
	}
	rows.EXPECT().Err().Return(nil)
	rows.EXPECT().Close()
}

func TestRunner_LoadMigrations(t *testing.T) {
	r := NewRunner(nil, logger.NewFromZap(zaptest.NewLogger(t)), writeMigrations(t))

	migrations, err := r.LoadMigrations()
	require.NoError(t, err)
	require.Len(t, migrations, 2)

	assert.Equal(t, "20250101000000_create_feed_lines", migrations[0].ID)
	assert.Equal(t, "create_feed_lines", migrations[0].Name)
	assert.Equal(t, "DROP TABLE feed_lines;", migrations[0].DownSQL)
	assert.Equal(t, 2025, migrations[0].Timestamp.Year())
	assert.Empty(t, migrations[1].DownSQL)
}

func TestRunner_MigrateUp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock.NewMockQuestDBClient(ctrl)
	rows := mock.NewMockRowsInterface(ctrl)

	client.EXPECT().Query(gomock.Any(), gomock.Any()).Return(rows, nil)
	expectApplied(rows, "20250101000000_create_feed_lines")

	gomock.InOrder(
		client.EXPECT().Exec(gomock.Any(), "ALTER TABLE feed_lines ADD COLUMN x INT;").Return(nil),
		client.EXPECT().Exec(gomock.Any(), "INSERT INTO schema_migrations VALUES ($1, $2, now())", "20250102000000_add_index", "add_index").Return(nil),
	)

	r := NewRunner(client, logger.NewFromZap(zaptest.NewLogger(t)), writeMigrations(t))
	require.NoError(t, r.MigrateUp(context.Background(), 0))
}

func TestRunner_MigrateDown(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock.NewMockQuestDBClient(ctrl)
	rows := mock.NewMockRowsInterface(ctrl)

	client.EXPECT().Query(gomock.Any(), gomock.Any()).Return(rows, nil)
	expectApplied(rows, "20250101000000_create_feed_lines")

	gomock.InOrder(
		client.EXPECT().Exec(gomock.Any(), "DROP TABLE feed_lines;").Return(nil),
		client.EXPECT().Exec(gomock.Any(), "DELETE FROM schema_migrations WHERE id = $1", "20250101000000_create_feed_lines").Return(nil),
	)

	r := NewRunner(client, logger.NewFromZap(zaptest.NewLogger(t)), writeMigrations(t))
	require.NoError(t, r.MigrateDown(context.Background(), 1))
	assert.Error(t, r.MigrateDown(context.Background(), 0))
}
