package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresFromPool(mock), mock
}

func TestPostgresGetHit(t *testing.T) {
	ctx := context.Background()
	s, mock := newPostgresStore(t)

	entry := testEntry()
	entry.Key = "k"
	entry.CreatedAt = time.Now().UTC()
	entry.TTL = time.Hour
	raw, err := json.Marshal(entry)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT entry FROM media_cache`).
		WithArgs("k", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"entry"}).AddRow(raw))

	got, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "k", got.Key)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetMiss(t *testing.T) {
	ctx := context.Background()
	s, mock := newPostgresStore(t)

	mock.ExpectQuery(`SELECT entry FROM media_cache`).
		WithArgs("missing", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"entry"}))

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSet(t *testing.T) {
	ctx := context.Background()
	s, mock := newPostgresStore(t)

	mock.ExpectExec(`INSERT INTO media_cache`).
		WithArgs("k", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.Set(ctx, "k", testEntry(), time.Hour))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDelete(t *testing.T) {
	ctx := context.Background()
	s, mock := newPostgresStore(t)

	mock.ExpectExec(`DELETE FROM media_cache`).
		WithArgs([]string{"a", "b"}).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	require.NoError(t, s.Delete(ctx, "a", "b"))
	require.NoError(t, s.Delete(ctx)) // no keys, no query
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMigrate(t *testing.T) {
	ctx := context.Background()
	s, mock := newPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS media_cache`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, mock.ExpectationsWereMet())
}
