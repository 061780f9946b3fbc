package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// PgxPool is the slice of pgxpool.Pool the store needs. pgxmock satisfies it
// in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore is a Store backed by a shared Postgres, for multi-node
// deployments where every web node must see the same cache.
type PostgresStore struct {
	pool PgxPool
	now  func() time.Time
}

// NewPostgres connects to databaseURL and ensures the cache table exists.
func NewPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "cache: postgres connect")
	}
	s := NewPostgresFromPool(pool)
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresFromPool wraps an existing pool. Used by tests with pgxmock.
func NewPostgresFromPool(pool PgxPool) *PostgresStore {
	return &PostgresStore{pool: pool, now: time.Now}
}

// Migrate creates the cache table if missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS media_cache (
			key        TEXT PRIMARY KEY,
			entry      JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL
		)`)
	return eris.Wrap(err, "cache: postgres migrate")
}

// Get implements Store. Expiry is enforced in the query.
func (s *PostgresStore) Get(ctx context.Context, key string) (*Entry, bool, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT entry FROM media_cache WHERE key = $1 AND expires_at > $2`,
		key, s.now().UTC(),
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, eris.Wrapf(err, "cache: postgres get %s", key)
	}

	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, false, eris.Wrapf(err, "cache: postgres decode %s", key)
	}
	return &e, true, nil
}

// Set implements Store, upserting on key.
func (s *PostgresStore) Set(ctx context.Context, key string, entry *Entry, ttl time.Duration) error {
	cp := *entry
	cp.Key = key
	cp.TTL = ttl
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = s.now().UTC()
	}
	raw, err := json.Marshal(&cp)
	if err != nil {
		return eris.Wrapf(err, "cache: postgres encode %s", key)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO media_cache (key, entry, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE SET
			entry      = EXCLUDED.entry,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at`,
		key, raw, cp.CreatedAt, cp.CreatedAt.Add(ttl),
	)
	if err != nil {
		return eris.Wrapf(err, "cache: postgres set %s", key)
	}
	return nil
}

// Delete implements Store.
func (s *PostgresStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := s.pool.Exec(ctx, `DELETE FROM media_cache WHERE key = ANY($1)`, keys)
	if err != nil {
		return eris.Wrap(err, "cache: postgres delete")
	}
	return nil
}

// Close implements Store.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
