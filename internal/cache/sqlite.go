package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore is a Store backed by a local SQLite file, for deployments
// without a Redis or Postgres alongside.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens (or creates) the cache database at dsn and configures WAL
// mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "cache: sqlite open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "cache: sqlite exec %s", pragma)
		}
	}

	const migration = `
CREATE TABLE IF NOT EXISTS media_cache (
	key        TEXT PRIMARY KEY,
	entry      TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	expires_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_media_cache_expires_at ON media_cache(expires_at);
`
	if _, err := db.Exec(migration); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "cache: sqlite migrate")
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Get implements Store. Expiry is enforced in the query.
func (s *SQLiteStore) Get(ctx context.Context, key string) (*Entry, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT entry FROM media_cache WHERE key = ? AND expires_at > ?`,
		key, s.now().UTC(),
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, eris.Wrapf(err, "cache: sqlite get %s", key)
	}

	var e Entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return nil, false, eris.Wrapf(err, "cache: sqlite decode %s", key)
	}
	return &e, true, nil
}

// Set implements Store, upserting on key.
func (s *SQLiteStore) Set(ctx context.Context, key string, entry *Entry, ttl time.Duration) error {
	cp := *entry
	cp.Key = key
	cp.TTL = ttl
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = s.now().UTC()
	}
	raw, err := json.Marshal(&cp)
	if err != nil {
		return eris.Wrapf(err, "cache: sqlite encode %s", key)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO media_cache (key, entry, created_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			entry      = excluded.entry,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at`,
		key, string(raw), cp.CreatedAt, cp.CreatedAt.Add(ttl),
	)
	if err != nil {
		return eris.Wrapf(err, "cache: sqlite set %s", key)
	}
	return nil
}

// Delete implements Store.
func (s *SQLiteStore) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM media_cache WHERE key = ?`, k); err != nil {
			return eris.Wrapf(err, "cache: sqlite delete %s", k)
		}
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Prune removes expired rows. Invoked by the revalidation scheduler, not by
// the request path.
func (s *SQLiteStore) Prune(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM media_cache WHERE expires_at <= ?`, s.now().UTC())
	if err != nil {
		return 0, eris.Wrap(err, "cache: sqlite prune")
	}
	n, _ := res.RowsAffected()
	return n, nil
}
