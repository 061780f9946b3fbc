// Package cache provides the TTL key/value store behind the acquisition
// facade. The Store interface keeps the backend pluggable: an in-memory map
// backs unit tests while Redis, SQLite, or Postgres back production.
package cache

import (
	"context"
	"time"

	"github.com/travelblogr/placemedia/internal/hierarchy"
	"github.com/travelblogr/placemedia/internal/model"
)

// Entry is one cached acquisition outcome. It is written once per
// successful acquisition, read many times, and deleted explicitly on
// refetch. Expiry is checked only at read time, never mid-request.
type Entry struct {
	Key        string            `json:"key"`
	Candidates []model.Candidate `json:"candidates"`
	LevelsUsed []hierarchy.Level `json:"levels_used"`
	CreatedAt  time.Time         `json:"created_at"`
	TTL        time.Duration     `json:"ttl"`
}

// Expired reports whether the entry is past its TTL at the given time.
func (e *Entry) Expired(now time.Time) bool {
	return now.After(e.CreatedAt.Add(e.TTL))
}

// Store is the cache backend contract. A missing or expired key yields
// (nil, false, nil); errors indicate the backend itself is unavailable, and
// callers degrade to direct fetch rather than failing the request.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, bool, error)
	Set(ctx context.Context, key string, entry *Entry, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
