package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelblogr/placemedia/internal/hierarchy"
	"github.com/travelblogr/placemedia/internal/model"
)

func testEntry() *Entry {
	return &Entry{
		Candidates: []model.Candidate{
			{CanonicalURL: "https://example.com/a.jpg", Title: "Skyline", ProviderID: "unsplash"},
		},
		LevelsUsed: []hierarchy.Level{hierarchy.LevelLocal},
	}
}

func TestMemoryRoundtrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "k", testEntry(), time.Hour))

	got, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "k", got.Key)
	assert.Equal(t, time.Hour, got.TTL)
	require.Len(t, got.Candidates, 1)
	assert.Equal(t, "https://example.com/a.jpg", got.Candidates[0].CanonicalURL)
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	s := NewMemory().WithNow(func() time.Time { return now })

	require.NoError(t, s.Set(ctx, "k", testEntry(), time.Hour))

	now = now.Add(2 * time.Hour)
	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "expired entry must read as a miss")
	assert.Equal(t, 0, s.Len(), "expired entry is dropped on read")
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	require.NoError(t, s.Set(ctx, "a", testEntry(), time.Hour))
	require.NoError(t, s.Set(ctx, "b", testEntry(), time.Hour))
	require.NoError(t, s.Delete(ctx, "a", "b", "missing"))

	assert.Equal(t, 0, s.Len())
}

func TestEntryExpired(t *testing.T) {
	now := time.Now()
	e := &Entry{CreatedAt: now, TTL: time.Minute}

	assert.False(t, e.Expired(now.Add(30*time.Second)))
	assert.True(t, e.Expired(now.Add(2*time.Minute)))
}
