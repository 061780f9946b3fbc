package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 3, cfg.Acquire.MinResults)
	assert.Equal(t, 5, cfg.Acquire.MaxResultsPerLevel)
	assert.Equal(t, 20, cfg.Acquire.BulkQuota)
	assert.Equal(t, 3*time.Second, cfg.Acquire.ProviderTimeout())
	assert.Equal(t, 30, cfg.RateLimit.DefaultLimit)
	assert.Equal(t, 60, cfg.RateLimit.DefaultWindowSecs)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0 4 * * *", cfg.Revalidate.Schedule)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Providers.FlickrEnabled)
	assert.True(t, cfg.Providers.PinterestEnabled)
	assert.Contains(t, cfg.Providers.UserAgent, "TravelBlogr")
}

func TestLoadFromFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(dir+"/config.yaml", []byte(`
cache:
  backend: redis
  redis_addr: cache.internal:6379
acquire:
  min_results: 5
ratelimit:
  providers:
    unsplash:
      limit: 50
      window_secs: 3600
providers:
  unsplash_key: key-from-file
`), 0o644))
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "cache.internal:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 5, cfg.Acquire.MinResults)
	// Unset keys keep their defaults.
	assert.Equal(t, 5, cfg.Acquire.MaxResultsPerLevel)
	assert.Equal(t, "key-from-file", cfg.Providers.UnsplashKey)

	require.Contains(t, cfg.RateLimit.Providers, "unsplash")
	assert.Equal(t, 50, cfg.RateLimit.Providers["unsplash"].Limit)
	assert.Equal(t, 3600, cfg.RateLimit.Providers["unsplash"].WindowSecs)
}

func TestInitLoggerRejectsBadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "shout", Format: "json"})
	assert.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
}
