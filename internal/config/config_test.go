package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("ENV", "does-not-exist")
	t.Setenv(StoreURIEnv, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.Server.Addr)
	assert.Equal(t, int64(256*1024), cfg.App.ChunkSize)
	assert.Equal(t, DefaultStoreURI, cfg.Store.URI)
	assert.Equal(t, "uploads", cfg.Store.Bucket)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_StoreURIFromEnvironment(t *testing.T) {
	t.Setenv("ENV", "does-not-exist")
	t.Setenv(StoreURIEnv, "badger://memory")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "badger://memory", cfg.Store.URI)
}

func TestDurations(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 15*time.Second, cfg.ChunkTimeout())
	assert.Equal(t, time.Minute, cfg.IdleTimeout())
	assert.Equal(t, 10*time.Minute, cfg.SweepInterval())
	assert.Equal(t, time.Hour, cfg.SweepGracePeriod())
	assert.Equal(t, 5*time.Second, cfg.BreakerOpenTimeout())

	cfg.App.ChunkTimeoutMS = 0
	cfg.Sweeper.IntervalSec = 0
	assert.Equal(t, 15*time.Second, cfg.ChunkTimeout())
	assert.Equal(t, 10*time.Minute, cfg.SweepInterval())
}

func TestMain(m *testing.M) {
	// Keep godotenv from picking up a developer's .env during tests.
	dir, err := os.MkdirTemp("", "config-test")
	if err == nil {
		_ = os.Chdir(dir)
	}
	code := m.Run()
	if dir != "" {
		_ = os.RemoveAll(dir)
	}
	os.Exit(code)
}
