package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("GOOGLE_API_KEY", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 45*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 100, cfg.Cache.MaxEntries)
	assert.Equal(t, time.Minute, cfg.Cache.CleanupInterval)
	assert.Equal(t, 10*time.Second, cfg.Google.UpstreamTimeout)
	assert.Equal(t, 400, cfg.Google.PhotoMaxWidth)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Empty(t, cfg.Google.APIKey)
}

func TestLoadLegacyEnvNames(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("GOOGLE_API_KEY", "legacy-key")
	t.Setenv("PORT", "9090")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "legacy-key", cfg.Google.APIKey)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestLoadFileAndPrefixedEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grubguide.yaml")
	yaml := []byte("cache:\n  backend: redis\n  ttl: 2m\nredis:\n  addr: redis:6379\n")
	require.NoError(t, os.WriteFile(path, yaml, 0o600))
	t.Setenv("GRUBGUIDE_CACHE_MAX_ENTRIES", "42")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 42, cfg.Cache.MaxEntries)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := Config{
		Server:  ServerConfig{Port: "8080"},
		Cache:   CacheConfig{Backend: "memcached", TTL: time.Minute, MaxEntries: 1},
		Session: SessionConfig{MaxEntries: 1},
	}
	assert.Error(t, cfg.Validate())
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
