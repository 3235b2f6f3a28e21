package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()

	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Cache.Dir)
	assert.EqualValues(t, 200, cfg.Cache.MaxImageStoreMB)
	assert.Equal(t, 90, cfg.Cache.RetentionDays)
	assert.Equal(t, 256, cfg.Cache.CheckQueueSize)
	assert.EqualValues(t, 4, cfg.Warmer.RequestsPerSecond)
	assert.Equal(t, 30, cfg.HTTP.TimeoutSeconds)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("CACHE_DIR", "/tmp/custom-cache")
	t.Setenv("CACHE_MAX_IMAGE_STORE_MB", "50")
	t.Setenv("CACHE_RETENTION_DAYS", "7")
	t.Setenv("WARMER_RPS", "2.5")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadFromEnv()

	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom-cache", cfg.Cache.Dir)
	assert.EqualValues(t, 50, cfg.Cache.MaxImageStoreMB)
	assert.Equal(t, 7, cfg.Cache.RetentionDays)
	assert.Equal(t, 2.5, cfg.Warmer.RequestsPerSecond)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadFromEnv_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("CACHE_RETENTION_DAYS", "not-a-number")

	cfg, err := LoadFromEnv()

	require.NoError(t, err)
	assert.Equal(t, 90, cfg.Cache.RetentionDays)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
cache:
  dir: /data/cache
  max_image_store_mb: 100
  retention_days: 30
warmer:
  requests_per_second: 1.5
log_level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)

	require.NoError(t, err)
	assert.Equal(t, "/data/cache", cfg.Cache.Dir)
	assert.EqualValues(t, 100, cfg.Cache.MaxImageStoreMB)
	assert.Equal(t, 30, cfg.Cache.RetentionDays)
	assert.Equal(t, 1.5, cfg.Warmer.RequestsPerSecond)
	assert.Equal(t, "warn", cfg.LogLevel)
	// Gaps in the file fall back to defaults.
	assert.Equal(t, 256, cfg.Cache.CheckQueueSize)
	assert.Equal(t, 30, cfg.HTTP.TimeoutSeconds)
}

func TestLoadFromFile_EnvWinsOverFile(t *testing.T) {
	t.Setenv("CACHE_DIR", "/env/cache")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache:\n  dir: /file/cache\n"), 0o644))

	cfg, err := LoadFromFile(path)

	require.NoError(t, err)
	assert.Equal(t, "/env/cache", cfg.Cache.Dir)
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))

	assert.Error(t, err)
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache: ["), 0o644))

	_, err := LoadFromFile(path)

	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Cache:  CacheConfig{Dir: "/tmp/c", MaxImageStoreMB: 200, RetentionDays: 90, CheckQueueSize: 256},
			Warmer: WarmerConfig{RequestsPerSecond: 4, MaxImageMB: 10},
			HTTP:   HTTPConfig{TimeoutSeconds: 30},
		}
	}

	assert.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty dir", func(c *Config) { c.Cache.Dir = "" }},
		{"zero ceiling", func(c *Config) { c.Cache.MaxImageStoreMB = 0 }},
		{"zero retention", func(c *Config) { c.Cache.RetentionDays = 0 }},
		{"zero rate", func(c *Config) { c.Warmer.RequestsPerSecond = 0 }},
		{"zero timeout", func(c *Config) { c.HTTP.TimeoutSeconds = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
