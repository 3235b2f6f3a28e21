// ABOUTME: Configuration management for the cache with environment variable support
// ABOUTME: Supports an optional YAML file layered under environment overrides

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// Cache contains article cache configuration
	Cache CacheConfig `yaml:"cache"`

	// Warmer contains feed warmer configuration
	Warmer WarmerConfig `yaml:"warmer"`

	// HTTP contains outbound HTTP client configuration
	HTTP HTTPConfig `yaml:"http"`

	// LogLevel controls logging verbosity (debug/info/warn/error)
	LogLevel string `yaml:"log_level"`
}

// CacheConfig holds article cache configuration
type CacheConfig struct {
	// Dir is the cache root directory holding metadata/ and images/
	Dir string `yaml:"dir"`

	// MaxImageStoreMB is the image store ceiling that triggers eviction
	MaxImageStoreMB int64 `yaml:"max_image_store_mb"`

	// RetentionDays is how long metadata survives an eviction sweep
	RetentionDays int `yaml:"retention_days"`

	// CheckQueueSize bounds the background viewed-check queue
	CheckQueueSize int `yaml:"check_queue_size"`
}

// WarmerConfig holds feed warmer configuration
type WarmerConfig struct {
	// RequestsPerSecond caps thumbnail downloads during a warm run
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// MaxImageMB rejects thumbnails larger than this
	MaxImageMB int64 `yaml:"max_image_mb"`
}

// HTTPConfig holds outbound HTTP client configuration
type HTTPConfig struct {
	// TimeoutSeconds is the per-request timeout
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Cache: CacheConfig{
			Dir:             getEnvOrDefault("CACHE_DIR", defaultCacheDir()),
			MaxImageStoreMB: int64(getEnvAsIntOrDefault("CACHE_MAX_IMAGE_STORE_MB", 200)),
			RetentionDays:   getEnvAsIntOrDefault("CACHE_RETENTION_DAYS", 90),
			CheckQueueSize:  getEnvAsIntOrDefault("CACHE_CHECK_QUEUE_SIZE", 256),
		},
		Warmer: WarmerConfig{
			RequestsPerSecond: getEnvAsFloatOrDefault("WARMER_RPS", 4),
			MaxImageMB:        int64(getEnvAsIntOrDefault("WARMER_MAX_IMAGE_MB", 10)),
		},
		HTTP: HTTPConfig{
			TimeoutSeconds: getEnvAsIntOrDefault("HTTP_TIMEOUT", 30),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file, then applies
// environment variable overrides on top.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadFromEnv()
	if err != nil {
		return nil, err
	}

	// Start from file values, then reapply env overrides for any
	// variable that is actually set.
	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, err
	}
	merged := fileCfg
	applyEnvOverrides(&merged, cfg)

	return &merged, nil
}

// applyEnvOverrides copies env-derived values over file values for
// every environment variable that is explicitly set, and fills gaps the
// file left empty with env defaults.
func applyEnvOverrides(dst *Config, env *Config) {
	if dst.Cache.Dir == "" || os.Getenv("CACHE_DIR") != "" {
		dst.Cache.Dir = env.Cache.Dir
	}
	if dst.Cache.MaxImageStoreMB == 0 || os.Getenv("CACHE_MAX_IMAGE_STORE_MB") != "" {
		dst.Cache.MaxImageStoreMB = env.Cache.MaxImageStoreMB
	}
	if dst.Cache.RetentionDays == 0 || os.Getenv("CACHE_RETENTION_DAYS") != "" {
		dst.Cache.RetentionDays = env.Cache.RetentionDays
	}
	if dst.Cache.CheckQueueSize == 0 || os.Getenv("CACHE_CHECK_QUEUE_SIZE") != "" {
		dst.Cache.CheckQueueSize = env.Cache.CheckQueueSize
	}
	if dst.Warmer.RequestsPerSecond == 0 || os.Getenv("WARMER_RPS") != "" {
		dst.Warmer.RequestsPerSecond = env.Warmer.RequestsPerSecond
	}
	if dst.Warmer.MaxImageMB == 0 || os.Getenv("WARMER_MAX_IMAGE_MB") != "" {
		dst.Warmer.MaxImageMB = env.Warmer.MaxImageMB
	}
	if dst.HTTP.TimeoutSeconds == 0 || os.Getenv("HTTP_TIMEOUT") != "" {
		dst.HTTP.TimeoutSeconds = env.HTTP.TimeoutSeconds
	}
	if dst.LogLevel == "" || os.Getenv("LOG_LEVEL") != "" {
		dst.LogLevel = env.LogLevel
	}
}

// defaultCacheDir places the cache under the user cache directory,
// falling back to a local directory when none is available.
func defaultCacheDir() string {
	if base, err := os.UserCacheDir(); err == nil {
		return filepath.Join(base, "digests")
	}
	return ".digests-cache"
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloatOrDefault returns the environment variable as float64 or a default
func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Cache.Dir == "" {
		return errors.New("cache dir cannot be empty")
	}

	if c.Cache.MaxImageStoreMB < 1 {
		return errors.New("image store ceiling must be at least 1 MB")
	}

	if c.Cache.RetentionDays < 1 {
		return errors.New("retention must be at least 1 day")
	}

	if c.Warmer.RequestsPerSecond <= 0 {
		return errors.New("warmer rate must be positive")
	}

	if c.HTTP.TimeoutSeconds < 1 {
		return errors.New("http timeout must be at least 1 second")
	}

	return nil
}
