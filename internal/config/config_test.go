package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults without a config file", func(t *testing.T) {
		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, "development", cfg.Environment)
		assert.Equal(t, "0.0.0.0:3001", cfg.ServerAddress)
		assert.Equal(t, "none", cfg.CacheBackend, "catalogs are not cached across requests unless configured")
		assert.Equal(t, 15*time.Minute, cfg.CacheTTL)
		assert.Equal(t, 10.0, cfg.DefaultRadiusKm)
		assert.Equal(t, 100.0, cfg.MaxRadiusKm)
		assert.Equal(t, 8, cfg.MaxConcurrency)
		assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "coverage", cfg.RankingStrategy)
		assert.False(t, cfg.EnableFuzzyMatching)
		assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	})

	t.Run("reads app.env", func(t *testing.T) {
		dir := t.TempDir()
		content := "SERVER_ADDRESS=127.0.0.1:9000\nCOMPARE_REQUEST_TIMEOUT=2s\nMATCH_ENABLE_FUZZY=true\nRANKING_STRATEGY=price\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600))

		cfg, err := LoadConfig(dir)
		require.NoError(t, err)

		assert.Equal(t, "127.0.0.1:9000", cfg.ServerAddress)
		assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
		assert.True(t, cfg.EnableFuzzyMatching)
		assert.Equal(t, "price", cfg.RankingStrategy)
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte("COMPARE_MAX_CONCURRENCY=2\n"), 0o600))
		t.Setenv("COMPARE_MAX_CONCURRENCY", "16")
		t.Setenv("CACHE_BACKEND", "redis")
		t.Setenv("REDIS_URL", "redis://localhost:6379/0")

		cfg, err := LoadConfig(dir)
		require.NoError(t, err)

		assert.Equal(t, 16, cfg.MaxConcurrency)
		assert.Equal(t, "redis", cfg.CacheBackend)
		assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	})
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown cache backend", map[string]string{"CACHE_BACKEND": "memcached"}},
		{"redis without url", map[string]string{"CACHE_BACKEND": "redis"}},
		{"non-positive default radius", map[string]string{"COMPARE_DEFAULT_RADIUS_KM": "0"}},
		{"max radius below default", map[string]string{"COMPARE_MAX_RADIUS_KM": "5"}},
		{"zero concurrency", map[string]string{"COMPARE_MAX_CONCURRENCY": "0"}},
		{"zero timeout", map[string]string{"COMPARE_REQUEST_TIMEOUT": "0s"}},
		{"unknown ranking", map[string]string{"RANKING_STRATEGY": "alphabetical"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig(t.TempDir())
			assert.Error(t, err)
		})
	}
}
