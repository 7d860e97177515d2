package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZaguanLabs/ltproxy/cache"
)

// clearEnv blanks every variable Load reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"PORT", "LT_URL", "LT_FALLBACK_URLS", "LT_API_KEY",
		"LTPROXY_UPSTREAM_TIMEOUT",
		"LTPROXY_OPENAI_ENABLED", "LTPROXY_OPENAI_API_KEY", "LTPROXY_OPENAI_BASE_URL", "LTPROXY_OPENAI_MODEL",
		"LTPROXY_CACHE_BACKEND", "LTPROXY_CACHE_TTL", "LTPROXY_CACHE_MAX_ITEMS",
		"LTPROXY_REDIS_URL", "LTPROXY_REDIS_KEY_PREFIX",
		"LTPROXY_LOG_LEVEL", "LTPROXY_LOG_FORMAT", "LTPROXY_METRICS_NAMESPACE",
	} {
		t.Setenv(name, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, int64(DefaultMaxBodyBytes), cfg.Server.MaxBodyBytes)
	assert.Equal(t, DefaultUpstreamURL, cfg.Upstream.URL)
	assert.Empty(t, cfg.Upstream.FallbackURLs)
	assert.Equal(t, 8*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, CacheBackendMemory, cfg.Cache.Backend)
	assert.Equal(t, cache.DefaultTTL, cfg.Cache.TTL)
	assert.Equal(t, cache.DefaultMaxItems, cfg.Cache.MaxItems)
	assert.False(t, cfg.OpenAI.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, []string{DefaultUpstreamURL}, cfg.BackendURLs())
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  read_timeout: "5s"
upstream:
  url: "http://lt-a:5000/translate"
  fallback_urls:
    - "http://lt-b:5000/translate"
    - "http://lt-c:5000/translate"
  api_key: "secret"
  timeout: "3s"
cache:
  ttl: "1h"
  max_items: 50
log:
  level: "debug"
  format: "text"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, DefaultWriteTimeout, cfg.Server.WriteTimeout)
	assert.Equal(t, "secret", cfg.Upstream.APIKey)
	assert.Equal(t, 3*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 50, cfg.Cache.MaxItems)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{
		"http://lt-a:5000/translate",
		"http://lt-b:5000/translate",
		"http://lt-c:5000/translate",
	}, cfg.BackendURLs())
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [not, a, map")
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  port: 9090
upstream:
  url: "http://file:5000/translate"
`)
	t.Setenv("PORT", "7070")
	t.Setenv("LT_URL", "http://env:5000/translate")
	t.Setenv("LT_FALLBACK_URLS", " http://fb1/translate , ,http://fb2/translate")
	t.Setenv("LT_API_KEY", "k")
	t.Setenv("LTPROXY_UPSTREAM_TIMEOUT", "2s")
	t.Setenv("LTPROXY_CACHE_MAX_ITEMS", "10")
	t.Setenv("LTPROXY_LOG_FORMAT", "text")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "k", cfg.Upstream.APIKey)
	assert.Equal(t, 2*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 10, cfg.Cache.MaxItems)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, []string{
		"http://env:5000/translate",
		"http://fb1/translate",
		"http://fb2/translate",
	}, cfg.BackendURLs())
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "eighty")
	t.Setenv("LTPROXY_CACHE_TTL", "forever")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
	assert.Contains(t, err.Error(), "LTPROXY_CACHE_TTL")
}

func TestLoad_RedisBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("LTPROXY_CACHE_BACKEND", "redis")
	t.Setenv("LTPROXY_REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, CacheBackendRedis, cfg.Cache.Backend)
	assert.Equal(t, DefaultRedisKeyPrefix, cfg.Cache.Redis.KeyPrefix)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"bad primary scheme", func(c *Config) { c.Upstream.URL = "ftp://x/translate" }, "upstream.url"},
		{"fallback without host", func(c *Config) { c.Upstream.FallbackURLs = []string{"http://"} }, "upstream.fallback_urls[0]"},
		{"openai without key", func(c *Config) { c.OpenAI.Enabled = true }, "openai.api_key"},
		{"unknown cache backend", func(c *Config) { c.Cache.Backend = "memcached" }, "cache.backend"},
		{"redis without url", func(c *Config) { c.Cache.Backend = CacheBackendRedis }, "cache.redis.url"},
		{"negative max items", func(c *Config) { c.Cache.MaxItems = -1 }, "cache.max_items"},
		{"unknown log level", func(c *Config) { c.Log.Level = "verbose" }, "log.level"},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			ApplyDefaults(cfg)
			tt.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)

			var verr ValidationError
			require.True(t, errors.As(err, &verr))
			require.Len(t, verr.Errors, 1)
			assert.Equal(t, tt.field, verr.Errors[0].Field)
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Server.Port = -1
	cfg.Log.Format = "xml"

	err := Validate(cfg)
	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Errors, 2)
	assert.Contains(t, err.Error(), "2 errors")
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	assert.NoError(t, Validate(cfg))
}
