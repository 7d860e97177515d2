// Package config loads ltproxy settings from an optional YAML file and the
// environment.
package config

import "time"

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Upstream UpstreamConfig `yaml:"upstream"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	Cache    CacheConfig    `yaml:"cache"`
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
}

// UpstreamConfig lists the LibreTranslate backends. URL is the primary;
// FallbackURLs are tried after it, in order.
type UpstreamConfig struct {
	URL          string        `yaml:"url"`
	FallbackURLs []string      `yaml:"fallback_urls"`
	APIKey       string        `yaml:"api_key"`
	Timeout      time.Duration `yaml:"timeout"`
}

// OpenAIConfig configures the optional chat-completion backend, tried last.
type OpenAIConfig struct {
	Enabled     bool    `yaml:"enabled"`
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

// CacheConfig selects and sizes the translation cache.
type CacheConfig struct {
	Backend  string        `yaml:"backend"` // "memory" or "redis"
	TTL      time.Duration `yaml:"ttl"`
	MaxItems int           `yaml:"max_items"`
	Redis    RedisConfig   `yaml:"redis"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	URL       string        `yaml:"url"`
	KeyPrefix string        `yaml:"key_prefix"`
	Timeout   time.Duration `yaml:"timeout"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
}

// MetricsConfig configures the Prometheus collector.
type MetricsConfig struct {
	Namespace string `yaml:"namespace"`
}

// BackendURLs returns the LibreTranslate endpoints in dispatch order,
// primary first. Blank entries are skipped.
func (c *Config) BackendURLs() []string {
	urls := make([]string, 0, 1+len(c.Upstream.FallbackURLs))
	if c.Upstream.URL != "" {
		urls = append(urls, c.Upstream.URL)
	}
	for _, u := range c.Upstream.FallbackURLs {
		if u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}
