package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// Environment variables are not consulted; use Load for that.
func LoadConfig(path string) (*Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Load builds the runtime configuration. The file at path is optional: an
// empty path starts from defaults alone. Environment variables always take
// precedence over the file.
//
// The loading sequence is:
// 1. Load YAML from file (if any)
// 2. Apply environment variable overrides
// 3. Apply default values
// 4. Validate final configuration
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		var err error
		if cfg, err = readFile(path); err != nil {
			return nil, err
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}
	return &cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// PORT, LT_URL, LT_FALLBACK_URLS and LT_API_KEY keep their historical names;
// everything else uses LTPROXY_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) error {
	var errs []error

	if val := os.Getenv("PORT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Server.Port = i
		} else {
			errs = append(errs, fmt.Errorf("PORT: %w", err))
		}
	}
	if val := os.Getenv("LT_URL"); val != "" {
		cfg.Upstream.URL = val
	}
	if val := os.Getenv("LT_FALLBACK_URLS"); val != "" {
		cfg.Upstream.FallbackURLs = splitList(val)
	}
	if val := os.Getenv("LT_API_KEY"); val != "" {
		cfg.Upstream.APIKey = val
	}
	if val := os.Getenv("LTPROXY_UPSTREAM_TIMEOUT"); val != "" {
		errs = appendErr(errs, "LTPROXY_UPSTREAM_TIMEOUT", setDuration(&cfg.Upstream.Timeout, val))
	}

	if val := os.Getenv("LTPROXY_OPENAI_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.OpenAI.Enabled = b
		} else {
			errs = append(errs, fmt.Errorf("LTPROXY_OPENAI_ENABLED: %w", err))
		}
	}
	if val := os.Getenv("LTPROXY_OPENAI_API_KEY"); val != "" {
		cfg.OpenAI.APIKey = val
	}
	if val := os.Getenv("LTPROXY_OPENAI_BASE_URL"); val != "" {
		cfg.OpenAI.BaseURL = val
	}
	if val := os.Getenv("LTPROXY_OPENAI_MODEL"); val != "" {
		cfg.OpenAI.Model = val
	}

	if val := os.Getenv("LTPROXY_CACHE_BACKEND"); val != "" {
		cfg.Cache.Backend = val
	}
	if val := os.Getenv("LTPROXY_CACHE_TTL"); val != "" {
		errs = appendErr(errs, "LTPROXY_CACHE_TTL", setDuration(&cfg.Cache.TTL, val))
	}
	if val := os.Getenv("LTPROXY_CACHE_MAX_ITEMS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Cache.MaxItems = i
		} else {
			errs = append(errs, fmt.Errorf("LTPROXY_CACHE_MAX_ITEMS: %w", err))
		}
	}
	if val := os.Getenv("LTPROXY_REDIS_URL"); val != "" {
		cfg.Cache.Redis.URL = val
	}
	if val := os.Getenv("LTPROXY_REDIS_KEY_PREFIX"); val != "" {
		cfg.Cache.Redis.KeyPrefix = val
	}

	if val := os.Getenv("LTPROXY_LOG_LEVEL"); val != "" {
		cfg.Log.Level = val
	}
	if val := os.Getenv("LTPROXY_LOG_FORMAT"); val != "" {
		cfg.Log.Format = val
	}

	if val := os.Getenv("LTPROXY_METRICS_NAMESPACE"); val != "" {
		cfg.Metrics.Namespace = val
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment override: %w", errors.Join(errs...))
	}
	return nil
}

func setDuration(dst *time.Duration, val string) error {
	d, err := time.ParseDuration(val)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

func appendErr(errs []error, name string, err error) []error {
	if err == nil {
		return errs
	}
	return append(errs, fmt.Errorf("%s: %w", name, err))
}

// splitList splits a comma-separated list, dropping blanks.
func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
