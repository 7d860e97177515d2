package config

import (
	"fmt"
	"net/url"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "upstream.url").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate checks the whole configuration and returns a ValidationError
// collecting every failed rule, or nil.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateUpstream(&cfg.Upstream)...)
	errs = append(errs, validateOpenAI(&cfg.OpenAI)...)
	errs = append(errs, validateCache(&cfg.Cache)...)
	errs = append(errs, validateLog(&cfg.Log)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError
	if cfg.Port < 1 || cfg.Port > 65535 {
		errs = append(errs, FieldError{Field: "server.port", Message: fmt.Sprintf("must be between 1 and 65535, got %d", cfg.Port)})
	}
	if cfg.MaxBodyBytes < 0 {
		errs = append(errs, FieldError{Field: "server.max_body_bytes", Message: "must not be negative"})
	}
	return errs
}

func validateUpstream(cfg *UpstreamConfig) []FieldError {
	var errs []FieldError
	if err := validateHTTPURL(cfg.URL); err != "" {
		errs = append(errs, FieldError{Field: "upstream.url", Message: err})
	}
	for i, u := range cfg.FallbackURLs {
		if err := validateHTTPURL(u); err != "" {
			errs = append(errs, FieldError{Field: fmt.Sprintf("upstream.fallback_urls[%d]", i), Message: err})
		}
	}
	if cfg.Timeout < 0 {
		errs = append(errs, FieldError{Field: "upstream.timeout", Message: "must not be negative"})
	}
	return errs
}

func validateOpenAI(cfg *OpenAIConfig) []FieldError {
	if !cfg.Enabled {
		return nil
	}
	var errs []FieldError
	if cfg.APIKey == "" {
		errs = append(errs, FieldError{Field: "openai.api_key", Message: "is required when openai is enabled"})
	}
	if err := validateHTTPURL(cfg.BaseURL); err != "" {
		errs = append(errs, FieldError{Field: "openai.base_url", Message: err})
	}
	return errs
}

func validateCache(cfg *CacheConfig) []FieldError {
	var errs []FieldError
	switch cfg.Backend {
	case CacheBackendMemory:
		if cfg.MaxItems < 1 {
			errs = append(errs, FieldError{Field: "cache.max_items", Message: "must be at least 1"})
		}
	case CacheBackendRedis:
		if cfg.Redis.URL == "" {
			errs = append(errs, FieldError{Field: "cache.redis.url", Message: "is required when cache.backend is redis"})
		}
	default:
		errs = append(errs, FieldError{Field: "cache.backend", Message: fmt.Sprintf("must be %q or %q, got %q", CacheBackendMemory, CacheBackendRedis, cfg.Backend)})
	}
	if cfg.TTL < 0 {
		errs = append(errs, FieldError{Field: "cache.ttl", Message: "must not be negative"})
	}
	return errs
}

func validateLog(cfg *LogConfig) []FieldError {
	var errs []FieldError
	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, FieldError{Field: "log.level", Message: fmt.Sprintf("unknown level %q", cfg.Level)})
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text":
	default:
		errs = append(errs, FieldError{Field: "log.format", Message: fmt.Sprintf("unknown format %q", cfg.Format)})
	}
	return errs
}

// validateHTTPURL returns a message describing what is wrong with raw, or "".
func validateHTTPURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Sprintf("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Sprintf("scheme must be http or https, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Sprintf("missing host in %q", raw)
	}
	return ""
}
