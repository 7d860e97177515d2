package ltproxy

import (
	"context"
	"errors"
	"time"
)

// RetryConfig controls WithRetry.
//
// Backends are never retried inside a dispatch; this is for startup work
// such as connecting to an external cache.
type RetryConfig struct {
	MaxRetries int           // Retries after the first attempt
	BaseDelay  time.Duration // Delay before the first retry, doubled each time
	MaxDelay   time.Duration // Upper bound for a single delay

	// OnRetry, if set, is called before each wait with the 1-based number of
	// the failed attempt.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// DefaultRetryConfig returns 3 retries starting at 1s, capped at 30s.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// RetryFunc is a function that can be retried.
type RetryFunc[T any] func() (T, error)

// WithRetry calls fn until it succeeds, returns an error IsRetryable rejects,
// runs out of retries or ctx ends. The last error is returned.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn RetryFunc[T]) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !IsRetryable(err) || attempt == cfg.MaxRetries {
			break
		}

		delay := backoff(cfg, attempt)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt+1, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	return zero, lastErr
}

// backoff returns the delay after the given 0-based attempt.
func backoff(cfg RetryConfig, attempt int) time.Duration {
	delay := cfg.BaseDelay << attempt
	if delay <= 0 || (cfg.MaxDelay > 0 && delay > cfg.MaxDelay) {
		delay = cfg.MaxDelay
	}
	return delay
}

// IsRetryable reports whether err is worth another attempt: a CacheError
// marked Retryable or an UpstreamTransportError. Context errors never are.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var cacheErr *CacheError
	if errors.As(err, &cacheErr) {
		return cacheErr.Retryable
	}

	var transportErr *UpstreamTransportError
	return errors.As(err, &transportErr)
}
