package ltproxy

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Dispatcher answers translation requests from its cache or, on a miss, from
// the first backend in its list that succeeds.
type Dispatcher struct {
	backends []Backend
	cache    TranslationCache
	timeout  time.Duration
	clock    Clock
	logger   *slog.Logger
	observer Observer
}

// Backend is a single upstream translation service.
type Backend interface {
	// URL identifies the backend in results, attempt records and metrics.
	URL() string
	// Translate performs one call. Failures are reported as
	// *UpstreamHTTPError or *UpstreamTransportError.
	Translate(ctx context.Context, req TranslationRequest) (string, error)
}

// TranslationCache is the interface for translation caching.
type TranslationCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// Observer receives dispatch events. Implementations must be safe for
// concurrent use.
type Observer interface {
	CacheLookup(hit bool)
	Attempt(rec AttemptRecord)
	Dispatched(outcome DispatchOutcome)
}

// DispatchOutcome is the terminal state of one Translate call.
type DispatchOutcome string

const (
	DispatchCached    DispatchOutcome = "cached"
	DispatchUpstream  DispatchOutcome = "upstream"
	DispatchFailed    DispatchOutcome = "failed"
	DispatchInvalid   DispatchOutcome = "invalid"
	DispatchCancelled DispatchOutcome = "cancelled"
)

// DispatcherOption is a functional option for configuring the Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithCache sets the translation cache.
func WithCache(cache TranslationCache) DispatcherOption {
	return func(d *Dispatcher) {
		d.cache = cache
	}
}

// WithTimeout sets the per-backend call timeout.
func WithTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// WithClock sets the time source used to measure attempts.
func WithClock(clock Clock) DispatcherOption {
	return func(d *Dispatcher) {
		d.clock = clock
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithObserver registers an observer for cache and attempt events.
func WithObserver(observer Observer) DispatcherOption {
	return func(d *Dispatcher) {
		d.observer = observer
	}
}

// NewDispatcher creates a Dispatcher over backends, tried in the given order.
// The slice is copied; later changes by the caller have no effect.
func NewDispatcher(backends []Backend, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		backends: append([]Backend(nil), backends...),
		timeout:  DefaultTimeout,
		clock:    SystemClock{},
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Translate serves req from the cache or the first succeeding backend.
//
// Errors are *ValidationError for an empty text, *TotalFailure when every
// backend failed, or *TranslationError when ctx ended mid-dispatch.
func (d *Dispatcher) Translate(ctx context.Context, req TranslationRequest) (*Result, error) {
	req = req.withDefaults()
	if req.Text == "" {
		d.dispatched(DispatchInvalid)
		return nil, &ValidationError{Field: "q", Message: "text is required"}
	}

	key := CacheKey(req.SourceLang, req.TargetLang, req.Text)
	if d.cache != nil {
		cached, ok := d.cache.Get(key)
		d.cacheLookup(ok)
		if ok {
			d.dispatched(DispatchCached)
			return &Result{Text: cached, Cached: true}, nil
		}
	}

	attempts := make([]AttemptRecord, 0, len(d.backends))
	for _, backend := range d.backends {
		if err := ctx.Err(); err != nil {
			d.dispatched(DispatchCancelled)
			return nil, &TranslationError{Message: "dispatch cancelled", Cause: err}
		}

		text, rec := d.attempt(ctx, backend, req)
		d.attemptDone(rec)

		if rec.Outcome != OutcomeSuccess {
			d.logger.WarnContext(ctx, "upstream attempt failed",
				"upstream", rec.URL,
				"outcome", string(rec.Outcome),
				"status", rec.Status,
				"error", rec.Message,
				"duration_ms", rec.Duration.Milliseconds(),
			)
			attempts = append(attempts, rec)
			continue
		}

		if d.cache != nil {
			if err := d.cache.Set(key, text); err != nil {
				d.logger.WarnContext(ctx, "cache store failed", "error", err)
			}
		}
		if len(attempts) > 0 {
			d.logger.InfoContext(ctx, "served by fallback upstream",
				"upstream", rec.URL,
				"failed_attempts", len(attempts),
			)
		}
		d.dispatched(DispatchUpstream)
		return &Result{Text: text, Upstream: backend.URL()}, nil
	}

	d.dispatched(DispatchFailed)
	return nil, &TotalFailure{Attempts: attempts}
}

// attempt runs one backend call under its own timeout and classifies the result.
func (d *Dispatcher) attempt(ctx context.Context, backend Backend, req TranslationRequest) (string, AttemptRecord) {
	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := d.clock.Now()
	text, err := backend.Translate(callCtx, req)
	rec := AttemptRecord{
		URL:      backend.URL(),
		Outcome:  OutcomeSuccess,
		Duration: d.clock.Now().Sub(start),
	}
	if err == nil {
		return text, rec
	}

	var httpErr *UpstreamHTTPError
	var transportErr *UpstreamTransportError
	switch {
	case errors.As(err, &httpErr):
		rec.Outcome = OutcomeHTTPError
		rec.Status = httpErr.Status
		rec.Snippet = httpErr.Snippet
		rec.Message = httpErr.Error()
	case errors.Is(callCtx.Err(), context.DeadlineExceeded):
		rec.Outcome = OutcomeTransportError
		rec.Message = "timeout after " + d.timeout.String()
	case errors.As(err, &transportErr):
		rec.Outcome = OutcomeTransportError
		rec.Message = transportErr.Message
	default:
		rec.Outcome = OutcomeTransportError
		rec.Message = err.Error()
	}
	return "", rec
}

// Backends returns the URLs of the configured backends in dispatch order.
func (d *Dispatcher) Backends() []string {
	urls := make([]string, len(d.backends))
	for i, b := range d.backends {
		urls[i] = b.URL()
	}
	return urls
}

// Timeout returns the per-backend call timeout.
func (d *Dispatcher) Timeout() time.Duration {
	return d.timeout
}

func (d *Dispatcher) cacheLookup(hit bool) {
	if d.observer != nil {
		d.observer.CacheLookup(hit)
	}
}

func (d *Dispatcher) attemptDone(rec AttemptRecord) {
	if d.observer != nil {
		d.observer.Attempt(rec)
	}
}

func (d *Dispatcher) dispatched(outcome DispatchOutcome) {
	if d.observer != nil {
		d.observer.Dispatched(outcome)
	}
}
