package ltproxy

import (
	"fmt"
	"strings"
)

// TranslationError is the base error type for dispatch failures that are
// neither validation problems nor backend failures.
type TranslationError struct {
	Message string
	Cause   error
}

func (e *TranslationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *TranslationError) Unwrap() error {
	return e.Cause
}

// ValidationError indicates a malformed request. It is returned before any
// cache lookup or backend call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Message)
}

// UpstreamHTTPError indicates a backend answered with a non-success status.
type UpstreamHTTPError struct {
	URL     string
	Status  int
	Snippet string // At most MaxSnippetLength characters of the response body
}

func (e *UpstreamHTTPError) Error() string {
	if e.Snippet != "" {
		return fmt.Sprintf("upstream %s returned status %d: %s", e.URL, e.Status, e.Snippet)
	}
	return fmt.Sprintf("upstream %s returned status %d", e.URL, e.Status)
}

// UpstreamTransportError indicates a backend could not be reached, the call
// was aborted, or it did not answer in time.
type UpstreamTransportError struct {
	URL     string
	Message string
	Cause   error
}

func (e *UpstreamTransportError) Error() string {
	return fmt.Sprintf("upstream %s unreachable: %s", e.URL, e.Message)
}

func (e *UpstreamTransportError) Unwrap() error {
	return e.Cause
}

// TotalFailure is returned when every configured backend failed. Attempts
// holds one record per backend, in the order they were tried.
type TotalFailure struct {
	Attempts []AttemptRecord
}

func (e *TotalFailure) Error() string {
	if len(e.Attempts) == 0 {
		return "all upstreams failed: no backends configured"
	}
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		switch a.Outcome {
		case OutcomeHTTPError:
			parts[i] = fmt.Sprintf("%s: status %d", a.URL, a.Status)
		default:
			parts[i] = fmt.Sprintf("%s: %s", a.URL, a.Message)
		}
	}
	return fmt.Sprintf("all upstreams failed (%d attempts): %s", len(e.Attempts), strings.Join(parts, "; "))
}

// CacheError indicates a cache operation failure.
type CacheError struct {
	Message   string
	Cause     error
	Retryable bool // Whether the operation can be retried
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}
