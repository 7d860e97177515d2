package ltproxy

import "time"

const (
	// DefaultSourceLang lets the backend detect the source language.
	DefaultSourceLang = "auto"
	// DefaultTargetLang is used when a request names no target language.
	DefaultTargetLang = "fr"
	// DefaultTimeout bounds a single backend call.
	DefaultTimeout = 8 * time.Second
	// MaxSnippetLength is the number of characters of an error body kept for diagnostics.
	MaxSnippetLength = 200
)

// TranslationRequest is a single text to translate.
type TranslationRequest struct {
	Text       string // Text to translate (required)
	SourceLang string // Source language code (default: "auto")
	TargetLang string // Target language code (default: "fr")
}

// withDefaults fills in empty language codes.
func (r TranslationRequest) withDefaults() TranslationRequest {
	if r.SourceLang == "" {
		r.SourceLang = DefaultSourceLang
	}
	if r.TargetLang == "" {
		r.TargetLang = DefaultTargetLang
	}
	return r
}

// Result is the outcome of a successful dispatch.
type Result struct {
	Text     string // Translated text
	Cached   bool   // True when served from cache without touching a backend
	Upstream string // URL of the backend that produced Text (empty when cached)
}

// Outcome classifies a single backend attempt.
type Outcome string

const (
	// OutcomeSuccess means the backend returned a translation.
	OutcomeSuccess Outcome = "success"
	// OutcomeHTTPError means the backend answered with a non-success status.
	OutcomeHTTPError Outcome = "http_error"
	// OutcomeTransportError means the backend could not be reached or timed out.
	OutcomeTransportError Outcome = "transport_error"
)

// AttemptRecord describes one backend call made during a dispatch.
type AttemptRecord struct {
	URL      string
	Outcome  Outcome
	Status   int    // HTTP status, set for OutcomeHTTPError
	Snippet  string // Start of the error body, set for OutcomeHTTPError
	Message  string // Human-readable cause, set for OutcomeTransportError
	Duration time.Duration
}
