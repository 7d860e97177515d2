package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ZaguanLabs/ltproxy"
)

// maxErrorBody caps how much of an error response is read to build a snippet.
const maxErrorBody = 64 << 10

// LibreTranslateBackend calls a LibreTranslate-compatible /translate endpoint.
type LibreTranslateBackend struct {
	url     string
	apiKey  string
	timeout time.Duration
	client  *http.Client
}

// LibreTranslateConfig holds configuration for a LibreTranslate backend.
type LibreTranslateConfig struct {
	URL        string        // Full endpoint URL (e.g., "https://libretranslate.com/translate")
	APIKey     string        // Optional API key sent as api_key
	Timeout    time.Duration // Per-call timeout (0 relies on the caller's context)
	HTTPClient *http.Client  // Custom client (default: http.Client without timeout)
}

// libreRequest is the upstream request body.
type libreRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

// libreResponse is the upstream success body. TranslatedText stays raw so a
// missing or non-string field can be treated as an empty translation.
type libreResponse struct {
	TranslatedText json.RawMessage `json:"translatedText"`
}

// NewLibreTranslateBackend creates a new LibreTranslate backend.
func NewLibreTranslateBackend(cfg LibreTranslateConfig) *LibreTranslateBackend {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	return &LibreTranslateBackend{
		url:     cfg.URL,
		apiKey:  cfg.APIKey,
		timeout: cfg.Timeout,
		client:  client,
	}
}

// URL returns the endpoint URL.
func (b *LibreTranslateBackend) URL() string {
	return b.url
}

// Translate sends one translation request. Failures are returned as
// *ltproxy.UpstreamHTTPError or *ltproxy.UpstreamTransportError.
func (b *LibreTranslateBackend) Translate(ctx context.Context, req TranslationRequest) (string, error) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	payload, err := json.Marshal(libreRequest{
		Q:      req.Text,
		Source: req.SourceLang,
		Target: req.TargetLang,
		Format: "text",
		APIKey: b.apiKey,
	})
	if err != nil {
		return "", b.transportError("encoding request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(payload))
	if err != nil {
		return "", b.transportError("building request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", ltproxy.UserAgent())

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return "", b.transportError("", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &ltproxy.UpstreamHTTPError{
			URL:     b.url,
			Status:  resp.StatusCode,
			Snippet: errorSnippet(body, resp.Header.Get("Content-Type")),
		}
	}

	var parsed libreResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", b.transportError("decoding response", err)
	}

	// A success without a string translatedText is an empty translation.
	var text string
	if len(parsed.TranslatedText) > 0 {
		if err := json.Unmarshal(parsed.TranslatedText, &text); err != nil {
			text = ""
		}
	}
	return text, nil
}

// transportError builds a human-readable transport failure.
func (b *LibreTranslateBackend) transportError(stage string, err error) error {
	var msg string
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		msg = "request timed out"
		if b.timeout > 0 {
			msg = fmt.Sprintf("timeout after %s", b.timeout)
		}
	case errors.Is(err, context.Canceled):
		msg = "request aborted"
	default:
		msg = err.Error()
	}
	if stage != "" {
		msg = stage + ": " + msg
	}
	return &ltproxy.UpstreamTransportError{URL: b.url, Message: msg, Cause: err}
}

// Verify LibreTranslateBackend implements Backend
var _ Backend = (*LibreTranslateBackend)(nil)
