package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ZaguanLabs/ltproxy"
	"github.com/sashabaranov/go-openai"
)

// Defaults used when the matching OpenAIConfig field is empty.
const (
	DefaultOpenAIBaseURL     = "https://api.openai.com/v1"
	DefaultOpenAIModel       = "gpt-4o-mini"
	DefaultOpenAITemperature = 0.3
)

// OpenAIBackend translates through an OpenAI-compatible chat completion API.
// It is meant as a last-resort fallback behind LibreTranslate backends.
type OpenAIBackend struct {
	client      *openai.Client
	baseURL     string
	model       string
	temperature float32
}

// OpenAIConfig holds configuration for the OpenAI backend.
type OpenAIConfig struct {
	APIKey      string  // OpenAI API key
	Model       string  // Model to use (default: "gpt-4o-mini")
	Temperature float32 // Temperature for generation (default: 0.3)
	BaseURL     string  // Custom base URL (optional)
}

// NewOpenAIBackend creates a new OpenAI backend.
func NewOpenAIBackend(cfg OpenAIConfig) *OpenAIBackend {
	config := openai.DefaultConfig(cfg.APIKey)
	baseURL := DefaultOpenAIBaseURL
	if cfg.BaseURL != "" {
		baseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	config.BaseURL = baseURL

	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = DefaultOpenAITemperature
	}

	return &OpenAIBackend{
		client:      openai.NewClientWithConfig(config),
		baseURL:     baseURL,
		model:       model,
		temperature: temperature,
	}
}

// URL returns the API base URL.
func (p *OpenAIBackend) URL() string {
	return p.baseURL
}

// Model returns the configured model name.
func (p *OpenAIBackend) Model() string {
	return p.model
}

// Translate translates a single text with one chat completion.
func (p *OpenAIBackend) Translate(ctx context.Context, req TranslationRequest) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.buildSystemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: req.Text},
		},
		Temperature: p.temperature,
	})
	if err != nil {
		return "", p.classify(err)
	}

	if len(resp.Choices) == 0 {
		return "", &ltproxy.UpstreamTransportError{URL: p.baseURL, Message: "no choices in completion response"}
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (p *OpenAIBackend) buildSystemPrompt(req TranslationRequest) string {
	targetName := ltproxy.GetLanguageName(req.TargetLang)

	source := "Detect the source language automatically."
	if !ltproxy.IsAutoDetect(req.SourceLang) {
		source = fmt.Sprintf("The source language is %s.", ltproxy.GetLanguageName(req.SourceLang))
	}

	return fmt.Sprintf(`You are a translation engine. Translate the user's message into %s.
%s
- Reply with the translation only: no quotes, notes or explanations.
- Preserve line breaks, placeholders (e.g. {name}, %%s) and URLs exactly.
- If the text is already in %s, return it unchanged.`, targetName, source, targetName)
}

// classify maps client errors onto the upstream error types.
func (p *OpenAIBackend) classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return &ltproxy.UpstreamHTTPError{
			URL:     p.baseURL,
			Status:  apiErr.HTTPStatusCode,
			Snippet: truncate(apiErr.Message, ltproxy.MaxSnippetLength),
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return &ltproxy.UpstreamHTTPError{
			URL:     p.baseURL,
			Status:  reqErr.HTTPStatusCode,
			Snippet: errorSnippet(reqErr.Body, ""),
		}
	}

	msg := err.Error()
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		msg = "request timed out"
	case errors.Is(err, context.Canceled):
		msg = "request aborted"
	}
	return &ltproxy.UpstreamTransportError{URL: p.baseURL, Message: msg, Cause: err}
}

// Verify OpenAIBackend implements Backend
var _ Backend = (*OpenAIBackend)(nil)
