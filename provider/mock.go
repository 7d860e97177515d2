package provider

import (
	"context"
	"fmt"
	"sync"
)

// MockBackend is a scripted backend for tests.
type MockBackend struct {
	BackendURL   string
	Translations map[string]string // Map of source text to translation
	Err          error             // When set, every call fails with Err

	mu          sync.Mutex
	callCount   int
	lastRequest *TranslationRequest
}

// NewMockBackend creates a new mock backend with default translations.
func NewMockBackend(url string) *MockBackend {
	return &MockBackend{
		BackendURL: url,
		Translations: map[string]string{
			"Hello":       "Bonjour",
			"World":       "Monde",
			"Hello World": "Bonjour le monde",
		},
	}
}

// URL returns the configured URL.
func (m *MockBackend) URL() string {
	return m.BackendURL
}

// Translate returns the scripted translation, or Err.
func (m *MockBackend) Translate(ctx context.Context, req TranslationRequest) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.lastRequest = &req
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if translation, ok := m.Translations[req.Text]; ok {
		return translation, nil
	}
	// Return bracketed text for unknown translations
	return fmt.Sprintf("[%s:%s]", req.TargetLang, req.Text), nil
}

// CallCount returns the number of Translate calls.
func (m *MockBackend) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastRequest returns the last request received, or nil.
func (m *MockBackend) LastRequest() *TranslationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRequest
}

// Reset resets the call count and last request.
func (m *MockBackend) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.lastRequest = nil
}

// Verify MockBackend implements Backend
var _ Backend = (*MockBackend)(nil)
