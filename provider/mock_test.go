package provider

import (
	"context"
	"errors"
	"testing"
)

func TestMockBackend(t *testing.T) {
	m := NewMockBackend("mock://a")

	text, err := m.Translate(context.Background(), TranslationRequest{Text: "Hello", TargetLang: "fr"})
	if err != nil || text != "Bonjour" {
		t.Errorf("got %q, %v", text, err)
	}

	text, _ = m.Translate(context.Background(), TranslationRequest{Text: "Other", TargetLang: "de"})
	if text != "[de:Other]" {
		t.Errorf("unknown text should be bracketed, got %q", text)
	}

	if m.CallCount() != 2 {
		t.Errorf("CallCount = %d, want 2", m.CallCount())
	}
	if m.LastRequest().Text != "Other" {
		t.Errorf("LastRequest = %+v", m.LastRequest())
	}

	m.Reset()
	if m.CallCount() != 0 || m.LastRequest() != nil {
		t.Error("Reset should clear call state")
	}
}

func TestMockBackend_Err(t *testing.T) {
	boom := errors.New("boom")
	m := NewMockBackend("mock://a")
	m.Err = boom

	if _, err := m.Translate(context.Background(), TranslationRequest{Text: "Hello"}); !errors.Is(err, boom) {
		t.Errorf("expected scripted error, got %v", err)
	}
}
