package cache

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/ZaguanLabs/ltproxy"
)

func TestExporter_Export(t *testing.T) {
	c := NewInMemoryCache()
	c.Set(ltproxy.CacheKey("en", "fr", "Hello"), "Bonjour")
	c.Set(ltproxy.CacheKey("auto", "es", "World"), "Mundo")

	exporter := NewExporter(c)
	exporter.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	var buf bytes.Buffer

	err := exporter.Export(&buf, map[string]string{"service": "ltproxy"})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var export ExportFormat
	if err := json.Unmarshal(buf.Bytes(), &export); err != nil {
		t.Fatalf("Failed to parse export: %v", err)
	}

	if export.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %s", export.Version)
	}
	if export.ExportedAt != "2025-01-01T00:00:00Z" {
		t.Errorf("unexpected exported_at %s", export.ExportedAt)
	}
	if export.Count != 2 || len(export.Entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(export.Entries))
	}

	// Oldest insertion first, key split into its parts
	first := export.Entries[0]
	if first.Source != "en" || first.Target != "fr" || first.Text != "Hello" || first.Value != "Bonjour" {
		t.Errorf("unexpected first entry %+v", first)
	}
	if export.Entries[1].Text != "World" {
		t.Errorf("unexpected second entry %+v", export.Entries[1])
	}

	if export.Metadata["service"] != "ltproxy" {
		t.Errorf("Expected metadata service=ltproxy, got %v", export.Metadata)
	}
}

func TestExporter_TextContainingSeparator(t *testing.T) {
	c := NewInMemoryCache()
	c.Set(ltproxy.CacheKey("en", "de", "a|b|c"), "x")

	var buf bytes.Buffer
	if err := NewExporter(c).Export(&buf, nil); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var export ExportFormat
	if err := json.Unmarshal(buf.Bytes(), &export); err != nil {
		t.Fatalf("Failed to parse export: %v", err)
	}
	if export.Entries[0].Text != "a|b|c" {
		t.Errorf("text should keep its separators, got %q", export.Entries[0].Text)
	}
}

func TestExporter_SkipsExpired(t *testing.T) {
	clock := newFakeClock()
	c := NewInMemoryCache(WithTTL(time.Minute), WithClock(clock))
	c.Set("old", "1")
	clock.Advance(2 * time.Minute)
	c.Set("new", "2")

	var buf bytes.Buffer
	if err := NewExporter(c).Export(&buf, nil); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var export ExportFormat
	json.Unmarshal(buf.Bytes(), &export)

	if len(export.Entries) != 1 || export.Entries[0].Value != "2" {
		t.Errorf("expected only the live entry, got %+v", export.Entries)
	}
}

func TestExporter_EmptyCache(t *testing.T) {
	c := NewInMemoryCache()
	exporter := NewExporter(c)

	var buf bytes.Buffer
	err := exporter.Export(&buf, nil)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var export ExportFormat
	json.Unmarshal(buf.Bytes(), &export)

	if len(export.Entries) != 0 {
		t.Errorf("Expected 0 entries for empty cache, got %d", len(export.Entries))
	}
}
