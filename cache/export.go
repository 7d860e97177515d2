package cache

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// ExportFormat represents the JSON structure of a cache dump.
type ExportFormat struct {
	Version    string            `json:"version"`
	ExportedAt string            `json:"exported_at"`
	Count      int               `json:"count"`
	Entries    []ExportEntry     `json:"entries"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// ExportEntry represents a single cache entry, with the key split back into
// its language pair and source text.
type ExportEntry struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Text   string `json:"text"`
	Value  string `json:"value"`
}

// Exporter writes diagnostic dumps of an in-memory cache.
type Exporter struct {
	cache *InMemoryCache
	now   func() time.Time
}

// NewExporter creates a new cache exporter.
func NewExporter(cache *InMemoryCache) *Exporter {
	return &Exporter{cache: cache, now: time.Now}
}

// Export writes the live cache contents to w as JSON, oldest insertion first.
func (e *Exporter) Export(w io.Writer, metadata map[string]string) error {
	export := ExportFormat{
		Version:    "1.0",
		ExportedAt: e.now().UTC().Format(time.RFC3339),
		Entries:    e.entries(),
		Metadata:   metadata,
	}
	export.Count = len(export.Entries)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(export); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}

	return nil
}

func (e *Exporter) entries() []ExportEntry {
	live := e.cache.Entries()
	order := e.cache.Keys()
	rank := make(map[string]int, len(order))
	for i, k := range order {
		rank[k] = i
	}

	keys := make([]string, 0, len(live))
	for k := range live {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return rank[keys[i]] < rank[keys[j]] })

	entries := make([]ExportEntry, 0, len(keys))
	for _, k := range keys {
		entry := ExportEntry{Text: k, Value: live[k]}
		if parts := strings.SplitN(k, "|", 3); len(parts) == 3 {
			entry.Source, entry.Target, entry.Text = parts[0], parts[1], parts[2]
		}
		entries = append(entries, entry)
	}
	return entries
}
