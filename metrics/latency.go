package metrics

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/DataDog/sketches-go/ddsketch"
)

// DefaultRelativeAccuracy is the quantile accuracy used when none is given.
const DefaultRelativeAccuracy = 0.01

// LatencyTracker tracks latency quantiles per upstream using DDSketch.
type LatencyTracker struct {
	mu               sync.Mutex
	sketches         map[string]*ddsketch.DDSketch
	relativeAccuracy float64
}

// NewLatencyTracker creates a new latency tracker with DDSketch.
// relativeAccuracy determines the accuracy of quantile estimates (e.g., 0.01 = 1% accuracy)
func NewLatencyTracker(relativeAccuracy float64) *LatencyTracker {
	if relativeAccuracy <= 0 || relativeAccuracy >= 1 {
		relativeAccuracy = DefaultRelativeAccuracy
	}
	return &LatencyTracker{
		sketches:         make(map[string]*ddsketch.DDSketch),
		relativeAccuracy: relativeAccuracy,
	}
}

// Record records a duration for the given upstream.
func (lt *LatencyTracker) Record(upstream string, duration time.Duration) {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	sketch, exists := lt.sketches[upstream]
	if !exists {
		var err error
		sketch, err = ddsketch.LogUnboundedDenseDDSketch(lt.relativeAccuracy)
		if err != nil {
			sketch, _ = ddsketch.NewDefaultDDSketch(lt.relativeAccuracy)
		}
		lt.sketches[upstream] = sketch
	}

	// Milliseconds; zero durations are not representable by the sketch
	ms := float64(duration.Microseconds()) / 1000.0
	if ms <= 0 {
		ms = 0.001
	}
	_ = sketch.Add(ms)
}

// Quantile returns the value in milliseconds at quantile q (0..1) for upstream.
func (lt *LatencyTracker) Quantile(upstream string, q float64) (float64, error) {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	sketch, exists := lt.sketches[upstream]
	if !exists {
		return 0, fmt.Errorf("no data for upstream: %s", upstream)
	}

	return sketch.GetValueAtQuantile(q)
}

// Stats holds latency statistics for one upstream, in milliseconds.
type Stats struct {
	Upstream string  `json:"upstream"`
	Count    int64   `json:"count"`
	Min      float64 `json:"min_ms"`
	P50      float64 `json:"p50_ms"`
	P90      float64 `json:"p90_ms"`
	P99      float64 `json:"p99_ms"`
	Max      float64 `json:"max_ms"`
}

// GetStats returns statistics for the given upstream.
func (lt *LatencyTracker) GetStats(upstream string) (Stats, error) {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	sketch, exists := lt.sketches[upstream]
	if !exists {
		return Stats{}, fmt.Errorf("no data for upstream: %s", upstream)
	}
	return statsOf(upstream, sketch), nil
}

// AllStats returns statistics for every tracked upstream, sorted by name.
func (lt *LatencyTracker) AllStats() []Stats {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	stats := make([]Stats, 0, len(lt.sketches))
	for upstream, sketch := range lt.sketches {
		stats = append(stats, statsOf(upstream, sketch))
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Upstream < stats[j].Upstream })
	return stats
}

func statsOf(upstream string, sketch *ddsketch.DDSketch) Stats {
	count := sketch.GetCount()
	if count == 0 {
		return Stats{Upstream: upstream}
	}

	min, _ := sketch.GetMinValue()
	p50, _ := sketch.GetValueAtQuantile(0.50)
	p90, _ := sketch.GetValueAtQuantile(0.90)
	p99, _ := sketch.GetValueAtQuantile(0.99)
	max, _ := sketch.GetMaxValue()

	return Stats{
		Upstream: upstream,
		Count:    int64(count),
		Min:      min,
		P50:      p50,
		P90:      p90,
		P99:      p99,
		Max:      max,
	}
}

func (s Stats) String() string {
	if s.Count == 0 {
		return fmt.Sprintf("%s: no data", s.Upstream)
	}
	return fmt.Sprintf("%s (n=%d): min=%.2fms p50=%.2fms p90=%.2fms p99=%.2fms max=%.2fms",
		s.Upstream, s.Count, s.Min, s.P50, s.P90, s.P99, s.Max)
}
