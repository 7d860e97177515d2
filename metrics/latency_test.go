package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatencyTracker_NoData(t *testing.T) {
	lt := NewLatencyTracker(0.01)

	_, err := lt.GetStats("http://a")
	assert.Error(t, err)

	_, err = lt.Quantile("http://a", 0.5)
	assert.Error(t, err)

	assert.Empty(t, lt.AllStats())
}

func TestLatencyTracker_Quantiles(t *testing.T) {
	lt := NewLatencyTracker(0.01)
	for i := 1; i <= 100; i++ {
		lt.Record("http://a", time.Duration(i)*time.Millisecond)
	}

	stats, err := lt.GetStats("http://a")
	require.NoError(t, err)

	assert.Equal(t, int64(100), stats.Count)
	assert.InDelta(t, 1.0, stats.Min, 0.02)
	assert.InDelta(t, 100.0, stats.Max, 2.0)
	assert.InDelta(t, 50.0, stats.P50, 2.0)
	assert.InDelta(t, 99.0, stats.P99, 2.0)

	p90, err := lt.Quantile("http://a", 0.9)
	require.NoError(t, err)
	assert.InDelta(t, 90.0, p90, 2.0)
}

func TestLatencyTracker_ZeroDuration(t *testing.T) {
	lt := NewLatencyTracker(0.01)
	lt.Record("http://a", 0)

	stats, err := lt.GetStats("http://a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Count)
}

func TestLatencyTracker_AllStatsSorted(t *testing.T) {
	lt := NewLatencyTracker(0)
	lt.Record("http://c", time.Millisecond)
	lt.Record("http://a", time.Millisecond)
	lt.Record("http://b", time.Millisecond)

	all := lt.AllStats()
	require.Len(t, all, 3)
	assert.Equal(t, "http://a", all[0].Upstream)
	assert.Equal(t, "http://b", all[1].Upstream)
	assert.Equal(t, "http://c", all[2].Upstream)
}

func TestStats_String(t *testing.T) {
	assert.Equal(t, "http://a: no data", Stats{Upstream: "http://a"}.String())

	s := Stats{Upstream: "http://a", Count: 3, Min: 1, P50: 2, P90: 3, P99: 3, Max: 3}
	assert.Equal(t, "http://a (n=3): min=1.00ms p50=2.00ms p90=3.00ms p99=3.00ms max=3.00ms", s.String())
}
