package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterAccumulates(t *testing.T) {
	r := NewRegistry()

	r.IncrementCounter("requests", map[string]string{"path": "/health"}, "test counter")
	r.IncrementCounter("requests", map[string]string{"path": "/health"}, "test counter")
	r.AddToCounter("requests", 3, map[string]string{"path": "/health"}, "test counter")

	all := r.GetAllMetrics()
	counters := all["counters"].(map[string]*Metric)
	require.Len(t, counters, 1)
	for _, counter := range counters {
		assert.Equal(t, float64(5), counter.Value)
		assert.Equal(t, Counter, counter.Type)
	}
}

func TestCounterLabelsSeparateSeries(t *testing.T) {
	r := NewRegistry()

	r.IncrementCounter("requests", map[string]string{"path": "/a"}, "")
	r.IncrementCounter("requests", map[string]string{"path": "/b"}, "")

	counters := r.GetAllMetrics()["counters"].(map[string]*Metric)
	assert.Len(t, counters, 2)
}

func TestTimerStatistics(t *testing.T) {
	r := NewRegistry()

	r.RecordTimer("latency", 10*time.Millisecond, nil, "")
	r.RecordTimer("latency", 30*time.Millisecond, nil, "")

	timers := r.GetAllMetrics()["timers"].(map[string]*TimerMetric)
	timer := timers["latency"]
	require.NotNil(t, timer)

	assert.Equal(t, int64(2), timer.Count)
	assert.Equal(t, float64(10), timer.Min)
	assert.Equal(t, float64(30), timer.Max)
	assert.Equal(t, float64(20), timer.Average)
}

func TestGaugeOverwrites(t *testing.T) {
	r := NewRegistry()

	r.SetGauge("subscribers", 3, nil, "")
	r.SetGauge("subscribers", 1, nil, "")

	gauges := r.GetAllMetrics()["gauges"].(map[string]*Metric)
	assert.Equal(t, float64(1), gauges["subscribers"].Value)
}

func TestGetAllMetricsIncludesUptime(t *testing.T) {
	all := NewRegistry().GetAllMetrics()
	assert.Contains(t, all, "uptime_ms")
	assert.Contains(t, all, "timestamp")
}
