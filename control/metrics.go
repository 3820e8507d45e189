// File: control/metrics.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Runtime metrics collector for queue and loop monitoring.
// Counters, gauges and timers live in a go-metrics registry owned by the
// MetricsRegistry; nothing is exported over the network.

package control

import (
	"sync/atomic"
	"time"

	"github.com/rcrowley/go-metrics"
)

// MetricsRegistry holds int64 counters, int64 gauges and duration timers.
// A name identifies exactly one metric kind; reusing a counter name as a
// gauge panics inside go-metrics.
type MetricsRegistry struct {
	registry metrics.Registry
	updated  atomic.Int64 // unix nanos of the last write
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{registry: metrics.NewRegistry()}
}

// Set updates a gauge.
func (mr *MetricsRegistry) Set(key string, value int64) {
	metrics.GetOrRegisterGauge(key, mr.registry).Update(value)
	mr.touch()
}

// Add increments a counter by delta and returns the new value.
func (mr *MetricsRegistry) Add(key string, delta int64) int64 {
	c := metrics.GetOrRegisterCounter(key, mr.registry)
	c.Inc(delta)
	mr.touch()
	return c.Count()
}

// Observe records one duration sample in a timer.
func (mr *MetricsRegistry) Observe(key string, d time.Duration) {
	metrics.GetOrRegisterTimer(key, mr.registry).Update(d)
	mr.touch()
}

// Timer returns the named timer, registering it if needed.
func (mr *MetricsRegistry) Timer(key string) metrics.Timer {
	return metrics.GetOrRegisterTimer(key, mr.registry)
}

// Get returns the current value of a single metric.
func (mr *MetricsRegistry) Get(key string) (any, bool) {
	m := mr.registry.Get(key)
	if m == nil {
		return nil, false
	}
	return metricValue(m), true
}

// Counter returns a counter value, zero if never incremented.
func (mr *MetricsRegistry) Counter(key string) int64 {
	if c, ok := mr.registry.Get(key).(metrics.Counter); ok {
		return c.Count()
	}
	return 0
}

// Updated returns the time of the last write.
func (mr *MetricsRegistry) Updated() time.Time {
	ns := mr.updated.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// GetSnapshot returns the latest metrics. Timers are rendered as a map of
// count and mean/p99/max in milliseconds.
func (mr *MetricsRegistry) GetSnapshot() map[string]any {
	out := make(map[string]any)
	mr.registry.Each(func(name string, m interface{}) {
		out[name] = metricValue(m)
	})
	return out
}

func (mr *MetricsRegistry) touch() {
	mr.updated.Store(time.Now().UnixNano())
}

func metricValue(m interface{}) any {
	switch v := m.(type) {
	case metrics.Counter:
		return v.Count()
	case metrics.Gauge:
		return v.Value()
	case metrics.Timer:
		s := v.Snapshot()
		return map[string]any{
			"count":   s.Count(),
			"mean_ms": s.Mean() / float64(time.Millisecond),
			"p99_ms":  s.Percentile(0.99) / float64(time.Millisecond),
			"max_ms":  float64(s.Max()) / float64(time.Millisecond),
		}
	default:
		return v
	}
}
