package processors

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/logward/logward-go/pkg/logward"
)

// CounterHook adapts a prometheus counter to a Metrics counter callback.
func CounterHook(c prometheus.Counter) func(*logward.Record) {
	return func(*logward.Record) {
		c.Inc()
	}
}

// HistogramHook adapts a prometheus observer (histogram or summary) to a
// Metrics histogram callback.
func HistogramHook(o prometheus.Observer) func(float64, *logward.Record) {
	return func(value float64, _ *logward.Record) {
		o.Observe(value)
	}
}
