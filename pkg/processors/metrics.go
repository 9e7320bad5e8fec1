package processors

import (
	"fmt"
	"strings"
	"sync"

	"github.com/logward/logward-go/pkg/logward"
)

// Metrics derives counters and histograms from log records via registered
// callbacks. Event matching is substring containment against the record's
// event name. Callback failures never break the logging path: the record
// always continues, and a panicking callback is reported once per
// registration through the error handler.
//
//	m := processors.NewMetrics()
//	m.Counter("user.login", processors.CounterHook(loginCounter))
//	m.Histogram("db.query", "duration_ms", processors.HistogramHook(queryHist))
type Metrics struct {
	onError func(error)

	mu         sync.RWMutex
	counters   map[string]*counterEntry
	histograms map[string]*histogramEntry
}

type counterEntry struct {
	fn     func(*logward.Record)
	failed sync.Once
}

type histogramEntry struct {
	field  string
	fn     func(float64, *logward.Record)
	failed sync.Once
}

// MetricsOption configures a Metrics processor.
type MetricsOption func(*Metrics)

// WithMetricsErrorHandler sets the handler receiving callback panic reports.
// Defaults to discarding them.
func WithMetricsErrorHandler(fn func(error)) MetricsOption {
	return func(m *Metrics) {
		m.onError = fn
	}
}

// NewMetrics creates a Metrics processor with no registrations.
func NewMetrics(opts ...MetricsOption) *Metrics {
	m := &Metrics{
		onError:    func(error) {},
		counters:   make(map[string]*counterEntry),
		histograms: make(map[string]*histogramEntry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Counter registers fn to run for every non-dropped record whose event name
// contains event. Returns the receiver for chaining.
func (m *Metrics) Counter(event string, fn func(*logward.Record)) *Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[event] = &counterEntry{fn: fn}
	return m
}

// Histogram registers fn to receive the numeric value of field for every
// matching record. Records without the field, or with a non-numeric value,
// are skipped silently. Returns the receiver for chaining.
func (m *Metrics) Histogram(event, field string, fn func(float64, *logward.Record)) *Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.histograms[event] = &histogramEntry{field: field, fn: fn}
	return m
}

func (m *Metrics) Process(rec *logward.Record) *logward.Record {
	name := eventName(rec)

	m.mu.RLock()
	defer m.mu.RUnlock()

	for event, entry := range m.counters {
		if strings.Contains(name, event) {
			m.safeCall(event, &entry.failed, func() { entry.fn(rec) })
		}
	}

	for event, entry := range m.histograms {
		if !strings.Contains(name, event) {
			continue
		}
		raw, ok := rec.Get(entry.field)
		if !ok {
			continue
		}
		value, ok := toFloat64(raw)
		if !ok {
			continue
		}
		m.safeCall(event, &entry.failed, func() { entry.fn(value, rec) })
	}

	return rec
}

// safeCall isolates a callback panic and reports it once for the
// registration, mirroring the processor chain's failure texture.
func (m *Metrics) safeCall(event string, failed *sync.Once, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			failed.Do(func() {
				m.onError(fmt.Errorf("metrics: callback for %q panicked: %v", event, r))
			})
		}
	}()
	fn()
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
