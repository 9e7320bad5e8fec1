package processors

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/logward/logward-go/pkg/logward"
)

// TraceContext returns a processor that copies the active span's trace_id,
// span_id and trace_flags onto each record, connecting logs to distributed
// traces. Records logged outside a span pass through unchanged.
func TraceContext() logward.Processor {
	return logward.ProcessorFunc(func(rec *logward.Record) *logward.Record {
		sc := trace.SpanContextFromContext(rec.Context())
		if !sc.IsValid() {
			return rec
		}
		rec.Set("trace_id", sc.TraceID().String())
		rec.Set("span_id", sc.SpanID().String())
		rec.Set("trace_flags", int(sc.TraceFlags()))
		return rec
	})
}
