package sinks

import (
	"fmt"

	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"

	"github.com/logward/logward-go/pkg/logward"
)

// OTel forwards records through an OpenTelemetry logger. Emit hands the
// record to the provider's processor pipeline, so the host application
// controls batching and export; nothing blocks on the logging path.
type OTel struct {
	logger otellog.Logger
}

// NewOTel creates an OTel sink using the global logger provider under the
// given instrumentation name.
func NewOTel(name string) *OTel {
	return &OTel{logger: global.GetLoggerProvider().Logger(name)}
}

// NewOTelWithLogger creates an OTel sink over an explicit logger, for hosts
// that do not use the global provider.
func NewOTelWithLogger(logger otellog.Logger) *OTel {
	return &OTel{logger: logger}
}

func (s *OTel) Write(rec *logward.Record) error {
	var out otellog.Record
	out.SetTimestamp(rec.Timestamp)
	out.SetBody(otellog.StringValue(rec.Message))
	out.SetSeverity(otelSeverity(rec.Level))
	out.SetSeverityText(rec.Level.String())

	extras := rec.Fields()
	attrs := make([]otellog.KeyValue, 0, len(extras)+1)
	if rec.Err != nil {
		attrs = append(attrs, otellog.String("error", rec.Err.Error()))
	}
	for _, f := range extras {
		attrs = append(attrs, otelAttr(f))
	}
	out.AddAttributes(attrs...)

	s.logger.Emit(rec.Context(), out)
	return nil
}

func otelSeverity(l logward.Level) otellog.Severity {
	switch l {
	case logward.LevelDebug:
		return otellog.SeverityDebug
	case logward.LevelInfo:
		return otellog.SeverityInfo
	case logward.LevelWarn:
		return otellog.SeverityWarn
	case logward.LevelError:
		return otellog.SeverityError
	case logward.LevelCritical:
		return otellog.SeverityFatal
	default:
		return otellog.SeverityInfo
	}
}

func otelAttr(f logward.Field) otellog.KeyValue {
	switch v := f.Value.(type) {
	case string:
		return otellog.String(f.Key, v)
	case bool:
		return otellog.Bool(f.Key, v)
	case int:
		return otellog.Int(f.Key, v)
	case int64:
		return otellog.Int64(f.Key, v)
	case float64:
		return otellog.Float64(f.Key, v)
	case []byte:
		return otellog.Bytes(f.Key, v)
	case error:
		return otellog.String(f.Key, v.Error())
	default:
		return otellog.String(f.Key, fmt.Sprint(v))
	}
}
