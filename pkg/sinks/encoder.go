package sinks

import (
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"

	"github.com/logward/logward-go/pkg/logward"
)

// newEncoderConfig builds the zapcore encoder configuration shared by the
// console and file sinks. Key names follow the stable record field
// contract.
func newEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		MessageKey:     "message",
		NameKey:        zapcore.OmitKey,
		CallerKey:      zapcore.OmitKey,
		FunctionKey:    zapcore.OmitKey,
		StacktraceKey:  zapcore.OmitKey,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeLevel:    encodeLevel,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
}

// encodeLevel renders canonical level names; zap has no CRITICAL level, so
// FatalLevel carries it on the wire.
func encodeLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	if l == zapcore.FatalLevel {
		enc.AppendString("CRITICAL")
		return
	}
	enc.AppendString(l.CapitalString())
}

func zapLevel(l logward.Level) zapcore.Level {
	switch l {
	case logward.LevelDebug:
		return zapcore.DebugLevel
	case logward.LevelInfo:
		return zapcore.InfoLevel
	case logward.LevelWarn:
		return zapcore.WarnLevel
	case logward.LevelError:
		return zapcore.ErrorLevel
	case logward.LevelCritical:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// encodeRecord renders a record through enc. The severity code and any
// attached error are emitted as ordinary fields ahead of the extras.
func encodeRecord(enc zapcore.Encoder, rec *logward.Record) (*buffer.Buffer, error) {
	entry := zapcore.Entry{
		Level:   zapLevel(rec.Level),
		Time:    rec.Timestamp,
		Message: rec.Message,
	}

	extras := rec.Fields()
	fields := make([]zapcore.Field, 0, len(extras)+2)
	fields = append(fields, zap.Int("severity", rec.Severity()))
	if rec.Err != nil {
		fields = append(fields, zap.String("error", rec.Err.Error()))
	}
	for _, f := range extras {
		fields = append(fields, zap.Any(f.Key, f.Value))
	}

	return enc.EncodeEntry(entry, fields)
}
