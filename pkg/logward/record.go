package logward

import (
	"context"
	"runtime"
	"time"
)

// Frame is one call-stack frame captured alongside an error.
type Frame struct {
	File     string
	Line     int
	Function string
}

// Record is one structured log event. The fixed fields (Timestamp, Level,
// Message, Template, Err, Stack) are complemented by an ordered set of extra
// fields. Processors may mutate a record freely; once a record reaches a
// sink it must be treated as read-only.
type Record struct {
	// Timestamp is the creation time of the record, in UTC.
	Timestamp time.Time

	// Level is the severity level.
	Level Level

	// Message is the rendered message, after template formatting.
	Message string

	// Template is the raw message template before formatting. Suppression
	// processors group records by it when no explicit event field is set.
	Template string

	// Err is the error attached via Exception or Opt(WithError).
	Err error

	// Stack holds call-stack frames captured at the call site, innermost
	// first. Populated when an error is attached or WithStack is used.
	Stack []Frame

	ctx    context.Context
	extras []Field
}

// NewRecord creates a record outside the Logger pipeline, for custom
// emitters and for exercising processors and sinks directly.
func NewRecord(ctx context.Context, level Level, message string, fields ...Field) *Record {
	return &Record{
		Timestamp: time.Now().UTC(),
		Level:     level,
		Message:   message,
		ctx:       ctx,
		extras:    append([]Field(nil), fields...),
	}
}

// Context returns the context the record was logged with.
func (r *Record) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// Severity returns the RFC 5424 severity code derived from the level.
func (r *Record) Severity() int {
	return r.Level.Severity()
}

// Fields returns a copy of the extra fields in their original order.
func (r *Record) Fields() []Field {
	return append([]Field(nil), r.extras...)
}

// Get looks up an extra field by key.
func (r *Record) Get(key string) (any, bool) {
	for _, f := range r.extras {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Set replaces the value of an existing field, preserving its position, or
// appends a new field.
func (r *Record) Set(key string, value any) {
	for i := range r.extras {
		if r.extras[i].Key == key {
			r.extras[i].Value = value
			return
		}
	}
	r.extras = append(r.extras, Field{Key: key, Value: value})
}

// Delete removes a field by key.
func (r *Record) Delete(key string) {
	for i := range r.extras {
		if r.extras[i].Key == key {
			r.extras = append(r.extras[:i], r.extras[i+1:]...)
			return
		}
	}
}

// Clone returns a deep-enough copy of the record: the field slice is copied
// so that mutations on the clone do not affect the original. Field values
// are shared.
func (r *Record) Clone() *Record {
	clone := *r
	clone.extras = append([]Field(nil), r.extras...)
	clone.Stack = append([]Frame(nil), r.Stack...)
	return &clone
}

// captureStack records up to 64 frames starting skip levels above the
// caller, innermost first. Runtime frames are excluded.
func captureStack(skip int) []Frame {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return nil
	}

	frames := runtime.CallersFrames(pcs[:n])
	out := make([]Frame, 0, n)
	for {
		frame, more := frames.Next()
		if frame.Function != "" {
			out = append(out, Frame{
				File:     frame.File,
				Line:     frame.Line,
				Function: frame.Function,
			})
		}
		if !more {
			break
		}
	}
	return out
}
