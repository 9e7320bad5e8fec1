package processors

import (
	"regexp"

	"github.com/logward/logward-go/pkg/logward"
)

// DefaultSensitiveKeys covers the common credential and identity field
// names redacted when no explicit key set is configured.
var DefaultSensitiveKeys = []string{
	"password",
	"passwd",
	"secret",
	"token",
	"api_key",
	"apikey",
	"access_token",
	"refresh_token",
	"authorization",
	"cookie",
	"session_id",
	"credit_card",
	"ssn",
	"private_key",
}

const defaultReplacement = "[REDACTED]"

// Redactor masks sensitive data on records. Key matching is exact and
// case-sensitive and applies to top-level field names only; pattern
// matching applies to string values at any nesting depth.
type Redactor struct {
	keys        map[string]struct{}
	patterns    []*regexp.Regexp
	replacement string
}

// RedactorOption configures a Redactor.
type RedactorOption func(*Redactor)

// WithSensitiveKeys replaces the default key set.
func WithSensitiveKeys(keys ...string) RedactorOption {
	return func(r *Redactor) {
		r.keys = make(map[string]struct{}, len(keys))
		for _, k := range keys {
			r.keys[k] = struct{}{}
		}
	}
}

// WithPatterns sets regex patterns applied to string values.
func WithPatterns(patterns ...*regexp.Regexp) RedactorOption {
	return func(r *Redactor) {
		r.patterns = append([]*regexp.Regexp(nil), patterns...)
	}
}

// WithReplacement sets the replacement string, "[REDACTED]" by default.
func WithReplacement(replacement string) RedactorOption {
	return func(r *Redactor) {
		r.replacement = replacement
	}
}

// NewRedactor creates a Redactor with DefaultSensitiveKeys unless
// overridden.
func NewRedactor(opts ...RedactorOption) *Redactor {
	r := &Redactor{replacement: defaultReplacement}
	for _, opt := range opts {
		opt(r)
	}
	if r.keys == nil {
		r.keys = make(map[string]struct{}, len(DefaultSensitiveKeys))
		for _, k := range DefaultSensitiveKeys {
			r.keys[k] = struct{}{}
		}
	}
	return r
}

func (r *Redactor) Process(rec *logward.Record) *logward.Record {
	for _, f := range rec.Fields() {
		if _, ok := r.keys[f.Key]; ok {
			rec.Set(f.Key, r.replacement)
			continue
		}
		if len(r.patterns) == 0 {
			continue
		}
		if masked, changed := r.mask(f.Value); changed {
			rec.Set(f.Key, masked)
		}
	}
	return rec
}

// mask applies the configured patterns to string values, descending into
// maps and slices. It reports whether anything changed so untouched values
// keep their identity.
func (r *Redactor) mask(value any) (any, bool) {
	switch v := value.(type) {
	case string:
		masked := v
		for _, p := range r.patterns {
			masked = p.ReplaceAllString(masked, r.replacement)
		}
		return masked, masked != v

	case map[string]any:
		out := make(map[string]any, len(v))
		changed := false
		for k, inner := range v {
			m, c := r.mask(inner)
			out[k] = m
			changed = changed || c
		}
		if !changed {
			return v, false
		}
		return out, true

	case []any:
		out := make([]any, len(v))
		changed := false
		for i, inner := range v {
			m, c := r.mask(inner)
			out[i] = m
			changed = changed || c
		}
		if !changed {
			return v, false
		}
		return out, true

	default:
		return value, false
	}
}
