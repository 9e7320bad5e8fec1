package processors

import (
	"errors"
	"fmt"

	"github.com/logward/logward-go/pkg/logward"
)

// Conditional runs an inner processor only when the record's level falls
// within [min, max]; out-of-range records pass through unchanged. A drop by
// the inner processor propagates.
type Conditional struct {
	inner logward.Processor
	min   logward.Level
	max   logward.Level
}

// ConditionalOption configures a Conditional.
type ConditionalOption func(*Conditional)

// WithMaxLevel caps the level range (inclusive). Defaults to CRITICAL.
func WithMaxLevel(max logward.Level) ConditionalOption {
	return func(c *Conditional) {
		c.max = max
	}
}

// NewConditional wraps inner with a minimum-level gate.
func NewConditional(inner logward.Processor, min logward.Level, opts ...ConditionalOption) (*Conditional, error) {
	if inner == nil {
		return nil, errors.New("conditional: inner processor is required")
	}

	c := &Conditional{inner: inner, min: min, max: logward.LevelCritical}
	for _, opt := range opts {
		opt(c)
	}
	if c.min > c.max {
		return nil, fmt.Errorf("conditional: min level %s above max level %s", c.min, c.max)
	}
	return c, nil
}

func (c *Conditional) Process(rec *logward.Record) *logward.Record {
	if rec.Level < c.min || rec.Level > c.max {
		return rec
	}
	return c.inner.Process(rec)
}
