package sinks

import "github.com/logward/logward-go/pkg/logward"

// Func adapts a function to the Sink interface, for callable destinations
// such as test capture or custom forwarding.
type Func func(*logward.Record) error

func (f Func) Write(rec *logward.Record) error {
	return f(rec)
}
