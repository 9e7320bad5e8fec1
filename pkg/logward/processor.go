package logward

import (
	"fmt"
	"sync"
)

// Processor is a pure transform over a record. Returning nil drops the
// record: the chain stops and no sink receives it. Processors run in
// registration order on the caller's goroutine and must not perform I/O.
type Processor interface {
	Process(*Record) *Record
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(*Record) *Record

func (f ProcessorFunc) Process(r *Record) *Record {
	return f(r)
}

// Chain runs an ordered sequence of processors. A processor that panics is
// isolated: the record passes through unchanged and the failure is reported
// once per processor through the error handler, so the logging path never
// raises into application code.
type Chain struct {
	procs   []Processor
	failed  []sync.Once
	onError func(error)
}

// NewChain builds a chain over procs. onError receives processor failure
// reports; a nil handler discards them.
func NewChain(onError func(error), procs ...Processor) *Chain {
	if onError == nil {
		onError = func(error) {}
	}
	return &Chain{
		procs:   append([]Processor(nil), procs...),
		failed:  make([]sync.Once, len(procs)),
		onError: onError,
	}
}

// Len returns the number of processors in the chain.
func (c *Chain) Len() int {
	return len(c.procs)
}

// Run feeds rec through every processor in order. Each processor's output is
// the next one's input. A nil result terminates the chain and Run returns
// nil, meaning the record was dropped.
func (c *Chain) Run(rec *Record) *Record {
	for i := range c.procs {
		out, err := c.apply(i, rec)
		if err != nil {
			c.failed[i].Do(func() { c.onError(err) })
			continue
		}
		if out == nil {
			return nil
		}
		rec = out
	}
	return rec
}

func (c *Chain) apply(i int, rec *Record) (out *Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("logward: processor %T panicked: %v", c.procs[i], r)
		}
	}()
	return c.procs[i].Process(rec), nil
}
