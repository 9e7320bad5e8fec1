// Package logconfig bootstraps a ready-to-use logger from environment
// variables: LOG_LEVEL (default INFO), JSON_LOGS (0/1, default 1) and
// LOG_PATH (optional rotating file sink).
package logconfig

import (
	"context"
	"io"
	"os"

	"github.com/logward/logward-go/pkg/logward"
	"github.com/logward/logward-go/pkg/processors"
	"github.com/logward/logward-go/pkg/queued"
	"github.com/logward/logward-go/pkg/sinks"
)

// defaultMaxFrames bounds the structured exception frames attached to
// error records.
const defaultMaxFrames = 20

type setup struct {
	writer     io.Writer
	processors []logward.Processor
	queueSize  int
	onError    func(error)
}

// Option adjusts Setup beyond the environment defaults.
type Option func(*setup)

// WithWriter overrides the console sink destination (default os.Stdout).
func WithWriter(w io.Writer) Option {
	return func(s *setup) {
		s.writer = w
	}
}

// WithProcessors appends processors after the default chain (service tag,
// trace context, structured error details).
func WithProcessors(procs ...logward.Processor) Option {
	return func(s *setup) {
		s.processors = append(s.processors, procs...)
	}
}

// WithQueue enables queued delivery with the given capacity, deferring sink
// I/O to a background consumer.
func WithQueue(size int) Option {
	return func(s *setup) {
		s.queueSize = size
	}
}

// WithErrorHandler sets the internal failure handler for the logger and
// the queue.
func WithErrorHandler(fn func(error)) Option {
	return func(s *setup) {
		s.onError = fn
	}
}

// Setup builds a logger from the environment: console sink (JSON or
// console layout), optional rotating file sink, and the default processor
// chain. The returned shutdown function drains queued delivery and closes
// file sinks; call it on process exit.
func Setup(service string, opts ...Option) (*logward.Logger, func(context.Context) error, error) {
	cfg, err := FromEnv()
	if err != nil {
		return nil, nil, err
	}

	s := &setup{writer: os.Stdout}
	for _, opt := range opts {
		opt(s)
	}

	errDetails, err := processors.NewErrDetails(defaultMaxFrames)
	if err != nil {
		return nil, nil, err
	}
	procs := []logward.Processor{
		processors.Service(service),
		processors.TraceContext(),
		errDetails,
	}
	procs = append(procs, s.processors...)

	loggerOpts := []logward.Option{
		logward.WithLevel(cfg.Level),
		logward.WithProcessors(procs...),
	}
	if s.onError != nil {
		loggerOpts = append(loggerOpts, logward.WithErrorHandler(s.onError))
	}

	logger := logward.New(loggerOpts...)
	logger.Sinks().Add(sinks.NewConsole(s.writer, cfg.JSONLogs), cfg.Level)
	if cfg.FilePath != "" {
		logger.Sinks().Add(sinks.NewFile(cfg.FilePath), cfg.Level)
	}

	var queue *queued.Queue
	if s.queueSize > 0 {
		queueOpts := []queued.Option{}
		if s.onError != nil {
			queueOpts = append(queueOpts, queued.WithErrorHandler(s.onError))
		}
		queue, err = queued.New(logger.Sinks(), s.queueSize, queueOpts...)
		if err != nil {
			return nil, nil, err
		}
		logger.SetOutput(queue)
	}

	shutdown := func(ctx context.Context) error {
		if queue != nil {
			if err := queue.Close(ctx); err != nil {
				return err
			}
		}
		logger.Sinks().RemoveAll()
		return nil
	}
	return logger, shutdown, nil
}
