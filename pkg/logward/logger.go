package logward

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"
)

// Logger is the logging façade. Loggers are cheap value-like handles over a
// shared core: Bind and Opt return derived loggers and never mutate the
// receiver, so a logger may be shared freely across goroutines.
type Logger struct {
	core *core

	bound     []Field
	callErr   error
	wantStack bool
}

type core struct {
	level   Level
	chain   *Chain
	sinks   *SinkManager
	onError func(error)
	now     func() time.Time

	mu  sync.RWMutex
	out Sink
}

// Option configures a Logger at construction.
type Option func(*config)

type config struct {
	level      Level
	processors []Processor
	sinks      *SinkManager
	onError    func(error)
	now        func() time.Time
}

// WithLevel sets the minimum level; records below it are discarded before
// formatting. Defaults to LevelInfo.
func WithLevel(level Level) Option {
	return func(c *config) {
		c.level = level
	}
}

// WithProcessors appends processors to the chain, in registration order.
func WithProcessors(procs ...Processor) Option {
	return func(c *config) {
		c.processors = append(c.processors, procs...)
	}
}

// WithSinkManager supplies a pre-populated sink registry.
func WithSinkManager(m *SinkManager) Option {
	return func(c *config) {
		c.sinks = m
	}
}

// WithErrorHandler sets the handler for internal pipeline failures
// (processor panics, sink write errors). These are never returned to the
// logging call site. By default they are written to stderr.
func WithErrorHandler(fn func(error)) Option {
	return func(c *config) {
		c.onError = fn
	}
}

// WithClock overrides the time source used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

// New creates a Logger. Without options it logs at INFO level to an empty
// sink registry; use Sinks().Add or pkg/logconfig to attach outputs.
func New(opts ...Option) *Logger {
	cfg := &config{
		level: LevelInfo,
		now:   time.Now,
		onError: func(err error) {
			fmt.Fprintln(os.Stderr, "logward:", err)
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.sinks == nil {
		cfg.sinks = NewSinkManager()
	}

	c := &core{
		level:   cfg.level,
		chain:   NewChain(cfg.onError, cfg.processors...),
		sinks:   cfg.sinks,
		onError: cfg.onError,
		now:     cfg.now,
		out:     cfg.sinks,
	}
	return &Logger{core: c}
}

// Sinks returns the sink registry backing this logger.
func (l *Logger) Sinks() *SinkManager {
	return l.core.sinks
}

// Level returns the minimum level.
func (l *Logger) Level() Level {
	return l.core.level
}

// SetOutput replaces the delivery target for records that survive the
// chain. The default target is the sink registry itself; queued delivery
// interposes a queue here.
func (l *Logger) SetOutput(s Sink) {
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	l.core.out = s
}

// Output returns the current delivery target.
func (l *Logger) Output() Sink {
	l.core.mu.RLock()
	defer l.core.mu.RUnlock()
	return l.core.out
}

// Bind returns a derived logger whose records always carry the given
// fields. The receiver is not modified.
func (l *Logger) Bind(fields ...Field) *Logger {
	derived := *l
	derived.bound = mergeFields(l.bound, fields)
	return &derived
}

// LogOption adjusts error-capture behaviour for a derived logger.
type LogOption func(*Logger)

// WithError attaches err to records emitted by the derived logger.
func WithError(err error) LogOption {
	return func(l *Logger) {
		l.callErr = err
	}
}

// WithStack captures the call stack on records emitted by the derived
// logger, even without an attached error.
func WithStack() LogOption {
	return func(l *Logger) {
		l.wantStack = true
	}
}

// Opt returns a derived logger with one-shot capture options applied, in the
// manner of Bind. Typical use:
//
//	log.Opt(logward.WithError(err)).Warning(ctx, "retrying {op}", logward.String("op", op))
func (l *Logger) Opt(opts ...LogOption) *Logger {
	derived := *l
	for _, opt := range opts {
		opt(&derived)
	}
	return &derived
}

// Trace logs at DEBUG level (alias).
func (l *Logger) Trace(ctx context.Context, template string, fields ...Field) error {
	return l.log(ctx, LevelDebug, template, fields, l.callErr)
}

// Debug logs at DEBUG level.
func (l *Logger) Debug(ctx context.Context, template string, fields ...Field) error {
	return l.log(ctx, LevelDebug, template, fields, l.callErr)
}

// Info logs at INFO level.
func (l *Logger) Info(ctx context.Context, template string, fields ...Field) error {
	return l.log(ctx, LevelInfo, template, fields, l.callErr)
}

// Success logs at INFO level (alias).
func (l *Logger) Success(ctx context.Context, template string, fields ...Field) error {
	return l.log(ctx, LevelInfo, template, fields, l.callErr)
}

// Warning logs at WARN level.
func (l *Logger) Warning(ctx context.Context, template string, fields ...Field) error {
	return l.log(ctx, LevelWarn, template, fields, l.callErr)
}

// Warn logs at WARN level (alias for Warning).
func (l *Logger) Warn(ctx context.Context, template string, fields ...Field) error {
	return l.log(ctx, LevelWarn, template, fields, l.callErr)
}

// Error logs at ERROR level.
func (l *Logger) Error(ctx context.Context, template string, fields ...Field) error {
	return l.log(ctx, LevelError, template, fields, l.callErr)
}

// Critical logs at CRITICAL level.
func (l *Logger) Critical(ctx context.Context, template string, fields ...Field) error {
	return l.log(ctx, LevelCritical, template, fields, l.callErr)
}

// Fatal logs at CRITICAL level (alias). It does not exit the process.
func (l *Logger) Fatal(ctx context.Context, template string, fields ...Field) error {
	return l.log(ctx, LevelCritical, template, fields, l.callErr)
}

// Exception logs at ERROR level with err attached and the call stack
// captured, for structured exception reporting downstream.
func (l *Logger) Exception(ctx context.Context, err error, template string, fields ...Field) error {
	return l.log(ctx, LevelError, template, fields, err)
}

// log builds the record, runs the chain and delivers the survivor. The only
// error ever returned is a *FormattingError; every other failure is routed
// to the error handler so the logging path never raises into callers.
// Formatting runs before the level gate: a template referencing a missing
// key is a call-site bug and must surface even when the level is suppressed.
func (l *Logger) log(ctx context.Context, level Level, template string, fields []Field, err error) error {
	message, extras, ferr := FormatMessage(template, fields)
	if ferr != nil {
		return ferr
	}
	if level < l.core.level {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	// Ambient context first, bound fields over it, per-call fields last:
	// call-site values are never overwritten.
	merged := mergeFields(mergeFields(ambientFields(ctx), l.bound), extras)

	rec := &Record{
		Timestamp: l.core.now().UTC(),
		Level:     level,
		Message:   message,
		Template:  template,
		Err:       err,
		ctx:       ctx,
		extras:    merged,
	}
	if err != nil || l.wantStack {
		rec.Stack = captureStack(2)
	}

	rec = l.core.chain.Run(rec)
	if rec == nil {
		return nil
	}

	if werr := l.Output().Write(rec); werr != nil {
		l.core.onError(werr)
	}
	return nil
}
