package logward

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(opts ...Option) (*Logger, *memorySink) {
	sink := &memorySink{}
	manager := NewSinkManager()
	manager.Add(sink, LevelDebug)
	log := New(append([]Option{WithSinkManager(manager), WithLevel(LevelDebug)}, opts...)...)
	return log, sink
}

func fieldValue(t *testing.T, rec *Record, key string) any {
	t.Helper()
	v, ok := rec.Get(key)
	require.True(t, ok, "missing field %q", key)
	return v
}

func TestLogger_Info(t *testing.T) {
	log, sink := newTestLogger()

	require.NoError(t, log.Info(context.Background(), "user {user} signed in", String("user", "bob"), Int("attempts", 2)))

	recs := sink.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, "user bob signed in", recs[0].Message)
	assert.Equal(t, "user {user} signed in", recs[0].Template)
	assert.Equal(t, LevelInfo, recs[0].Level)
	assert.Equal(t, 2, fieldValue(t, recs[0], "attempts"))
	_, consumed := recs[0].Get("user")
	assert.False(t, consumed, "placeholder fields must not appear as extras")
}

func TestLogger_LevelGate(t *testing.T) {
	log, sink := newTestLogger(WithLevel(LevelWarn))

	require.NoError(t, log.Debug(context.Background(), "d"))
	require.NoError(t, log.Info(context.Background(), "i"))
	require.NoError(t, log.Warning(context.Background(), "w"))
	require.NoError(t, log.Error(context.Background(), "e"))

	recs := sink.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, LevelWarn, recs[0].Level)
	assert.Equal(t, LevelError, recs[1].Level)
}

func TestLogger_Aliases(t *testing.T) {
	log, sink := newTestLogger()
	ctx := context.Background()

	require.NoError(t, log.Trace(ctx, "t"))
	require.NoError(t, log.Success(ctx, "s"))
	require.NoError(t, log.Warn(ctx, "w"))
	require.NoError(t, log.Fatal(ctx, "f"))

	recs := sink.Records()
	require.Len(t, recs, 4)
	assert.Equal(t, LevelDebug, recs[0].Level)
	assert.Equal(t, LevelInfo, recs[1].Level)
	assert.Equal(t, LevelWarn, recs[2].Level)
	assert.Equal(t, LevelCritical, recs[3].Level)
}

func TestLogger_FormattingErrorReturned(t *testing.T) {
	log, sink := newTestLogger()

	err := log.Info(context.Background(), "hello {name}")

	var ferr *FormattingError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "name", ferr.Key)
	assert.Empty(t, sink.Records(), "a malformed call must not emit a record")
}

func TestLogger_FormattingErrorSurvivesLevelGate(t *testing.T) {
	log, sink := newTestLogger(WithLevel(LevelWarn))

	err := log.Debug(context.Background(), "hello {name}")

	var ferr *FormattingError
	require.ErrorAs(t, err, &ferr, "a malformed template is a bug regardless of level")
	assert.Equal(t, "name", ferr.Key)
	assert.Empty(t, sink.Records())

	require.NoError(t, log.Debug(context.Background(), "hello {name}", String("name", "x")))
	assert.Empty(t, sink.Records(), "well-formed suppressed calls stay suppressed")
}

func TestLogger_FieldPrecedence(t *testing.T) {
	log, sink := newTestLogger()
	ctx := Contextualize(context.Background(),
		String("request_id", "ambient"),
		String("stage", "ambient"),
		String("user", "ambient"),
	)

	bound := log.Bind(String("stage", "bound"), String("user", "bound"))
	require.NoError(t, bound.Info(ctx, "m", String("user", "call")))

	recs := sink.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, "ambient", fieldValue(t, recs[0], "request_id"))
	assert.Equal(t, "bound", fieldValue(t, recs[0], "stage"))
	assert.Equal(t, "call", fieldValue(t, recs[0], "user"))
}

func TestLogger_BindDoesNotMutateReceiver(t *testing.T) {
	log, sink := newTestLogger()

	derived := log.Bind(String("component", "worker"))
	require.NoError(t, log.Info(context.Background(), "plain"))
	require.NoError(t, derived.Info(context.Background(), "derived"))

	recs := sink.Records()
	require.Len(t, recs, 2)
	_, ok := recs[0].Get("component")
	assert.False(t, ok, "Bind must not leak fields into the parent logger")
	assert.Equal(t, "worker", fieldValue(t, recs[1], "component"))
}

func TestLogger_BindChaining(t *testing.T) {
	log, sink := newTestLogger()

	derived := log.Bind(String("a", "1")).Bind(String("a", "2"), String("b", "3"))
	require.NoError(t, derived.Info(context.Background(), "m"))

	recs := sink.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, "2", fieldValue(t, recs[0], "a"))
	assert.Equal(t, "3", fieldValue(t, recs[0], "b"))
}

func TestLogger_Exception(t *testing.T) {
	log, sink := newTestLogger()
	cause := errors.New("connection refused")

	require.NoError(t, log.Exception(context.Background(), cause, "dial {addr} failed", String("addr", "db:5432")))

	recs := sink.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, LevelError, recs[0].Level)
	assert.Equal(t, cause, recs[0].Err)
	assert.NotEmpty(t, recs[0].Stack)
	assert.Contains(t, recs[0].Stack[0].Function, "TestLogger_Exception",
		"innermost frame should be the call site")
}

func TestLogger_OptWithError(t *testing.T) {
	log, sink := newTestLogger()
	cause := errors.New("timeout")

	require.NoError(t, log.Opt(WithError(cause)).Warning(context.Background(), "retrying"))
	require.NoError(t, log.Warning(context.Background(), "no error here"))

	recs := sink.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, cause, recs[0].Err)
	assert.NotEmpty(t, recs[0].Stack)
	assert.Nil(t, recs[1].Err, "Opt must not stick to the parent logger")
	assert.Empty(t, recs[1].Stack)
}

func TestLogger_OptWithStack(t *testing.T) {
	log, sink := newTestLogger()

	require.NoError(t, log.Opt(WithStack()).Info(context.Background(), "checkpoint"))

	recs := sink.Records()
	require.Len(t, recs, 1)
	assert.Nil(t, recs[0].Err)
	assert.NotEmpty(t, recs[0].Stack)
}

func TestLogger_ProcessorDropSuppressesDelivery(t *testing.T) {
	log, sink := newTestLogger(WithProcessors(
		ProcessorFunc(func(rec *Record) *Record {
			if rec.Level < LevelError {
				return nil
			}
			return rec
		}),
	))

	require.NoError(t, log.Info(context.Background(), "dropped"))
	require.NoError(t, log.Error(context.Background(), "kept"))

	recs := sink.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, "kept", recs[0].Message)
}

func TestLogger_SinkErrorsGoToHandler(t *testing.T) {
	var handled []error
	sink := &memorySink{err: errors.New("disk full")}
	manager := NewSinkManager()
	manager.Add(sink, LevelDebug)
	log := New(
		WithSinkManager(manager),
		WithErrorHandler(func(err error) { handled = append(handled, err) }),
	)

	require.NoError(t, log.Info(context.Background(), "m"), "sink failures never surface at the call site")
	require.Len(t, handled, 1)
	assert.Contains(t, handled[0].Error(), "disk full")
}

func TestLogger_SetOutput(t *testing.T) {
	log, direct := newTestLogger()
	intercepted := &memorySink{}
	log.SetOutput(intercepted)

	require.NoError(t, log.Info(context.Background(), "m"))

	assert.Empty(t, direct.Records())
	assert.Len(t, intercepted.Records(), 1)
	assert.Equal(t, intercepted, log.Output())
}

func TestLogger_ClockOverride(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	log, sink := newTestLogger(WithClock(func() time.Time { return fixed }))

	require.NoError(t, log.Info(context.Background(), "m"))

	recs := sink.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, fixed, recs[0].Timestamp)
}

func TestLogger_NilContext(t *testing.T) {
	log, sink := newTestLogger()

	require.NoError(t, log.Info(nil, "m")) //nolint:staticcheck

	recs := sink.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, context.Background(), recs[0].Context())
}
