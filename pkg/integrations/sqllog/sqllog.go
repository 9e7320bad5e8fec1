// Package sqllog logs database query durations: queries slower than a
// configurable threshold are logged as warnings, everything else only when
// log-all is enabled. It wraps database/sql directly, so it works with any
// driver and carries no ORM dependency.
package sqllog

import (
	"context"
	"database/sql"
	"time"

	"github.com/logward/logward-go/pkg/logward"
)

const (
	defaultSlowThreshold = 100 * time.Millisecond

	// maxQueryLength bounds the statement text attached to records.
	maxQueryLength = 500
)

// Observer times queries and emits records per the slow-threshold policy.
type Observer struct {
	log       *logward.Logger
	threshold time.Duration
	logAll    bool
	now       func() time.Time
}

// Option configures an Observer.
type Option func(*Observer)

// WithSlowThreshold sets the duration above which a query logs a warning
// (default 100ms).
func WithSlowThreshold(d time.Duration) Option {
	return func(o *Observer) {
		o.threshold = d
	}
}

// WithLogAll logs every query, fast ones at DEBUG.
func WithLogAll() Option {
	return func(o *Observer) {
		o.logAll = true
	}
}

// WithClock overrides the time source used for query timing.
func WithClock(now func() time.Time) Option {
	return func(o *Observer) {
		o.now = now
	}
}

// NewObserver creates a query observer over log.
func NewObserver(log *logward.Logger, opts ...Option) *Observer {
	o := &Observer{
		log:       log,
		threshold: defaultSlowThreshold,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Track starts timing query and returns the completion callback:
//
//	finish := obs.Track(ctx, query)
//	rows, err := db.QueryContext(ctx, query)
//	finish(err)
func (o *Observer) Track(ctx context.Context, query string) func(error) {
	start := o.now()
	return func(err error) {
		o.observe(ctx, query, o.now().Sub(start), err)
	}
}

func (o *Observer) observe(ctx context.Context, query string, elapsed time.Duration, err error) {
	slow := elapsed >= o.threshold
	if err == nil && !slow && !o.logAll {
		return
	}

	fields := []logward.Field{
		logward.String("query", truncateQuery(query)),
		logward.Float64("duration_ms", float64(elapsed.Microseconds())/1000),
		logward.Bool("slow", slow),
	}

	switch {
	case err != nil:
		_ = o.log.Error(ctx, "query failed", append(fields, logward.Err(err))...)
	case slow:
		_ = o.log.Warning(ctx, "slow query", fields...)
	default:
		_ = o.log.Debug(ctx, "query executed", fields...)
	}
}

func truncateQuery(query string) string {
	if len(query) > maxQueryLength {
		return query[:maxQueryLength]
	}
	return query
}

// DB wraps *sql.DB so that every Exec/Query call is timed and logged
// through the observer. Methods not overridden pass through to the
// embedded handle untimed.
type DB struct {
	*sql.DB
	obs *Observer
}

// Wrap attaches query logging to db.
func Wrap(db *sql.DB, log *logward.Logger, opts ...Option) *DB {
	return &DB{DB: db, obs: NewObserver(log, opts...)}
}

// ExecContext runs db.ExecContext under query timing.
func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	finish := d.obs.Track(ctx, query)
	res, err := d.DB.ExecContext(ctx, query, args...)
	finish(err)
	return res, err
}

// QueryContext runs db.QueryContext under query timing.
func (d *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	finish := d.obs.Track(ctx, query)
	rows, err := d.DB.QueryContext(ctx, query, args...)
	finish(err)
	return rows, err
}

// QueryRowContext runs db.QueryRowContext under query timing. The deferred
// row error is what the driver reported for the query.
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	finish := d.obs.Track(ctx, query)
	row := d.DB.QueryRowContext(ctx, query, args...)
	finish(row.Err())
	return row
}
