// Package queued decouples record production from sink I/O with a bounded
// queue and a single background consumer, so that slow destinations (disk,
// console pipes) never stall logging call sites.
package queued

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/logward/logward-go/pkg/logward"
)

// ErrClosed is returned by Write after Close has begun. Records offered
// after shutdown are not guaranteed delivery.
var ErrClosed = errors.New("queued: queue closed")

const (
	defaultEnqueueTimeout = 100 * time.Millisecond
	defaultRetryInterval  = 50 * time.Millisecond
)

// Queue is a Sink that enqueues records for a single consumer goroutine,
// which forwards them in FIFO order to the downstream sink.
//
// Saturation policy: Write blocks up to the enqueue timeout, then drops the
// incoming record, counts it and warns once through the error handler.
// Producers are therefore never stalled for longer than the timeout and
// never see an error for a full queue.
type Queue struct {
	dst     logward.Sink
	ch      chan *logward.Record
	quit    chan struct{}
	done    chan struct{}
	onError func(error)

	enqueueTimeout time.Duration
	maxRetries     uint64

	closed   atomic.Bool
	dropped  atomic.Int64
	warnOnce sync.Once
}

// Option configures a Queue.
type Option func(*Queue)

// WithEnqueueTimeout sets how long Write may block on a full queue before
// dropping the record (default 100ms).
func WithEnqueueTimeout(d time.Duration) Option {
	return func(q *Queue) {
		q.enqueueTimeout = d
	}
}

// WithErrorHandler sets the handler for drop warnings and delivery
// failures. Defaults to discarding them.
func WithErrorHandler(fn func(error)) Option {
	return func(q *Queue) {
		q.onError = fn
	}
}

// WithRetries sets how many times a failed sink write is retried with
// exponential backoff before the record is abandoned (default 0).
func WithRetries(n uint64) Option {
	return func(q *Queue) {
		q.maxRetries = n
	}
}

// New creates a queue of the given capacity in front of dst and starts the
// consumer.
func New(dst logward.Sink, size int, opts ...Option) (*Queue, error) {
	if dst == nil {
		return nil, errors.New("queued: destination sink is required")
	}
	if size < 1 {
		return nil, fmt.Errorf("queued: size must be >= 1, got %d", size)
	}

	q := &Queue{
		dst:            dst,
		ch:             make(chan *logward.Record, size),
		quit:           make(chan struct{}),
		done:           make(chan struct{}),
		onError:        func(error) {},
		enqueueTimeout: defaultEnqueueTimeout,
	}
	for _, opt := range opts {
		opt(q)
	}

	go q.consume()
	return q, nil
}

// Write enqueues rec. It returns ErrClosed after shutdown has begun; a full
// queue is recovered locally per the saturation policy and never surfaces
// as an error.
func (q *Queue) Write(rec *logward.Record) error {
	if q.closed.Load() {
		return ErrClosed
	}

	select {
	case q.ch <- rec:
		return nil
	default:
	}

	timer := time.NewTimer(q.enqueueTimeout)
	defer timer.Stop()

	select {
	case q.ch <- rec:
		return nil
	case <-timer.C:
		q.dropped.Add(1)
		q.warnOnce.Do(func() {
			q.onError(fmt.Errorf("queued: queue full (capacity %d), dropping records", cap(q.ch)))
		})
		return nil
	}
}

// Dropped returns how many records were discarded under saturation.
func (q *Queue) Dropped() int64 {
	return q.dropped.Load()
}

// Close stops intake and drains the queue. Draining is bounded by ctx: on
// expiry Close returns ctx.Err() while the consumer keeps draining in the
// background until the queue is empty. Close is idempotent.
func (q *Queue) Close(ctx context.Context) error {
	if !q.closed.CompareAndSwap(false, true) {
		select {
		case <-q.done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	close(q.quit)
	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// consume is the single background worker. A delivery failure on one record
// never stops consumption of the records behind it.
func (q *Queue) consume() {
	defer close(q.done)

	for {
		select {
		case rec := <-q.ch:
			q.deliver(rec)
		case <-q.quit:
			q.drain()
			return
		}
	}
}

func (q *Queue) drain() {
	for {
		select {
		case rec := <-q.ch:
			q.deliver(rec)
		default:
			return
		}
	}
}

func (q *Queue) deliver(rec *logward.Record) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = defaultRetryInterval

	err := backoff.Retry(
		func() error { return q.dst.Write(rec) },
		backoff.WithMaxRetries(policy, q.maxRetries),
	)
	if err != nil {
		q.onError(fmt.Errorf("queued: delivery failed: %w", err))
	}
}
