// Package tasklog provides logging middleware for message consumers and
// task workers: per-message ambient context (topic, partition, offset),
// completion logs, panic recovery, and context propagation from producer to
// consumer via message headers. It is broker-neutral; the Message shape
// maps onto Kafka- and AMQP-style clients alike.
package tasklog

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sort"
	"time"

	"github.com/logward/logward-go/pkg/logward"
)

// ContextHeader is the message header carrying serialized ambient fields
// across the producer/consumer boundary.
const ContextHeader = "logward-context"

// Message is a broker message as seen by handlers.
type Message struct {
	// Topic is the topic or queue the message came from.
	Topic string

	// Key is the message key, when the broker has one.
	Key []byte

	// Value is the payload.
	Value []byte

	// Headers carries message metadata, including propagated context.
	Headers map[string]string

	// Partition and Offset locate the message for Kafka-like brokers.
	Partition int32
	Offset    int64

	// Attempt is the current delivery attempt.
	Attempt int
}

// HandlerFunc processes one message.
type HandlerFunc func(ctx context.Context, msg *Message) error

// Middleware wraps a HandlerFunc.
type Middleware func(HandlerFunc) HandlerFunc

// InjectContext serializes ambient fields from ctx into headers so the
// consumer restores them via the Logging middleware or ExtractContext.
// When keys are given, only those fields propagate; none means all.
func InjectContext(ctx context.Context, headers map[string]string, keys ...string) error {
	fields := logward.ContextFields(ctx)
	if len(keys) > 0 {
		wanted := make(map[string]struct{}, len(keys))
		for _, k := range keys {
			wanted[k] = struct{}{}
		}
		filtered := fields[:0]
		for _, f := range fields {
			if _, ok := wanted[f.Key]; ok {
				filtered = append(filtered, f)
			}
		}
		fields = filtered
	}
	if len(fields) == 0 {
		return nil
	}

	payload := make(map[string]any, len(fields))
	for _, f := range fields {
		payload[f.Key] = f.Value
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("tasklog: serialize context: %w", err)
	}
	headers[ContextHeader] = string(raw)
	return nil
}

// ExtractContext restores fields propagated through the context header onto
// a derived context. A missing or malformed header yields ctx unchanged.
func ExtractContext(ctx context.Context, headers map[string]string) context.Context {
	fields := propagatedFields(headers)
	if len(fields) == 0 {
		return ctx
	}
	return logward.Contextualize(ctx, fields...)
}

// Logging restores propagated context, contextualizes the message identity
// for all logging inside the handler, and emits a completion record with
// the duration and attempt.
func Logging(log *logward.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, msg *Message) error {
			start := time.Now()

			ctx = ExtractContext(ctx, msg.Headers)
			ctx = logward.Contextualize(ctx,
				logward.String("topic", msg.Topic),
				logward.Int("partition", int(msg.Partition)),
				logward.Int64("offset", msg.Offset),
			)

			err := next(ctx, msg)

			fields := []logward.Field{
				logward.Int64("duration_ms", time.Since(start).Milliseconds()),
				logward.Int("attempt", msg.Attempt),
			}
			if err != nil {
				_ = log.Error(ctx, "message processed", append(fields, logward.Err(err))...)
			} else {
				_ = log.Info(ctx, "message processed", fields...)
			}

			return err
		}
	}
}

// Recovery converts a handler panic into an error and logs it with the
// stack trace, so one poisoned message never kills the consumer loop.
func Recovery(log *logward.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, msg *Message) (err error) {
			defer func() {
				if recovered := recover(); recovered != nil {
					_ = log.Error(ctx, "panic recovered",
						logward.String("topic", msg.Topic),
						logward.Int64("offset", msg.Offset),
						logward.Any("panic", recovered),
						logward.String("stack", string(debug.Stack())),
					)
					err = fmt.Errorf("tasklog: handler panic: %v", recovered)
				}
			}()

			return next(ctx, msg)
		}
	}
}

// propagatedFields decodes the context header. Keys are sorted so the
// restored field order is stable across deliveries.
func propagatedFields(headers map[string]string) []logward.Field {
	raw, ok := headers[ContextHeader]
	if !ok || raw == "" {
		return nil
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil
	}

	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]logward.Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, logward.Any(k, payload[k]))
	}
	return fields
}
