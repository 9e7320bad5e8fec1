// Package fiberlog provides fiber middleware mirroring chilog: request IDs,
// ambient request context, completion logs and panic recovery.
package fiberlog

import (
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/logward/logward-go/pkg/logward"
)

const requestIDHeader = "X-Request-ID"

// New returns a fiber handler that assigns a request ID, contextualizes
// request fields for all logging inside the handler chain, and emits a
// completion record.
func New(log *logward.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(requestIDHeader, requestID)

		ctx := logward.Contextualize(c.UserContext(),
			logward.String("request_id", requestID),
			logward.String("method", c.Method()),
			logward.String("path", c.Path()),
		)
		c.SetUserContext(ctx)

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		fields := []logward.Field{
			logward.Int("status", status),
			logward.Int64("duration_ms", time.Since(start).Milliseconds()),
			logward.String("ip", c.IP()),
		}
		if err != nil {
			fields = append(fields, logward.Err(err))
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			_ = log.Error(ctx, "request completed", fields...)
		case status >= fiber.StatusBadRequest:
			_ = log.Warning(ctx, "request completed", fields...)
		default:
			_ = log.Info(ctx, "request completed", fields...)
		}

		return err
	}
}

// Recover logs panics with the stack trace and responds 500 when the
// response has not started.
func Recover(log *logward.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		defer func() {
			if recovered := recover(); recovered != nil {
				_ = log.Error(c.UserContext(), "panic recovered",
					logward.String("method", c.Method()),
					logward.String("path", c.Path()),
					logward.Any("panic", recovered),
					logward.String("stack", string(debug.Stack())),
				)

				if c.Response().StatusCode() == 0 {
					_ = c.SendStatus(fiber.StatusInternalServerError)
				}
			}
		}()

		return c.Next()
	}
}
