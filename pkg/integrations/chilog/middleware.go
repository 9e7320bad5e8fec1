// Package chilog provides net/http middleware for chi routers: request IDs,
// ambient request context for all logging inside a request, completion logs
// and panic recovery. The middleware only uses the public logging surface;
// it has no access to processor internals.
package chilog

import (
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/logward/logward-go/pkg/logward"
)

const requestIDHeader = "X-Request-ID"

// RequestID propagates an incoming X-Request-ID header or generates one,
// echoing it on the response and into the ambient logging context.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
			if requestID == "" {
				requestID = uuid.New().String()
			}
			w.Header().Set(requestIDHeader, requestID)

			ctx := logward.Contextualize(r.Context(),
				logward.String("request_id", requestID),
			)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Logger contextualizes method and path for the request scope and emits a
// completion record with status, bytes written and duration. Server errors
// log at ERROR, client errors at WARN.
func Logger(log *logward.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ctx := logward.Contextualize(r.Context(),
				logward.String("method", r.Method),
				logward.String("path", r.URL.Path),
			)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			fields := []logward.Field{
				logward.Int("status", ww.Status()),
				logward.Int("bytes", ww.BytesWritten()),
				logward.Int64("duration_ms", time.Since(start).Milliseconds()),
			}

			switch {
			case ww.Status() >= http.StatusInternalServerError:
				_ = log.Error(ctx, "request completed", fields...)
			case ww.Status() >= http.StatusBadRequest:
				_ = log.Warning(ctx, "request completed", fields...)
			default:
				_ = log.Info(ctx, "request completed", fields...)
			}
		})
	}
}

// Recoverer logs panics with the stack trace and responds 500 when headers
// have not been sent.
func Recoverer(log *logward.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				recovered := recover()
				if recovered == nil || recovered == http.ErrAbortHandler {
					return
				}

				_ = log.Error(r.Context(), "panic recovered",
					logward.String("method", r.Method),
					logward.String("path", r.URL.Path),
					logward.Any("panic", recovered),
					logward.String("stack", string(debug.Stack())),
				)

				if ww.Status() == 0 {
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
