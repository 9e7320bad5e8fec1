// Package sinks provides the built-in output destinations: console, rotating
// file, callable and OpenTelemetry log forwarding. Encoding is delegated to
// zapcore encoders; the stable record keys are timestamp (ISO-8601), level,
// severity (RFC 5424 numeric) and message.
package sinks
