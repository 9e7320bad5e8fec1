// Package processors provides the built-in record transforms: redaction,
// sampling, rate limiting, metric extraction, level-conditional wrapping,
// structured error details, trace-context injection and service tagging.
// All of them implement logward.Processor and validate their configuration
// at construction time.
package processors
