package logward

import (
	"fmt"
	"strings"
)

// Level represents the severity of a log record.
type Level int8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
)

// String returns the canonical level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	default:
		return fmt.Sprintf("LEVEL(%d)", int8(l))
	}
}

// Severity returns the RFC 5424 syslog severity code for the level
// (7=debug, 6=informational, 4=warning, 3=error, 2=critical).
func (l Level) Severity() int {
	switch l {
	case LevelDebug:
		return 7
	case LevelInfo:
		return 6
	case LevelWarn:
		return 4
	case LevelError:
		return 3
	case LevelCritical:
		return 2
	default:
		return 6
	}
}

// ParseLevel converts a level name to a Level. Alias names fold to their
// canonical levels: TRACE to DEBUG, SUCCESS to INFO, WARNING to WARN and
// FATAL to CRITICAL. Matching is case-insensitive.
func ParseLevel(name string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "TRACE", "DEBUG":
		return LevelDebug, nil
	case "INFO", "SUCCESS":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	case "CRITICAL", "FATAL":
		return LevelCritical, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}
