package processors

import (
	"errors"
	"fmt"

	"github.com/logward/logward-go/pkg/logward"
)

// ErrDetails converts an attached error and its captured stack into a
// nested "exception" field:
//
//	{type, message, frames: [{file, line, function}, ...], truncated, cause}
//
// Frames are ordered innermost first and truncated to maxFrames; truncation
// is flagged explicitly. Records without an error pass through untouched.
type ErrDetails struct {
	maxFrames int
}

// NewErrDetails validates maxFrames, which must be at least 1.
func NewErrDetails(maxFrames int) (*ErrDetails, error) {
	if maxFrames < 1 {
		return nil, fmt.Errorf("error details: max frames must be >= 1, got %d", maxFrames)
	}
	return &ErrDetails{maxFrames: maxFrames}, nil
}

func (p *ErrDetails) Process(rec *logward.Record) *logward.Record {
	if rec.Err == nil {
		return rec
	}

	details := map[string]any{
		"type":    fmt.Sprintf("%T", rec.Err),
		"message": rec.Err.Error(),
	}

	frames := rec.Stack
	if len(frames) > p.maxFrames {
		frames = frames[:p.maxFrames]
		details["truncated"] = true
	}
	if len(frames) > 0 {
		encoded := make([]map[string]any, 0, len(frames))
		for _, f := range frames {
			encoded = append(encoded, map[string]any{
				"file":     f.File,
				"line":     f.Line,
				"function": f.Function,
			})
		}
		details["frames"] = encoded
	}

	if cause := errors.Unwrap(rec.Err); cause != nil {
		details["cause"] = map[string]any{
			"type":    fmt.Sprintf("%T", cause),
			"message": cause.Error(),
		}
	}

	rec.Set("exception", details)
	return rec
}
