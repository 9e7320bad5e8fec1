package sinks

import (
	"io"
	"sync"

	"go.uber.org/zap/zapcore"

	"github.com/logward/logward-go/pkg/logward"
)

// Console writes records to an io.Writer, JSON-encoded or in zap's
// human-readable console layout. Writes are serialized.
type Console struct {
	enc zapcore.Encoder

	mu sync.Mutex
	ws zapcore.WriteSyncer
}

// NewConsole creates a console sink over w. jsonFormat selects JSON output;
// otherwise the console encoder is used.
func NewConsole(w io.Writer, jsonFormat bool) *Console {
	cfg := newEncoderConfig()

	var enc zapcore.Encoder
	if jsonFormat {
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		enc = zapcore.NewConsoleEncoder(cfg)
	}

	return &Console{enc: enc, ws: zapcore.AddSync(w)}
}

func (c *Console) Write(rec *logward.Record) error {
	buf, err := encodeRecord(c.enc, rec)
	if err != nil {
		return err
	}
	defer buf.Free()

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err = c.ws.Write(buf.Bytes())
	return err
}
