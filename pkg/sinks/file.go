package sinks

import (
	"sync"

	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/logward/logward-go/pkg/logward"
)

const (
	defaultMaxSizeMB  = 50
	defaultMaxBackups = 5
)

// File writes JSON-encoded records to a size-rotated log file.
type File struct {
	enc zapcore.Encoder

	mu sync.Mutex
	lj *lumberjack.Logger
}

// FileOption configures a File sink.
type FileOption func(*lumberjack.Logger)

// WithMaxSizeMB sets the rotation threshold in megabytes (default 50).
func WithMaxSizeMB(size int) FileOption {
	return func(lj *lumberjack.Logger) {
		lj.MaxSize = size
	}
}

// WithMaxBackups sets how many rotated files are kept (default 5).
func WithMaxBackups(n int) FileOption {
	return func(lj *lumberjack.Logger) {
		lj.MaxBackups = n
	}
}

// NewFile creates a rotating file sink at path.
func NewFile(path string, opts ...FileOption) *File {
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    defaultMaxSizeMB,
		MaxBackups: defaultMaxBackups,
	}
	for _, opt := range opts {
		opt(lj)
	}
	return &File{enc: zapcore.NewJSONEncoder(newEncoderConfig()), lj: lj}
}

func (f *File) Write(rec *logward.Record) error {
	buf, err := encodeRecord(f.enc, rec)
	if err != nil {
		return err
	}
	defer buf.Free()

	f.mu.Lock()
	defer f.mu.Unlock()
	_, err = f.lj.Write(buf.Bytes())
	return err
}

// Close flushes and closes the underlying file. The sink registry calls
// this on removal.
func (f *File) Close() error {
	return f.lj.Close()
}
