package logward

import (
	"errors"
	"io"
	"sync"

	"github.com/oklog/ulid/v2"
)

// ErrSinkNotFound is returned when removing a handle that is not registered.
var ErrSinkNotFound = errors.New("sink not found")

// Sink is a log output destination. Write receives records that survived
// the processor chain; the record must be treated as read-only.
type Sink interface {
	Write(*Record) error
}

// SinkHandle identifies one registered sink. Handles are unique for the
// lifetime of the process and are never reused after removal.
type SinkHandle struct {
	id ulid.ULID
}

func (h SinkHandle) String() string {
	return h.id.String()
}

type sinkEntry struct {
	handle SinkHandle
	sink   Sink
	min    Level
}

// SinkManager is a registry of output destinations. It implements Sink by
// fanning records out to every registered sink whose minimum level passes;
// a write failure on one sink never prevents delivery to the others.
// Mutations are serialized; writes snapshot the registry under a read lock.
type SinkManager struct {
	mu      sync.RWMutex
	entries []sinkEntry
}

// NewSinkManager creates an empty sink registry.
func NewSinkManager() *SinkManager {
	return &SinkManager{}
}

// Add registers sink with a minimum level filter and returns its handle.
func (m *SinkManager) Add(sink Sink, min Level) SinkHandle {
	handle := SinkHandle{id: ulid.Make()}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, sinkEntry{handle: handle, sink: sink, min: min})
	return handle
}

// Remove unregisters exactly the sink identified by handle, closing it when
// it implements io.Closer.
func (m *SinkManager) Remove(handle SinkHandle) error {
	m.mu.Lock()
	var removed Sink
	for i := range m.entries {
		if m.entries[i].handle == handle {
			removed = m.entries[i].sink
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			break
		}
	}
	m.mu.Unlock()

	if removed == nil {
		return ErrSinkNotFound
	}
	closeSink(removed)
	return nil
}

// RemoveAll unregisters every sink added through this manager. Sinks
// configured elsewhere are unaffected.
func (m *SinkManager) RemoveAll() {
	m.mu.Lock()
	removed := m.entries
	m.entries = nil
	m.mu.Unlock()

	for _, e := range removed {
		closeSink(e.sink)
	}
}

// Len returns the number of registered sinks.
func (m *SinkManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Write delivers rec to every registered sink at or above its minimum
// level. Per-sink failures are collected and joined; delivery continues
// regardless.
func (m *SinkManager) Write(rec *Record) error {
	m.mu.RLock()
	entries := append([]sinkEntry(nil), m.entries...)
	m.mu.RUnlock()

	var errs []error
	for _, e := range entries {
		if rec.Level < e.min {
			continue
		}
		if err := e.sink.Write(rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func closeSink(s Sink) {
	if c, ok := s.(io.Closer); ok {
		_ = c.Close()
	}
}
