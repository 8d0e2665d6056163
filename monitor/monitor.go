// Package monitor collects emitter diagnostics. A Monitor implements both
// reporter interfaces from the emitter package, keeps a ring buffer of
// recent records, and can broadcast live records to subscribers and over
// HTTP.
package monitor

import (
	"container/ring"
	"fmt"
	"sync"
	"time"

	"github.com/emberlink/emitkit/emitter"
)

var (
	_ emitter.WarningReporter = (*Monitor)(nil)
	_ emitter.ErrorReporter   = (*Monitor)(nil)
)

// RecordKind classifies a diagnostic record.
type RecordKind string

const (
	KindWarning RecordKind = "warning"
	KindFailure RecordKind = "failure"
)

// Record is one captured diagnostic.
type Record struct {
	Timestamp time.Time  `json:"ts" cbor:"1,keyasint"`
	Kind      RecordKind `json:"kind" cbor:"2,keyasint"`
	Event     string     `json:"event,omitempty" cbor:"3,keyasint,omitempty"`
	Message   string     `json:"message" cbor:"4,keyasint"`
}

func (r Record) String() string {
	if r.Event == "" {
		return fmt.Sprintf("[%s] %s %s", r.Timestamp.Format(time.RFC3339), r.Kind, r.Message)
	}
	return fmt.Sprintf("[%s] %s <%s> %s", r.Timestamp.Format(time.RFC3339), r.Kind, r.Event, r.Message)
}

// Monitor is safe for concurrent use; many emitters can share one.
type Monitor struct {
	mu      sync.RWMutex
	clients map[int]func(Record)
	nextID  int

	buffer   *ring.Ring
	bufferMu sync.RWMutex
}

// New creates a monitor keeping the last size records. size <= 0 falls back
// to 1024.
func New(size int) *Monitor {
	if size <= 0 {
		size = 1024
	}
	return &Monitor{
		clients: make(map[int]func(Record)),
		buffer:  ring.New(size),
	}
}

// Warn implements emitter.WarningReporter.
func (m *Monitor) Warn(msg string) {
	m.add(Record{
		Timestamp: time.Now(),
		Kind:      KindWarning,
		Message:   msg,
	})
}

// DispatchError implements emitter.ErrorReporter. The stack is dropped from
// the record to keep history lines short; use the trace reporter when the
// full stack matters.
func (m *Monitor) DispatchError(event string, target any, recovered any, _ []byte) {
	m.add(Record{
		Timestamp: time.Now(),
		Kind:      KindFailure,
		Event:     event,
		Message:   fmt.Sprintf("handler for %q on %T panicked: %v", event, target, recovered),
	})
}

func (m *Monitor) add(r Record) {
	m.bufferMu.Lock()
	m.buffer.Value = r
	m.buffer = m.buffer.Next()
	m.bufferMu.Unlock()

	m.broadcast(r)
}

// GetHistory returns the buffered records, oldest first.
func (m *Monitor) GetHistory() []Record {
	m.bufferMu.RLock()
	defer m.bufferMu.RUnlock()

	var history []Record
	m.buffer.Do(func(p any) {
		if r, ok := p.(Record); ok {
			history = append(history, r)
		}
	})
	return history
}

// OnRecord registers a callback for live records and returns a cancel
// function. Callbacks run on the goroutine that produced the record, so
// they should be quick and must not block.
func (m *Monitor) OnRecord(fn func(Record)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.clients[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.clients, id)
		m.mu.Unlock()
	}
}

func (m *Monitor) broadcast(r Record) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, client := range m.clients {
		client(r)
	}
}

func (m *Monitor) clientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}
