package tracing

import (
	"sync"

	"github.com/sarchlab/pcsma/datarecording"
)

// Table names used by the DBTracer.
const (
	OutcomeTable = "slot_outcome"
	SessionTable = "session"
)

// DBTracer stores the trace into a database through a DataRecorder.
type DBTracer struct {
	mu      sync.Mutex
	backend datarecording.DataRecorder

	startTime, endTime float64

	err error
}

// NewDBTracer creates the trace tables in the backend.
func NewDBTracer(backend datarecording.DataRecorder) (*DBTracer, error) {
	if err := backend.CreateTable(OutcomeTable, Outcome{}); err != nil {
		return nil, err
	}

	if err := backend.CreateTable(SessionTable, Session{}); err != nil {
		return nil, err
	}

	return &DBTracer{backend: backend}, nil
}

// SetTimeRange limits the trace to records between start and end. A zero
// bound does not limit.
func (t *DBTracer) SetTimeRange(start, end float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.startTime = start
	t.endTime = end
}

func (t *DBTracer) inRange(time float64) bool {
	if t.startTime > 0 && time < t.startTime {
		return false
	}

	if t.endTime > 0 && time > t.endTime {
		return false
	}

	return true
}

// ResolveSlot records a slot outcome.
func (t *DBTracer) ResolveSlot(o Outcome) {
	t.insert(o.Time, OutcomeTable, o)
}

// EndSession records a completed session.
func (t *DBTracer) EndSession(s Session) {
	t.insert(s.End, SessionTable, s)
}

func (t *DBTracer) insert(time float64, table string, entry any) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.err != nil || !t.inRange(time) {
		return
	}

	t.err = t.backend.InsertData(table, entry)
}

// Err returns the first error the backend reported. Nothing is recorded
// after an error.
func (t *DBTracer) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.err
}

// Close flushes and closes the backend.
func (t *DBTracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.backend.Close(); err != nil {
		return err
	}

	return t.err
}
