package sim

// VTimeInSec defines the time in the simulated space in the unit of second
type VTimeInSec float64

// An Event is something going to happen in the future.
type Event interface {
	// Return the time that the event should happen
	Time() VTimeInSec

	// Returns the handler that can should handle the event
	Handler() Handler
}

// A SecondaryEvent can ask to run after every primary event of the same time,
// including the ones scheduled while that time is being processed.
type SecondaryEvent interface {
	Event
	IsSecondary() bool
}

// IsSecondary tells whether the event runs after the primary events of its
// time.
func IsSecondary(e Event) bool {
	s, ok := e.(SecondaryEvent)
	return ok && s.IsSecondary()
}

// EventBase provides the basic fields and getters for other events
type EventBase struct {
	ID      string
	time    VTimeInSec
	handler Handler
}

// NewEventBase creates a new EventBase
func NewEventBase(t VTimeInSec, handler Handler) *EventBase {
	e := new(EventBase)
	e.ID = GetIDGenerator().Generate()
	e.time = t
	e.handler = handler

	return e
}

// Time return the time that the event is going to happen
func (e EventBase) Time() VTimeInSec {
	return e.time
}

// Handler returns the handler to handle the event.
func (e EventBase) Handler() Handler {
	return e.handler
}

// A Handler defines a domain for the events.
//
// One event is always constraint to one Handler. A Handler that returns an
// error aborts the simulation.
type Handler interface {
	Handle(e Event) error
}
