package sim

// TimeoutEvent delivers a payload back to the handler that asked for it once
// a delay has elapsed.
type TimeoutEvent struct {
	*EventBase
	Payload interface{}

	// Secondary timeouts run after the primary events of the same time.
	Secondary bool
}

// IsSecondary reports whether the timeout is a secondary event.
func (e *TimeoutEvent) IsSecondary() bool {
	return e.Secondary
}

// NewTimeoutEvent creates a TimeoutEvent that fires at time t.
func NewTimeoutEvent(
	t VTimeInSec,
	handler Handler,
	payload interface{},
) *TimeoutEvent {
	return &TimeoutEvent{
		EventBase: NewEventBase(t, handler),
		Payload:   payload,
	}
}

// Clock is what a component needs to suspend itself for a while.
type Clock interface {
	TimeTeller
	EventScheduler
}

// ScheduleTimeout suspends the handler for duration d. The handler receives a
// TimeoutEvent carrying the payload when d elapses.
func ScheduleTimeout(
	clock Clock,
	handler Handler,
	d VTimeInSec,
	payload interface{},
) *TimeoutEvent {
	if d < 0 {
		panic("timeout duration must not be negative")
	}

	evt := NewTimeoutEvent(clock.CurrentTime()+d, handler, payload)
	clock.Schedule(evt)

	return evt
}
