package sim

// SignalEvent is delivered to every waiter of a Broadcast when it triggers.
type SignalEvent struct {
	*EventBase
	Signal     *Broadcast
	Generation uint64
	Payload    interface{}
}

// A Broadcast is a signal that wakes all its current waiters when triggered.
//
// Every trigger consumes the waiter list: handlers that want the next
// occurrence must call Wait again. Waiters are woken in the order they
// started waiting, each by its own SignalEvent scheduled at the trigger time.
type Broadcast struct {
	name       string
	clock      Clock
	waiters    []Handler
	generation uint64
}

// NewBroadcast creates a Broadcast that schedules its deliveries on the clock.
func NewBroadcast(name string, clock Clock) *Broadcast {
	return &Broadcast{
		name:  name,
		clock: clock,
	}
}

// Name returns the name of the signal.
func (b *Broadcast) Name() string {
	return b.name
}

// Generation returns how many times the signal has been triggered.
func (b *Broadcast) Generation() uint64 {
	return b.generation
}

// NumWaiters returns the number of handlers waiting for the next trigger.
func (b *Broadcast) NumWaiters() int {
	return len(b.waiters)
}

// Wait registers the handler for the next trigger.
func (b *Broadcast) Wait(h Handler) {
	b.waiters = append(b.waiters, h)
}

// Cancel removes the handler from the waiter list. It returns false if the
// handler was not waiting.
func (b *Broadcast) Cancel(h Handler) bool {
	for i, w := range b.waiters {
		if w == h {
			b.waiters = append(b.waiters[:i], b.waiters[i+1:]...)
			return true
		}
	}

	return false
}

// Trigger wakes all the current waiters with the payload and arms a fresh
// instance of the signal. It returns the number of waiters woken.
func (b *Broadcast) Trigger(payload interface{}) int {
	waiters := b.waiters
	b.waiters = nil
	b.generation++

	now := b.clock.CurrentTime()
	for _, w := range waiters {
		b.clock.Schedule(&SignalEvent{
			EventBase:  NewEventBase(now, w),
			Signal:     b,
			Generation: b.generation,
			Payload:    payload,
		})
	}

	return len(waiters)
}
