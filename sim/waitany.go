package sim

import "fmt"

// SelectedEvent tells a handler which of the signals it waited on fired
// first.
type SelectedEvent struct {
	*EventBase
	Index   int
	Signal  *Broadcast
	Payload interface{}
}

// A Selector waits on several signals at once and forwards only the first
// one that fires. It is used once and then discarded.
type Selector struct {
	target  Handler
	signals []*Broadcast
	done    bool
}

// WaitAny suspends the target until the first of the signals triggers. The
// target then receives a SelectedEvent whose Index is the position of that
// signal in the argument list.
func WaitAny(target Handler, signals ...*Broadcast) *Selector {
	if len(signals) == 0 {
		panic("WaitAny needs at least one signal")
	}

	s := &Selector{target: target, signals: signals}
	for _, sig := range signals {
		sig.Wait(s)
	}

	return s
}

// Done returns true once one of the signals has been delivered.
func (s *Selector) Done() bool {
	return s.done
}

// Handle forwards the first signal to the target and drops the rest.
func (s *Selector) Handle(e Event) error {
	sigEvt, ok := e.(*SignalEvent)
	if !ok {
		return fmt.Errorf("selector cannot handle %T", e)
	}

	if s.done {
		return nil
	}

	s.done = true

	index := -1
	for i, sig := range s.signals {
		if sig == sigEvt.Signal {
			index = i
			continue
		}

		sig.Cancel(s)
	}

	return s.target.Handle(&SelectedEvent{
		EventBase: NewEventBase(sigEvt.Time(), s.target),
		Index:     index,
		Signal:    sigEvt.Signal,
		Payload:   sigEvt.Payload,
	})
}
