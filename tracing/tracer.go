// Package tracing collects the slot outcomes and the transmission sessions
// of a run, for logs, for a database or for tests.
package tracing

import (
	"github.com/sarchlab/pcsma/medium"
	"github.com/sarchlab/pcsma/sim"
)

// Outcome is the trace record of a resolved slot.
type Outcome struct {
	Slot       uint64
	Time       float64
	Feedback   string
	Contenders int
	Holder     int
}

// Session is the trace record of a completed transmission session.
type Session struct {
	Station int
	Start   float64
	End     float64
	Packets int
}

// A Tracer is told about every resolved slot and every completed session of
// the domains it traces.
type Tracer interface {
	ResolveSlot(o Outcome)
	EndSession(s Session)
}

func outcomeFromMedium(o medium.SlotOutcome) Outcome {
	return Outcome{
		Slot:       o.Slot,
		Time:       float64(o.Time),
		Feedback:   o.Feedback.String(),
		Contenders: o.Contenders,
		Holder:     o.Holder,
	}
}

// A NamedHookable has a name and accepts hooks.
type NamedHookable interface {
	sim.Named
	sim.Hookable
}
