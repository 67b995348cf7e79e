package tracing

import (
	"github.com/sarchlab/pcsma/medium"
	"github.com/sarchlab/pcsma/sim"
	"github.com/sarchlab/pcsma/station"
)

// CollectTrace lets the tracer collect the trace of a domain, which is either
// the channel or a station. Attaching the same tracer twice panics.
func CollectTrace(domain NamedHookable, tracer Tracer) {
	domain.AcceptHook(traceHook{t: tracer})
}

// A traceHook converts hook invocations into tracer calls. It is a value so
// that two hooks of the same tracer compare equal.
type traceHook struct {
	t Tracer
}

// Func calls the tracer interfaces when the hook is triggered
func (h traceHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case medium.HookPosSlotResolved:
		h.t.ResolveSlot(outcomeFromMedium(ctx.Item.(medium.SlotOutcome)))
	case station.HookPosSessionDone:
		s := ctx.Item.(station.Session)
		h.t.EndSession(Session{
			Station: s.Station,
			Start:   float64(s.Start),
			End:     float64(s.End),
			Packets: s.Packets,
		})
	}
}
