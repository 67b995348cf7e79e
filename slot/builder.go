package slot

import "github.com/sarchlab/pcsma/sim"

// Builder can build slot clocks.
type Builder struct {
	engine       sim.Engine
	duration     sim.VTimeInSec
	precondition Precondition
}

// MakeBuilder returns a Builder with a one-second slot.
func MakeBuilder() Builder {
	return Builder{
		duration: 1,
	}
}

// WithEngine sets the engine that drives the clock.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithDuration sets the slot duration.
func (b Builder) WithDuration(d sim.VTimeInSec) Builder {
	b.duration = d
	return b
}

// WithPrecondition sets a check that runs at the start of every slot.
func (b Builder) WithPrecondition(p Precondition) Builder {
	b.precondition = p
	return b
}

// Build creates a Clock with the given name.
func (b Builder) Build(name string) *Clock {
	if b.engine == nil {
		panic("slot clock requires an engine")
	}

	if b.duration <= 0 {
		panic("slot duration must be positive")
	}

	c := &Clock{
		engine:       b.engine,
		duration:     b.duration,
		precondition: b.precondition,
	}
	c.ComponentBase = sim.NewComponentBase(name)
	c.signal = sim.NewBroadcast(name+".Signal", b.engine)

	return c
}
