package medium

import "github.com/sarchlab/pcsma/sim"

// Builder can build channels.
type Builder struct {
	engine       sim.Engine
	ctx          *Context
	slotSignal   *sim.Broadcast
	slots        SlotTeller
	slotDuration sim.VTimeInSec
	guard        sim.VTimeInSec
	recorder     CollisionRecorder
}

// MakeBuilder returns a Builder with a one-second slot and a 0.1 second
// guard interval.
func MakeBuilder() Builder {
	return Builder{
		slotDuration: 1,
		guard:        0.1,
	}
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithContext sets the shared medium state.
func (b Builder) WithContext(ctx *Context) Builder {
	b.ctx = ctx
	return b
}

// WithSlotSignal sets the signal that marks slot boundaries and the object
// that numbers the slots.
func (b Builder) WithSlotSignal(signal *sim.Broadcast, slots SlotTeller) Builder {
	b.slotSignal = signal
	b.slots = slots

	return b
}

// WithSlotDuration sets the slot duration.
func (b Builder) WithSlotDuration(d sim.VTimeInSec) Builder {
	b.slotDuration = d
	return b
}

// WithGuardInterval sets how long before the next slot boundary the
// feedback is sent.
func (b Builder) WithGuardInterval(d sim.VTimeInSec) Builder {
	b.guard = d
	return b
}

// WithCollisionRecorder sets where collisions are counted.
func (b Builder) WithCollisionRecorder(r CollisionRecorder) Builder {
	b.recorder = r
	return b
}

// Build creates a Channel with the given name.
func (b Builder) Build(name string) *Channel {
	if b.engine == nil || b.ctx == nil || b.slotSignal == nil || b.slots == nil {
		panic("channel requires an engine, a context and a slot signal")
	}

	if b.slotDuration <= 0 {
		panic("slot duration must be positive")
	}

	if b.guard < 0 || b.guard >= b.slotDuration {
		panic("guard interval must be in [0, slot duration)")
	}

	c := &Channel{
		engine:     b.engine,
		ctx:        b.ctx,
		slotSignal: b.slotSignal,
		slots:      b.slots,
		recorder:   b.recorder,
		listen:     b.slotDuration - b.guard,
	}
	c.ComponentBase = sim.NewComponentBase(name)

	return c
}
