// Package slot provides the slot clock that quantizes the shared medium into
// fixed-length slots.
package slot

import (
	"fmt"

	"github.com/sarchlab/pcsma/sim"
)

// A Precondition is checked at the start of every slot, before any waiter is
// woken.
type Precondition interface {
	CheckSlotStart(slot uint64, now sim.VTimeInSec) error
}

// A slot opens in a secondary event, so everything else due at the boundary
// runs first: the resolution of the previous slot, the delivery of its
// feedback and the timers that expire then.
type open struct {
	slot uint64
}

// Clock fires the slot signal at every multiple of the slot duration.
type Clock struct {
	*sim.ComponentBase

	engine       sim.Engine
	duration     sim.VTimeInSec
	signal       *sim.Broadcast
	precondition Precondition

	slot uint64
}

// Signal returns the broadcast that fires at every slot boundary.
func (c *Clock) Signal() *sim.Broadcast {
	return c.signal
}

// Duration returns the slot duration.
func (c *Clock) Duration() sim.VTimeInSec {
	return c.duration
}

// CurrentSlot returns the index of the last slot that has started. Slot 1
// starts at one slot duration.
func (c *Clock) CurrentSlot() uint64 {
	return c.slot
}

// SlotTime returns the time at which slot n starts.
func (c *Clock) SlotTime(n uint64) sim.VTimeInSec {
	return sim.VTimeInSec(n) * c.duration
}

// Start schedules the first slot boundary.
func (c *Clock) Start() {
	c.scheduleOpen(c.slot + 1)
}

// Handle opens the slots.
func (c *Clock) Handle(e sim.Event) error {
	evt, ok := e.(*sim.TimeoutEvent)
	if !ok {
		return fmt.Errorf("slot clock cannot handle %T", e)
	}

	p, ok := evt.Payload.(open)
	if !ok {
		return fmt.Errorf("slot clock cannot handle payload %T", evt.Payload)
	}

	return c.openSlot(p.slot, evt.Time())
}

func (c *Clock) scheduleOpen(slot uint64) {
	evt := sim.NewTimeoutEvent(c.SlotTime(slot), c, open{slot: slot})
	evt.Secondary = true
	c.engine.Schedule(evt)
}

func (c *Clock) openSlot(slot uint64, now sim.VTimeInSec) error {
	c.slot = slot

	if c.precondition != nil {
		err := c.precondition.CheckSlotStart(c.slot, now)
		if err != nil {
			return err
		}
	}

	c.signal.Trigger(nil)

	c.scheduleOpen(slot + 1)

	return nil
}
