package medium

import (
	"fmt"

	"github.com/sarchlab/pcsma/sim"
)

// HookPosSlotResolved marks the resolution of a slot. The hook item is a
// SlotOutcome.
var HookPosSlotResolved = &sim.HookPos{Name: "SlotResolved"}

// SlotOutcome describes how a slot was resolved.
type SlotOutcome struct {
	Slot       uint64
	Time       sim.VTimeInSec
	Feedback   Feedback
	Contenders int
	Holder     int
}

// A CollisionRecorder counts the slots that resolved to Nack.
type CollisionRecorder interface {
	RecordCollision()
}

// SlotTeller tells which slot is running.
type SlotTeller interface {
	CurrentSlot() uint64
}

type resolveSlot struct {
	slot uint64
}

// Channel is the receiver side of the medium. Every slot it waits until
// shortly before the next boundary, counts the attempts and answers.
type Channel struct {
	*sim.ComponentBase

	engine     sim.Engine
	ctx        *Context
	slotSignal *sim.Broadcast
	slots      SlotTeller
	recorder   CollisionRecorder

	listen sim.VTimeInSec

	resolved    bool
	lastSlot    uint64
	numResolved uint64
}

// Context returns the shared medium state.
func (c *Channel) Context() *Context {
	return c.ctx
}

// NumResolved returns the number of slots resolved so far.
func (c *Channel) NumResolved() uint64 {
	return c.numResolved
}

// Start makes the channel listen to the next slot.
func (c *Channel) Start() {
	c.slotSignal.Wait(c)
}

// Handle reacts to slot boundaries and to the end of the listening window.
func (c *Channel) Handle(e sim.Event) error {
	switch evt := e.(type) {
	case *sim.SignalEvent:
		sim.ScheduleTimeout(c.engine, c, c.listen,
			resolveSlot{slot: c.slots.CurrentSlot()})
		return nil
	case *sim.TimeoutEvent:
		r, ok := evt.Payload.(resolveSlot)
		if !ok {
			return fmt.Errorf("channel cannot handle payload %T", evt.Payload)
		}

		return c.resolve(evt.Time(), r.slot)
	default:
		return fmt.Errorf("channel cannot handle %T", e)
	}
}

func (c *Channel) resolve(now sim.VTimeInSec, slot uint64) error {
	if c.resolved && c.lastSlot == slot {
		return sim.NewInvariantViolation(c.Name(), now,
			"slot %d resolved twice", slot)
	}

	feedback, contenders, err := c.ctx.resolve(now)
	if err != nil {
		return err
	}

	c.resolved = true
	c.lastSlot = slot
	c.numResolved++

	if feedback == Nack && c.recorder != nil {
		c.recorder.RecordCollision()
	}

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    HookPosSlotResolved,
		Item: SlotOutcome{
			Slot:       slot,
			Time:       now,
			Feedback:   feedback,
			Contenders: contenders,
			Holder:     c.ctx.Holder,
		},
	})

	c.ctx.Signal(feedback).Trigger(feedback)
	c.slotSignal.Wait(c)

	return nil
}
