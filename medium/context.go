package medium

import (
	"fmt"

	"github.com/sarchlab/pcsma/sim"
)

// NoHolder is the Holder value of a channel that nobody transmits on.
const NoHolder = -1

// Context is the state shared by the channel and all the stations.
//
// It is only touched from event handlers, which run one at a time.
type Context struct {
	// Contention counts the stations that attempted in the current slot.
	Contention int

	// Busy is set when a station won the channel and cleared when its
	// session ends.
	Busy bool

	// Holder is the station that owns the channel while Busy is set.
	Holder int

	lastContender int
	signals       [numFeedbacks]*sim.Broadcast
}

// NewContext creates an idle medium whose feedback signals are scheduled on
// the clock.
func NewContext(name string, clock sim.Clock) *Context {
	c := &Context{
		Holder:        NoHolder,
		lastContender: NoHolder,
	}

	for f := NoReply; f < numFeedbacks; f++ {
		c.signals[f] = sim.NewBroadcast(name+"."+f.String(), clock)
	}

	return c
}

// Attempt registers an access attempt by the station in the current slot.
func (c *Context) Attempt(station int) {
	c.Contention++
	c.lastContender = station
}

// Signal returns the broadcast that carries the given feedback.
func (c *Context) Signal(f Feedback) *sim.Broadcast {
	return c.signals[f]
}

// Signals returns the NoReply, Ack and Nack broadcasts, in that order.
func (c *Context) Signals() []*sim.Broadcast {
	return c.signals[:]
}

// CheckSlotStart makes sure no attempt leaks from one slot into the next.
func (c *Context) CheckSlotStart(slot uint64, now sim.VTimeInSec) error {
	if c.Contention != 0 {
		return sim.NewInvariantViolation("medium", now,
			"contention is %d at the start of slot %d", c.Contention, slot)
	}

	return nil
}

// Release frees the channel held by the station.
func (c *Context) Release(station int, now sim.VTimeInSec) error {
	if !c.Busy || c.Holder != station {
		return sim.NewInvariantViolation("medium", now,
			"station %d releases a channel held by %d (busy=%v)",
			station, c.Holder, c.Busy)
	}

	c.Busy = false
	c.Holder = NoHolder

	return nil
}

// resolve consumes the contention of the slot and returns its feedback.
func (c *Context) resolve(now sim.VTimeInSec) (Feedback, int, error) {
	contenders := c.Contention
	c.Contention = 0

	switch {
	case contenders == 0:
		return NoReply, contenders, nil
	case contenders == 1:
		if c.Busy {
			return Ack, contenders, sim.NewInvariantViolation("medium", now,
				"station %d acknowledged while %d holds the channel",
				c.lastContender, c.Holder)
		}

		c.Busy = true
		c.Holder = c.lastContender

		return Ack, contenders, nil
	default:
		return Nack, contenders, nil
	}
}

func (c *Context) String() string {
	return fmt.Sprintf("contention=%d busy=%v holder=%d",
		c.Contention, c.Busy, c.Holder)
}
