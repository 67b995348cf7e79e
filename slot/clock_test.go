package slot

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/pcsma/sim"
)

type slotObserver struct {
	signal *sim.Broadcast
	times  []sim.VTimeInSec
}

func (o *slotObserver) Handle(e sim.Event) error {
	o.times = append(o.times, e.Time())
	o.signal.Wait(o)

	return nil
}

// lateWaiter arms a one-unit timer at time 0 and only starts waiting for the
// slot signal when the timer expires, exactly at the first boundary.
type lateWaiter struct {
	engine *sim.SerialEngine
	signal *sim.Broadcast
	obs    *slotObserver
	armed  bool
}

func (w *lateWaiter) Handle(e sim.Event) error {
	if !w.armed {
		w.armed = true
		sim.ScheduleTimeout(w.engine, w, 1, nil)

		return nil
	}

	w.signal.Wait(w.obs)

	return nil
}

// chainWaiter starts at a boundary and passes through a few zero-delay
// timers before it waits for the slot signal.
type chainWaiter struct {
	engine *sim.SerialEngine
	signal *sim.Broadcast
	obs    *slotObserver
	hops   int
}

func (w *chainWaiter) Handle(e sim.Event) error {
	if w.hops > 0 {
		w.hops--
		sim.ScheduleTimeout(w.engine, w, 0, nil)

		return nil
	}

	w.signal.Wait(w.obs)

	return nil
}

type failingPrecondition struct {
	failAt uint64
}

func (p *failingPrecondition) CheckSlotStart(
	slot uint64,
	now sim.VTimeInSec,
) error {
	if slot == p.failAt {
		return sim.NewInvariantViolation("test", now, "slot %d", slot)
	}

	return nil
}

var _ = Describe("Clock", func() {
	var engine *sim.SerialEngine

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
	})

	It("should fire at exact multiples of the slot duration", func() {
		clock := MakeBuilder().
			WithEngine(engine).
			WithDuration(0.1).
			Build("Clock")
		obs := &slotObserver{signal: clock.Signal()}
		clock.Signal().Wait(obs)
		clock.Start()

		Expect(engine.RunUntil(100.05)).To(Succeed())

		Expect(obs.times).To(HaveLen(1000))
		for i, t := range obs.times {
			Expect(t).To(Equal(sim.VTimeInSec(i+1) * 0.1))
		}
		Expect(clock.CurrentSlot()).To(Equal(uint64(1000)))
	})

	It("should not fire before the first slot duration", func() {
		clock := MakeBuilder().WithEngine(engine).Build("Clock")
		obs := &slotObserver{signal: clock.Signal()}
		clock.Signal().Wait(obs)
		clock.Start()

		Expect(engine.RunUntil(1)).To(Succeed())
		Expect(obs.times).To(BeEmpty())
		Expect(clock.Signal().NumWaiters()).To(Equal(1))
	})

	It("should abort when the precondition fails", func() {
		clock := MakeBuilder().
			WithEngine(engine).
			WithPrecondition(&failingPrecondition{failAt: 3}).
			Build("Clock")
		clock.Start()

		err := engine.RunUntil(10)

		var violation *sim.InvariantViolation
		Expect(errors.As(err, &violation)).To(BeTrue())
		Expect(engine.CurrentTime()).To(Equal(sim.VTimeInSec(3)))
	})

	It("should open a slot after timers due at the boundary", func() {
		clock := MakeBuilder().WithEngine(engine).Build("Clock")
		obs := &slotObserver{signal: clock.Signal()}
		late := &lateWaiter{
			engine: engine,
			signal: clock.Signal(),
			obs:    obs,
		}
		clock.Start()
		engine.Schedule(sim.NewTimeoutEvent(0, late, nil))

		Expect(engine.RunUntil(2.5)).To(Succeed())
		Expect(obs.times).To(Equal([]sim.VTimeInSec{1, 2}))
	})

	It("should open a slot after events scheduled at the boundary", func() {
		clock := MakeBuilder().WithEngine(engine).Build("Clock")
		obs := &slotObserver{signal: clock.Signal()}
		chain := &chainWaiter{
			engine: engine,
			signal: clock.Signal(),
			obs:    obs,
			hops:   3,
		}
		clock.Start()
		engine.Schedule(sim.NewTimeoutEvent(1, chain, nil))

		Expect(engine.RunUntil(2.5)).To(Succeed())
		Expect(chain.hops).To(Equal(0))
		Expect(obs.times).To(Equal([]sim.VTimeInSec{1, 2}))
	})

	It("should reject a non-positive duration", func() {
		Expect(func() {
			MakeBuilder().WithEngine(engine).WithDuration(0).Build("Clock")
		}).To(Panic())
	})
})
