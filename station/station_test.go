package station

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/pcsma/medium"
	"github.com/sarchlab/pcsma/sim"
	"github.com/sarchlab/pcsma/slot"
	"github.com/sarchlab/pcsma/traffic"
)

type collisionCounter struct {
	n int
}

func (c *collisionCounter) RecordCollision() {
	c.n++
}

type stationLog struct {
	sessions []Session
	backoffs []Backoff
}

func (l *stationLog) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case HookPosSessionDone:
		l.sessions = append(l.sessions, ctx.Item.(Session))
	case HookPosBackoff:
		l.backoffs = append(l.backoffs, ctx.Item.(Backoff))
	}
}

func filledQueue(n int) *traffic.Queue {
	q := traffic.NewQueue()
	for i := 0; i < n; i++ {
		q.Push(traffic.Packet{})
	}

	return q
}

var _ = Describe("Station", func() {
	var (
		mockCtrl   *gomock.Controller
		engine     *sim.SerialEngine
		ctx        *medium.Context
		clock      *slot.Clock
		channel    *medium.Channel
		collisions *collisionCounter
		rngs       *sim.PartitionedRNG
		builder    Builder
		log        *stationLog
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = sim.NewSerialEngine()
		ctx = medium.NewContext("Medium", engine)
		clock = slot.MakeBuilder().
			WithEngine(engine).
			WithPrecondition(ctx).
			Build("Clock")
		collisions = &collisionCounter{}
		channel = medium.MakeBuilder().
			WithEngine(engine).
			WithContext(ctx).
			WithSlotSignal(clock.Signal(), clock).
			WithCollisionRecorder(collisions).
			Build("Channel")
		rngs = sim.NewPartitionedRNG(7)
		builder = MakeBuilder().
			WithEngine(engine).
			WithContext(ctx).
			WithSlotSignal(clock.Signal()).
			WithMaxBackoff(0)
		log = &stationLog{}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	build := func(id int, queue *traffic.Queue) *Station {
		s := builder.
			WithRand(rngs.ForSubsystem(sim.SubsystemStation(id))).
			Build(sim.BuildNameWithIndex("Medium", "Station", id), id, queue)
		s.AcceptHook(log)

		return s
	}

	It("should send a whole session once it wins the channel", func() {
		recorder := NewMockRecorder(mockCtrl)
		recorder.EXPECT().RecordDelivered(0).Times(10)
		recorder.EXPECT().RecordSuccess(0).Times(1)
		builder = builder.WithRecorder(recorder)

		s := build(0, filledQueue(10))
		clock.Start()
		s.Start()
		channel.Start()

		Expect(engine.RunUntil(11.5)).To(Succeed())

		Expect(s.Queue().Len()).To(Equal(0))
		Expect(s.State()).To(Equal(Idle))
		Expect(s.SessionSlots()).To(Equal(0))
		Expect(ctx.Busy).To(BeFalse())
		Expect(ctx.Holder).To(Equal(medium.NoHolder))
		Expect(collisions.n).To(Equal(0))

		Expect(log.sessions).To(HaveLen(1))
		Expect(log.sessions[0].Packets).To(Equal(10))
		Expect(float64(log.sessions[0].Start)).To(BeNumerically("~", 2.9, 1e-9))
		Expect(log.sessions[0].End).To(Equal(sim.VTimeInSec(11)))
		Expect(log.backoffs).To(Equal([]Backoff{
			{Station: 0, Stage: 1, Slots: 0, Time: 1},
		}))
	})

	It("should keep the channel when the queue runs dry", func() {
		s := build(0, filledQueue(3))
		clock.Start()
		s.Start()
		channel.Start()

		Expect(engine.RunUntil(20)).To(Succeed())

		Expect(s.State()).To(Equal(Transmitting))
		Expect(s.SessionSlots()).To(Equal(3))
		Expect(ctx.Busy).To(BeTrue())
		Expect(ctx.Holder).To(Equal(0))
		Expect(log.sessions).To(BeEmpty())
	})

	It("should stay idle while another station transmits", func() {
		a := build(0, filledQueue(10))
		clock.Start()
		a.Start()
		channel.Start()
		Expect(engine.RunUntil(3.5)).To(Succeed())
		Expect(ctx.Holder).To(Equal(0))

		b := build(1, filledQueue(5))
		b.Start()
		Expect(engine.RunUntil(10.5)).To(Succeed())

		Expect(b.State()).To(Equal(Idle))
		Expect(b.Queue().Len()).To(Equal(5))
		Expect(a.State()).To(Equal(Transmitting))
	})

	It("should collide in every round without a back-off window", func() {
		a := build(0, filledQueue(100))
		b := build(1, filledQueue(100))
		clock.Start()
		a.Start()
		b.Start()
		channel.Start()

		Expect(engine.RunUntil(20.5)).To(Succeed())

		// Decide in odd slots, attempt in even slots.
		Expect(collisions.n).To(Equal(9))
		Expect(a.Queue().Len()).To(Equal(100))
		Expect(ctx.Busy).To(BeFalse())
		for _, bo := range log.backoffs {
			Expect(bo.Slots).To(Equal(0))
		}
	})

	It("should retry right after the collision back-off when persistent", func() {
		builder = builder.WithPersistAfterCollision(true)
		a := build(0, filledQueue(100))
		b := build(1, filledQueue(100))
		clock.Start()
		a.Start()
		b.Start()
		channel.Start()

		Expect(engine.RunUntil(20.5)).To(Succeed())

		Expect(collisions.n).To(Equal(18))
		Expect(a.State()).To(Equal(Contending))
		Expect(b.State()).To(Equal(Contending))
	})

	Describe("slot cadence", func() {
		withGuard := func(guard sim.VTimeInSec) {
			channel = medium.MakeBuilder().
				WithEngine(engine).
				WithContext(ctx).
				WithSlotSignal(clock.Signal(), clock).
				WithGuardInterval(guard).
				WithCollisionRecorder(collisions).
				Build("Channel")
		}

		DescribeTable("a session ends in the same slot",
			func(guard sim.VTimeInSec) {
				withGuard(guard)
				s := build(0, filledQueue(10))
				clock.Start()
				s.Start()
				channel.Start()

				Expect(engine.RunUntil(11.5)).To(Succeed())

				Expect(log.sessions).To(HaveLen(1))
				Expect(float64(log.sessions[0].Start)).
					To(BeNumerically("~", float64(3-guard), 1e-9))
				Expect(log.sessions[0].End).To(Equal(sim.VTimeInSec(11)))
				Expect(log.sessions[0].Packets).To(Equal(10))
			},
			Entry("with a guard interval", sim.VTimeInSec(0.1)),
			Entry("without a guard interval", sim.VTimeInSec(0)),
		)

		DescribeTable("colliding stations react in the next slot",
			func(guard sim.VTimeInSec, persist bool, want int) {
				builder = builder.WithPersistAfterCollision(persist)
				withGuard(guard)
				a := build(0, filledQueue(100))
				b := build(1, filledQueue(100))
				clock.Start()
				a.Start()
				b.Start()
				channel.Start()

				Expect(engine.RunUntil(20.5)).To(Succeed())

				Expect(collisions.n).To(Equal(want))
			},
			Entry("sensing again, guard 0.1", sim.VTimeInSec(0.1), false, 9),
			Entry("sensing again, no guard", sim.VTimeInSec(0), false, 9),
			Entry("persistent, guard 0.1", sim.VTimeInSec(0.1), true, 18),
			Entry("persistent, no guard", sim.VTimeInSec(0), true, 18),
		)
	})

	It("should draw back-offs within the window", func() {
		builder = builder.WithMaxBackoff(15)
		stations := []*Station{}
		for i := 0; i < 4; i++ {
			stations = append(stations, build(i, filledQueue(1000)))
		}
		clock.Start()
		for _, s := range stations {
			s.Start()
		}
		channel.Start()

		Expect(engine.RunUntil(2000)).To(Succeed())

		Expect(log.backoffs).NotTo(BeEmpty())
		seen := map[int]bool{}
		for _, bo := range log.backoffs {
			Expect(bo.Slots).To(BeNumerically(">=", 0))
			Expect(bo.Slots).To(BeNumerically("<=", 15))
			seen[bo.Stage] = true
		}
		Expect(seen).To(HaveKey(1))
		Expect(seen).To(HaveKey(2))
		Expect(log.sessions).NotTo(BeEmpty())
	})

	It("should reject timeouts it did not schedule", func() {
		s := build(0, filledQueue(1))

		err := s.Handle(sim.NewTimeoutEvent(1, s, 1.5))

		Expect(err).To(MatchError(ContainSubstring("payload float64")))
		Expect(s.State()).To(Equal(Idle))
	})

	It("should fail when a session has no packet to send", func() {
		s := build(0, filledQueue(1))
		clock.Start()
		s.Start()
		channel.Start()
		Expect(engine.RunUntil(2.5)).To(Succeed())

		Expect(s.State()).To(Equal(Contending))
		_, err := s.Queue().Pop()
		Expect(err).NotTo(HaveOccurred())

		err = engine.RunUntil(3)

		var violation *sim.InvariantViolation
		Expect(errors.As(err, &violation)).To(BeTrue())
	})
})
