package traffic

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/pcsma/sim"
)

type countingRecorder struct {
	perStation map[int]int
}

func (r *countingRecorder) RecordOffered(station int) {
	r.perStation[station]++
}

var _ = Describe("Source", func() {
	var (
		engine   *sim.SerialEngine
		recorder *countingRecorder
		queue    *Queue
		builder  Builder
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		recorder = &countingRecorder{perStation: make(map[int]int)}
		queue = NewQueue()
		builder = MakeBuilder().
			WithEngine(engine).
			WithRand(sim.NewPartitionedRNG(1).ForSubsystem(sim.SubsystemTraffic(2))).
			WithLoadRecorder(recorder)
	})

	It("should emit bursts of onDuration packets one interval apart", func() {
		src := builder.
			WithOnDuration(4).
			WithMeanIdleTime(50).
			Build("Traffic", 2, queue)
		src.Start()

		Expect(engine.RunUntil(5000)).To(Succeed())

		Expect(queue.Len()).To(BeNumerically(">", 0))
		Expect(queue.Len() % 4).To(Equal(0))
		Expect(recorder.perStation[2]).To(Equal(queue.Len()))
		Expect(src.Generated()).To(Equal(uint64(queue.Len())))

		for queue.Len() > 0 {
			burst := make([]Packet, 4)
			for i := range burst {
				burst[i], _ = queue.Pop()
			}

			for i := 1; i < 4; i++ {
				Expect(burst[i].ArrivalTime - burst[i-1].ArrivalTime).
					To(BeNumerically("~", 1, 1e-9))
			}

			if queue.Len() > 0 {
				next, _ := queue.Peek()
				Expect(next.ArrivalTime).To(BeNumerically(">", burst[3].ArrivalTime))
			}
		}
	})

	It("should start with an idle period", func() {
		src := builder.WithMeanIdleTime(1e9).Build("Traffic", 0, queue)
		src.Start()

		Expect(engine.RunUntil(100)).To(Succeed())
		Expect(src.Phase()).To(Equal(PhaseStartup))
		Expect(queue.Len()).To(Equal(0))
	})

	It("should be reproducible with the same seed", func() {
		run := func() []sim.VTimeInSec {
			e := sim.NewSerialEngine()
			q := NewQueue()
			MakeBuilder().
				WithEngine(e).
				WithRand(sim.NewPartitionedRNG(9).ForSubsystem("t")).
				WithMeanIdleTime(20).
				Build("Traffic", 0, q).
				Start()
			Expect(e.RunUntil(1000)).To(Succeed())

			times := []sim.VTimeInSec{}
			for q.Len() > 0 {
				p, _ := q.Pop()
				times = append(times, p.ArrivalTime)
			}

			return times
		}

		Expect(run()).To(Equal(run()))
	})

	It("should reject timeouts it did not schedule", func() {
		s := builder.Build("Traffic", 0, queue)

		err := s.Handle(sim.NewTimeoutEvent(1, s, "arrival"))
		Expect(err).To(MatchError(ContainSubstring("payload string")))

		err = s.Handle(sim.NewTimeoutEvent(1, s, wakeup(99)))
		Expect(err).To(MatchError(ContainSubstring("wakeup 99")))
		Expect(queue.Len()).To(Equal(0))
	})

	It("should reject invalid parameters", func() {
		Expect(func() {
			builder.WithOnDuration(0).Build("Traffic", 0, queue)
		}).To(Panic())
	})
})
