package station

import (
	"math/rand"

	"github.com/sarchlab/pcsma/medium"
	"github.com/sarchlab/pcsma/sim"
	"github.com/sarchlab/pcsma/traffic"
)

// Builder can build stations.
type Builder struct {
	engine                sim.Engine
	ctx                   *medium.Context
	slotSignal            *sim.Broadcast
	slotDuration          sim.VTimeInSec
	rng                   *rand.Rand
	recorder              Recorder
	persistence           float64
	sessionLength         int
	maxBackoff            int
	persistAfterCollision bool
}

// MakeBuilder returns a Builder with the default protocol parameters.
func MakeBuilder() Builder {
	return Builder{
		slotDuration:  1,
		persistence:   1,
		sessionLength: 10,
		maxBackoff:    15,
	}
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithContext sets the shared medium state.
func (b Builder) WithContext(ctx *medium.Context) Builder {
	b.ctx = ctx
	return b
}

// WithSlotSignal sets the signal that marks the slot boundaries.
func (b Builder) WithSlotSignal(signal *sim.Broadcast) Builder {
	b.slotSignal = signal
	return b
}

// WithSlotDuration sets the length of a slot-unit.
func (b Builder) WithSlotDuration(d sim.VTimeInSec) Builder {
	b.slotDuration = d
	return b
}

// WithRand sets the random stream of the station.
func (b Builder) WithRand(rng *rand.Rand) Builder {
	b.rng = rng
	return b
}

// WithRecorder sets where deliveries and sessions are counted.
func (b Builder) WithRecorder(r Recorder) Builder {
	b.recorder = r
	return b
}

// WithPersistence sets the probability of attempting on an idle channel.
func (b Builder) WithPersistence(p float64) Builder {
	b.persistence = p
	return b
}

// WithSessionLength sets the number of packets sent per session.
func (b Builder) WithSessionLength(n int) Builder {
	b.sessionLength = n
	return b
}

// WithMaxBackoff sets the largest back-off, in slot-units.
func (b Builder) WithMaxBackoff(n int) Builder {
	b.maxBackoff = n
	return b
}

// WithPersistAfterCollision keeps the attempt commitment through a
// collision, so the station retransmits right after the second back-off.
func (b Builder) WithPersistAfterCollision(persist bool) Builder {
	b.persistAfterCollision = persist
	return b
}

// Build creates the station with index id that drains the queue.
func (b Builder) Build(name string, id int, queue *traffic.Queue) *Station {
	if b.engine == nil || b.ctx == nil || b.slotSignal == nil || b.rng == nil {
		panic("station requires an engine, a context, a slot signal and a random stream")
	}

	if queue == nil {
		panic("station requires a queue")
	}

	if b.slotDuration <= 0 || b.sessionLength <= 0 || b.maxBackoff < 0 {
		panic("invalid station parameters")
	}

	if b.persistence <= 0 || b.persistence > 1 {
		panic("persistence must be in (0, 1]")
	}

	s := &Station{
		id:                    id,
		engine:                b.engine,
		ctx:                   b.ctx,
		slotSignal:            b.slotSignal,
		slotDuration:          b.slotDuration,
		queue:                 queue,
		rng:                   b.rng,
		recorder:              b.recorder,
		persistence:           b.persistence,
		sessionLength:         b.sessionLength,
		maxBackoff:            b.maxBackoff,
		persistAfterCollision: b.persistAfterCollision,
		state:                 Idle,
	}
	s.ComponentBase = sim.NewComponentBase(name)

	return s
}
