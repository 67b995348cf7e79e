package traffic

import (
	"math/rand"

	"github.com/sarchlab/pcsma/sim"
)

// Builder can build on/off traffic sources.
type Builder struct {
	engine     sim.Engine
	rng        *rand.Rand
	recorder   LoadRecorder
	onDuration int
	interval   sim.VTimeInSec
	meanIdle   float64
}

// MakeBuilder returns a Builder with ten-packet bursts one time unit apart
// and a mean idle time of 10000.
func MakeBuilder() Builder {
	return Builder{
		onDuration: 10,
		interval:   1,
		meanIdle:   10000,
	}
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithRand sets the random stream used for idle times.
func (b Builder) WithRand(rng *rand.Rand) Builder {
	b.rng = rng
	return b
}

// WithLoadRecorder sets where generated packets are counted.
func (b Builder) WithLoadRecorder(r LoadRecorder) Builder {
	b.recorder = r
	return b
}

// WithOnDuration sets the number of packets in a burst.
func (b Builder) WithOnDuration(n int) Builder {
	b.onDuration = n
	return b
}

// WithInterval sets the time between two packets of a burst.
func (b Builder) WithInterval(d sim.VTimeInSec) Builder {
	b.interval = d
	return b
}

// WithMeanIdleTime sets the mean of the exponential startup and off times.
func (b Builder) WithMeanIdleTime(mean float64) Builder {
	b.meanIdle = mean
	return b
}

// Build creates a source feeding the queue of the given station.
func (b Builder) Build(name string, station int, queue *Queue) *Source {
	if b.engine == nil || b.rng == nil {
		panic("traffic source requires an engine and a random stream")
	}

	if b.onDuration <= 0 || b.interval <= 0 || b.meanIdle <= 0 {
		panic("traffic source parameters must be positive")
	}

	s := &Source{
		engine:     b.engine,
		station:    station,
		queue:      queue,
		rng:        b.rng,
		recorder:   b.recorder,
		onDuration: b.onDuration,
		interval:   b.interval,
		meanIdle:   b.meanIdle,
	}
	s.ComponentBase = sim.NewComponentBase(name)

	return s
}
