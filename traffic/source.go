package traffic

import (
	"fmt"
	"math/rand"

	"github.com/sarchlab/pcsma/sim"
)

// A LoadRecorder counts generated packets.
type LoadRecorder interface {
	RecordOffered(station int)
}

// Phase is the state of an on/off source.
type Phase int

// The phases of a source.
const (
	PhaseStartup Phase = iota
	PhaseOn
	PhaseOff
)

func (p Phase) String() string {
	switch p {
	case PhaseStartup:
		return "Startup"
	case PhaseOn:
		return "On"
	case PhaseOff:
		return "Off"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

type wakeup int

const (
	beginOn wakeup = iota
	arrival
)

// Source produces packets with an on/off model. After an exponential startup
// delay it emits one packet per interval for onDuration intervals, then stays
// silent for an exponential time, and repeats forever.
type Source struct {
	*sim.ComponentBase

	engine     sim.Engine
	station    int
	queue      *Queue
	rng        *rand.Rand
	recorder   LoadRecorder
	onDuration int
	interval   sim.VTimeInSec
	meanIdle   float64

	phase     Phase
	sentInOn  int
	generated uint64
}

// Queue returns the queue the source fills.
func (s *Source) Queue() *Queue {
	return s.queue
}

// Phase returns the current phase.
func (s *Source) Phase() Phase {
	return s.phase
}

// Generated returns the number of packets generated so far.
func (s *Source) Generated() uint64 {
	return s.generated
}

// Start schedules the end of the startup delay.
func (s *Source) Start() {
	s.phase = PhaseStartup
	s.sleep(sim.VTimeInSec(sim.Exponential(s.rng, s.meanIdle)), beginOn)
}

// Handle advances the on/off cycle.
func (s *Source) Handle(e sim.Event) error {
	evt, ok := e.(*sim.TimeoutEvent)
	if !ok {
		return fmt.Errorf("traffic source cannot handle %T", e)
	}

	w, ok := evt.Payload.(wakeup)
	if !ok {
		return fmt.Errorf("traffic source cannot handle payload %T", evt.Payload)
	}

	switch w {
	case beginOn:
		s.phase = PhaseOn
		s.sentInOn = 0
		s.sleep(s.interval, arrival)
	case arrival:
		s.emit(evt.Time())
	default:
		return fmt.Errorf("traffic source cannot handle wakeup %d", w)
	}

	return nil
}

func (s *Source) emit(now sim.VTimeInSec) {
	s.queue.Push(Packet{ArrivalTime: now})
	s.sentInOn++
	s.generated++

	if s.recorder != nil {
		s.recorder.RecordOffered(s.station)
	}

	if s.sentInOn < s.onDuration {
		s.sleep(s.interval, arrival)
		return
	}

	s.phase = PhaseOff
	s.sleep(sim.VTimeInSec(sim.Exponential(s.rng, s.meanIdle)), beginOn)
}

func (s *Source) sleep(d sim.VTimeInSec, next wakeup) {
	sim.ScheduleTimeout(s.engine, s, d, next)
}
