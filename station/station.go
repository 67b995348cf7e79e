package station

import (
	"fmt"
	"math/rand"

	"github.com/sarchlab/pcsma/medium"
	"github.com/sarchlab/pcsma/sim"
	"github.com/sarchlab/pcsma/traffic"
)

type timer int

const (
	slotUnit timer = iota
	backoff1Done
	backoff2Done
)

// Station is a contending station. It is driven by the slot signal, by its
// own timers and by the feedback of the channel.
type Station struct {
	*sim.ComponentBase

	id           int
	engine       sim.Engine
	ctx          *medium.Context
	slotSignal   *sim.Broadcast
	slotDuration sim.VTimeInSec
	queue        *traffic.Queue
	rng          *rand.Rand
	recorder     Recorder

	persistence           float64
	sessionLength         int
	maxBackoff            int
	persistAfterCollision bool

	state        State
	sessionSlots int
	sessionStart sim.VTimeInSec
}

// ID returns the index of the station.
func (s *Station) ID() int {
	return s.id
}

// State returns the current MAC state.
func (s *Station) State() State {
	return s.state
}

// SessionSlots returns the number of packets sent in the running session.
func (s *Station) SessionSlots() int {
	return s.sessionSlots
}

// Queue returns the queue the station drains.
func (s *Station) Queue() *traffic.Queue {
	return s.queue
}

// Start makes the station listen to the next slot.
func (s *Station) Start() {
	s.waitSlot()
}

// Handle dispatches on the kind of wakeup.
func (s *Station) Handle(e sim.Event) error {
	switch evt := e.(type) {
	case *sim.SignalEvent:
		return s.onSlot(evt.Time())
	case *sim.SelectedEvent:
		return s.onFeedback(evt)
	case *sim.TimeoutEvent:
		t, ok := evt.Payload.(timer)
		if !ok {
			return fmt.Errorf("station cannot handle payload %T", evt.Payload)
		}

		return s.onTimer(t)
	default:
		return fmt.Errorf("station cannot handle %T", e)
	}
}

func (s *Station) onSlot(now sim.VTimeInSec) error {
	if s.queue.Len() == 0 {
		if s.state == AwaitingAttempt {
			s.state = Idle
		}

		s.sleep(s.slotDuration, slotUnit)

		return nil
	}

	if s.ctx.Busy {
		if s.ctx.Holder != s.id {
			s.waitSlot()
			return nil
		}

		return s.transmit(now)
	}

	switch s.state {
	case Idle, AwaitingAttempt:
		s.decide(now)
	case Contending:
		s.ctx.Attempt(s.id)
		sim.WaitAny(s, s.ctx.Signals()...)
	case Transmitting:
		return sim.NewInvariantViolation(s.Name(), now,
			"transmitting on an idle channel")
	}

	return nil
}

func (s *Station) decide(now sim.VTimeInSec) {
	s.state = AwaitingAttempt

	if s.rng.Float64() <= s.persistence {
		s.backoff(now, 1, backoff1Done)
		return
	}

	s.sleep(s.slotDuration, slotUnit)
}

func (s *Station) onFeedback(evt *sim.SelectedEvent) error {
	now := evt.Time()

	feedback, ok := medium.FeedbackAt(evt.Index)
	if !ok {
		return fmt.Errorf("unknown feedback index %d", evt.Index)
	}

	switch feedback {
	case medium.NoReply:
		s.sleep(s.slotDuration, slotUnit)
	case medium.Ack:
		if s.ctx.Holder != s.id {
			return sim.NewInvariantViolation(s.Name(), now,
				"acknowledged while station %d holds the channel", s.ctx.Holder)
		}

		s.state = Transmitting
		s.sessionStart = now

		return s.transmit(now)
	case medium.Nack:
		s.backoff(now, 2, backoff2Done)
	}

	return nil
}

func (s *Station) onTimer(t timer) error {
	switch t {
	case backoff1Done:
		s.state = Contending
	case backoff2Done:
		if !s.persistAfterCollision {
			s.state = AwaitingAttempt
		}
	}

	s.waitSlot()

	return nil
}

func (s *Station) backoff(now sim.VTimeInSec, stage int, done timer) {
	slots := sim.UniformInt(s.rng, 0, s.maxBackoff)

	s.InvokeHook(sim.HookCtx{
		Domain: s,
		Pos:    HookPosBackoff,
		Item: Backoff{
			Station: s.id,
			Stage:   stage,
			Slots:   slots,
			Time:    now,
		},
	})

	s.sleep(sim.VTimeInSec(slots)*s.slotDuration, done)
}

func (s *Station) transmit(now sim.VTimeInSec) error {
	if _, err := s.queue.Pop(); err != nil {
		return sim.NewInvariantViolation(s.Name(), now,
			"transmitting from an empty queue: %v", err)
	}

	s.sessionSlots++
	if s.recorder != nil {
		s.recorder.RecordDelivered(s.id)
	}

	if s.sessionSlots >= s.sessionLength {
		if err := s.endSession(now); err != nil {
			return err
		}
	}

	s.waitSlot()

	return nil
}

func (s *Station) endSession(now sim.VTimeInSec) error {
	if err := s.ctx.Release(s.id, now); err != nil {
		return err
	}

	session := Session{
		Station: s.id,
		Start:   s.sessionStart,
		End:     now,
		Packets: s.sessionSlots,
	}

	s.sessionSlots = 0
	s.state = Idle

	if s.recorder != nil {
		s.recorder.RecordSuccess(s.id)
	}

	s.InvokeHook(sim.HookCtx{
		Domain: s,
		Pos:    HookPosSessionDone,
		Item:   session,
	})

	return nil
}

func (s *Station) waitSlot() {
	s.slotSignal.Wait(s)
}

func (s *Station) sleep(d sim.VTimeInSec, t timer) {
	sim.ScheduleTimeout(s.engine, s, d, t)
}
