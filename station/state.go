// Package station implements the medium access control of a contending
// station: carrier sensing, the p-persistent attempt decision, the two
// back-off stages and the multi-slot transmission session.
package station

import "github.com/sarchlab/pcsma/sim"

// State is the MAC state of a station.
type State int

// The states of a station.
const (
	Idle State = iota
	AwaitingAttempt
	Contending
	Transmitting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case AwaitingAttempt:
		return "AwaitingAttempt"
	case Contending:
		return "Contending"
	case Transmitting:
		return "Transmitting"
	default:
		return "Unknown"
	}
}

// HookPosSessionDone marks the end of a transmission session. The hook item
// is a Session.
var HookPosSessionDone = &sim.HookPos{Name: "SessionDone"}

// HookPosBackoff marks a back-off draw. The hook item is a Backoff.
var HookPosBackoff = &sim.HookPos{Name: "Backoff"}

// Session describes a completed transmission session.
type Session struct {
	Station int
	Start   sim.VTimeInSec
	End     sim.VTimeInSec
	Packets int
}

// Backoff describes one back-off draw.
type Backoff struct {
	Station int
	Stage   int
	Slots   int
	Time    sim.VTimeInSec
}

// A Recorder counts what the station delivers.
type Recorder interface {
	// RecordDelivered counts one packet sent on the channel.
	RecordDelivered(station int)

	// RecordSuccess counts one completed session.
	RecordSuccess(station int)
}
