// Package medium models the shared radio channel that the stations contend
// for.
//
// All the mutable state of the medium lives in a Context owned by the
// simulation. Stations register their attempts in it and the Channel
// resolves one slot at a time, answering with a Feedback broadcast.
package medium

// Feedback is the answer the receiver gives at the end of a slot.
type Feedback int

// The three possible slot outcomes. Their order is the order of the signals
// returned by Context.Signals.
const (
	NoReply Feedback = iota
	Ack
	Nack
	numFeedbacks
)

func (f Feedback) String() string {
	switch f {
	case NoReply:
		return "NoReply"
	case Ack:
		return "Ack"
	case Nack:
		return "Nack"
	default:
		return "Unknown"
	}
}

// FeedbackAt maps the index reported by sim.WaitAny over Context.Signals back
// to a Feedback.
func FeedbackAt(index int) (Feedback, bool) {
	if index < 0 || index >= int(numFeedbacks) {
		return 0, false
	}

	return Feedback(index), true
}
