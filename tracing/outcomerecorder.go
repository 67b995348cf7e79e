package tracing

// OutcomeRecorder keeps the trace in memory.
type OutcomeRecorder struct {
	Outcomes []Outcome
	Sessions []Session
}

// NewOutcomeRecorder creates an empty OutcomeRecorder.
func NewOutcomeRecorder() *OutcomeRecorder {
	return &OutcomeRecorder{}
}

// ResolveSlot appends the outcome.
func (r *OutcomeRecorder) ResolveSlot(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// EndSession appends the session.
func (r *OutcomeRecorder) EndSession(s Session) {
	r.Sessions = append(r.Sessions, s)
}

// Count returns how many slots resolved to the feedback.
func (r *OutcomeRecorder) Count(feedback string) int {
	n := 0

	for _, o := range r.Outcomes {
		if o.Feedback == feedback {
			n++
		}
	}

	return n
}
