package sim

import "fmt"

// An InvariantViolation reports a state the model must never reach. Handlers
// return it to abort the run.
type InvariantViolation struct {
	Where string
	What  string
	At    VTimeInSec
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violated in %s @ %.4f: %s",
		e.Where, e.At, e.What)
}

// NewInvariantViolation creates an InvariantViolation.
func NewInvariantViolation(
	where string,
	at VTimeInSec,
	format string,
	args ...interface{},
) *InvariantViolation {
	return &InvariantViolation{
		Where: where,
		What:  fmt.Sprintf(format, args...),
		At:    at,
	}
}
