// Package stepup abstracts the device-level identity confirmation required
// before a sensitive action executes. The capability is outside the
// application's control; the contract guarantees exactly one outcome per
// Challenge invocation, with the cancel affordance always reported as
// OutcomeCancelled rather than silently dropped.
package stepup

import "context"

type Outcome int

const (
	OutcomeSucceeded Outcome = iota
	OutcomeCancelled
	OutcomeNotRecognized
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeNotRecognized:
		return "not recognized"
	default:
		return "error"
	}
}

// Result is the single outcome of one challenge. Err is set only for
// OutcomeError.
type Result struct {
	Outcome Outcome
	Err     error
}

type Challenger interface {
	// Available reports whether a step-up credential is enrolled and the
	// challenge can be presented.
	Available() bool

	// Challenge presents the check and yields exactly one Result. The
	// context is the cancellation token for the waiting caller.
	Challenge(ctx context.Context, prompt string) Result
}
