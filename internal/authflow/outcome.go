package authflow

import (
	"errors"

	"github.com/aurabank/aura/internal/model"
)

var (
	// ErrActionInFlight is the immediate busy signal returned when a Submit
	// arrives while another action is still being processed.
	ErrActionInFlight = errors.New("another sensitive action is in flight")

	// ErrChallengeUnavailable means no step-up credential is enrolled and
	// the action's policy denies execution without one.
	ErrChallengeUnavailable = errors.New("step-up check not available on this device")

	// ErrChallengeFailed means the step-up check ran and did not recognize
	// the user.
	ErrChallengeFailed = errors.New("step-up check failed")
)

type Status int

const (
	StatusSucceeded Status = iota
	StatusRejected
	StatusCancelled
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusRejected:
		return "rejected"
	case StatusCancelled:
		return "cancelled"
	default:
		return "failed"
	}
}

// Outcome resolves one Request. Exactly one of the payload fields is
// populated depending on the action kind; Reason carries validation and
// server rejection text (shown to the user verbatim), Err the failure cause.
type Outcome struct {
	Status Status
	Reason string
	Err    error

	// Login payload
	Session *model.Session

	// Transfer payload
	NewBalanceCents int64
	Transactions    []model.Transaction
	// HistoryStale is set when the transfer itself succeeded but the
	// follow-up history refresh did not. The transfer is still Succeeded.
	HistoryStale bool
	HistoryErr   error
}

func rejected(reason string) Outcome {
	return Outcome{Status: StatusRejected, Reason: reason}
}

func cancelled() Outcome {
	return Outcome{Status: StatusCancelled}
}

func failed(err error) Outcome {
	return Outcome{Status: StatusFailed, Err: err}
}
