package errhandler

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/pterm/pterm"

	"github.com/aurabank/aura/internal/authflow"
	"github.com/aurabank/aura/internal/remote"
)

func HandleError(err error) {
	if errors.Is(err, terminal.InterruptErr) || strings.Contains(err.Error(), "interrupt") {
		pterm.Warning.Println("Operation Cancelled")
		os.Exit(0)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

// RenderFailure prints the specific message for a non-success outcome.
// Each failure class gets its own text: collapsing them into one generic
// error message loses exactly the information the user needs.
func RenderFailure(outcome authflow.Outcome) {
	switch outcome.Status {
	case authflow.StatusRejected:
		pterm.Error.Println(outcome.Reason)
	case authflow.StatusCancelled:
		pterm.Warning.Println("Authorization cancelled")
	case authflow.StatusFailed:
		renderFailedError(outcome.Err)
	}
}

// RenderRefreshError reports a failed non-gated read (profile or history
// refresh) without treating it as fatal; callers fall back to cached data.
func RenderRefreshError(err error) {
	switch {
	case errors.Is(err, remote.ErrNetworkUnreachable):
		pterm.Warning.Println("Could not reach the server; showing the last synced data")
	case errors.Is(err, remote.ErrMalformedResponse):
		pterm.Warning.Println("The server sent an unexpected response; showing the last synced data")
	default:
		pterm.Warning.Printf("Refresh failed: %v\n", err)
	}
}

func renderFailedError(err error) {
	switch {
	case errors.Is(err, authflow.ErrActionInFlight):
		pterm.Warning.Println("Another action is still in progress. Try again in a moment.")
	case errors.Is(err, authflow.ErrChallengeUnavailable):
		pterm.Error.Println("Step-up check is not available or not enrolled on this device.")
	case errors.Is(err, authflow.ErrChallengeFailed):
		pterm.Error.Println("Identity not recognized.")
	case errors.Is(err, remote.ErrNetworkUnreachable):
		pterm.Error.Printf("Network error: %v\n", err)
	case errors.Is(err, remote.ErrMalformedResponse):
		pterm.Error.Println("The server sent an unexpected response. Please try again later.")
	default:
		pterm.Error.Printf("Error: %v\n", err)
	}
}
