package stepup

import (
	"context"
	"errors"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"golang.org/x/crypto/bcrypt"

	"github.com/aurabank/aura/internal/store"
	"github.com/aurabank/aura/internal/ui"
)

// TerminalChallenger verifies the device step-up secret enrolled at
// registration against a hidden terminal prompt.
type TerminalChallenger struct {
	repo store.Repository
}

func NewTerminalChallenger(repo store.Repository) *TerminalChallenger {
	return &TerminalChallenger{repo: repo}
}

func (t *TerminalChallenger) Available() bool {
	identity, err := t.repo.LoadIdentity()
	if err != nil {
		return false
	}
	return len(identity.StepUpHash) > 0
}

func (t *TerminalChallenger) Challenge(ctx context.Context, prompt string) Result {
	identity, err := t.repo.LoadIdentity()
	if err != nil {
		return Result{Outcome: OutcomeError, Err: err}
	}
	if len(identity.StepUpHash) == 0 {
		return Result{Outcome: OutcomeError, Err: errors.New("no step-up secret enrolled")}
	}

	type answer struct {
		secret string
		err    error
	}
	done := make(chan answer, 1)

	go func() {
		var secret string
		askErr := survey.AskOne(&survey.Password{Message: prompt}, &secret, ui.IconOption())
		done <- answer{secret: secret, err: askErr}
	}()

	select {
	case <-ctx.Done():
		// The prompt goroutine cannot be unwound once survey owns stdin;
		// it is abandoned here and exits with the process. Callers cancel
		// only when tearing the whole command down.
		return Result{Outcome: OutcomeCancelled}
	case ans := <-done:
		if ans.err != nil {
			if errors.Is(ans.err, terminal.InterruptErr) || strings.Contains(ans.err.Error(), "interrupt") {
				return Result{Outcome: OutcomeCancelled}
			}
			return Result{Outcome: OutcomeError, Err: ans.err}
		}
		if bcrypt.CompareHashAndPassword(identity.StepUpHash, []byte(ans.secret)) != nil {
			return Result{Outcome: OutcomeNotRecognized}
		}
		return Result{Outcome: OutcomeSucceeded}
	}
}
