// Package authflow implements the authorization-gated action flow: one
// sensitive action at a time is validated, gated behind the device step-up
// challenge, executed against the configured backend, and reconciled with
// the session state.
package authflow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/aurabank/aura/internal/constants"
	"github.com/aurabank/aura/internal/model"
	"github.com/aurabank/aura/internal/remote"
	"github.com/aurabank/aura/internal/session"
	"github.com/aurabank/aura/internal/stepup"
	"github.com/aurabank/aura/internal/store"
	"github.com/aurabank/aura/internal/validation"
)

type state int

const (
	stateIdle state = iota
	stateValidating
	stateAwaitingChallenge
	stateExecuting
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateValidating:
		return "validating"
	case stateAwaitingChallenge:
		return "awaiting_challenge"
	default:
		return "executing"
	}
}

// Policies map each action kind to its behavior when the step-up check is
// unavailable: deny the action or execute without a challenge. The two
// behaviors both exist in the wild, so the choice is explicit configuration
// rather than an accident of the code path.
type Policies struct {
	Login    string
	Register string
	Transfer string
}

// DefaultPolicies mirrors the original client: login proceeds without a
// challenge when none is available, transfer is denied. Register is bypass
// here because the device secret is enrolled during registration itself;
// deny would make a fresh device unable to register at all.
func DefaultPolicies() Policies {
	return Policies{
		Login:    constants.PolicyBypass,
		Register: constants.PolicyBypass,
		Transfer: constants.PolicyDeny,
	}
}

func (p Policies) forKind(kind Kind) string {
	switch kind {
	case KindLogin:
		return p.Login
	case KindRegister:
		return p.Register
	default:
		return p.Transfer
	}
}

// Controller owns the single in-flight action. A Submit while another
// action is anywhere between Validating and Completed is refused
// immediately; the structural guard is the state field, not any UI
// affordance.
type Controller struct {
	mu    sync.Mutex
	state state

	backend    Backend
	challenger stepup.Challenger
	session    *session.Context
	policies   Policies
	logger     *zap.Logger
}

func NewController(backend Backend, challenger stepup.Challenger, sess *session.Context, policies Policies, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		backend:    backend,
		challenger: challenger,
		session:    sess,
		policies:   policies,
		logger:     logger.Named("authflow"),
	}
}

// Submit runs one sensitive action to completion and returns its outcome.
// It blocks for the duration of the flow and is safe to call from any
// goroutine; a concurrent Submit observes the busy state and fails fast
// without touching the challenge or any backend.
func (c *Controller) Submit(ctx context.Context, req Request) Outcome {
	c.mu.Lock()
	if c.state != stateIdle {
		c.mu.Unlock()
		return failed(ErrActionInFlight)
	}
	c.state = stateValidating
	c.mu.Unlock()

	defer c.setState(stateIdle)

	log := c.logger.With(zap.String("request_id", req.ID), zap.String("kind", req.Kind.String()))
	log.Debug("action submitted")

	outcome := c.run(ctx, req, log)

	log.Info("action completed",
		zap.String("status", outcome.Status.String()),
		zap.String("reason", outcome.Reason),
		zap.Error(outcome.Err),
	)
	return outcome
}

func (c *Controller) run(ctx context.Context, req Request, log *zap.Logger) Outcome {
	// Validating: local checks only, nothing leaves the process on failure.
	amountCents, err := c.validate(req)
	if err != nil {
		log.Debug("validation rejected", zap.String("reason", err.Error()))
		return rejected(err.Error())
	}

	// AwaitingChallenge: the only cancellable suspension point.
	c.setState(stateAwaitingChallenge)
	if !c.challenger.Available() {
		switch c.policies.forKind(req.Kind) {
		case constants.PolicyBypass:
			log.Debug("challenge unavailable, policy bypass")
		default:
			log.Debug("challenge unavailable, policy deny")
			return failed(ErrChallengeUnavailable)
		}
	} else {
		result := c.challenger.Challenge(ctx, challengePrompt(req.Kind))
		switch result.Outcome {
		case stepup.OutcomeSucceeded:
		case stepup.OutcomeCancelled:
			return cancelled()
		case stepup.OutcomeNotRecognized:
			return failed(ErrChallengeFailed)
		default:
			return failed(fmt.Errorf("step-up check error: %w", result.Err))
		}
	}

	// Executing: detached from the caller's cancellation. The backend call
	// runs to completion or to a definitive error, because the far side may
	// already have committed the mutation.
	c.setState(stateExecuting)
	execCtx := context.WithoutCancel(ctx)

	switch req.Kind {
	case KindLogin:
		return c.executeLogin(execCtx, req)
	case KindRegister:
		return c.executeRegister(execCtx, req)
	default:
		return c.executeTransfer(execCtx, req, amountCents)
	}
}

// validate returns the parsed transfer amount for KindTransfer; zero
// otherwise.
func (c *Controller) validate(req Request) (int64, error) {
	switch req.Kind {
	case KindLogin:
		return 0, validation.ValidateLogin(req.Login.Username, req.Login.Password)
	case KindRegister:
		return 0, validation.ValidateRegister(req.Register.Fields)
	default:
		if _, ok := c.session.Current(); !ok {
			return 0, errors.New("please log in first")
		}
		return validation.ValidateTransfer(req.Transfer.RecipientAccount, req.Transfer.AmountRaw)
	}
}

func (c *Controller) executeLogin(ctx context.Context, req Request) Outcome {
	sess, err := c.backend.Login(ctx, req.Login.Username, req.Login.Password)
	if err != nil {
		return mapBackendError(err)
	}

	if err := c.session.Begin(sess); err != nil {
		return failed(err)
	}

	return Outcome{Status: StatusSucceeded, Session: &sess}
}

func (c *Controller) executeRegister(ctx context.Context, req Request) Outcome {
	if err := c.backend.Register(ctx, req.Register); err != nil {
		return mapBackendError(err)
	}
	return Outcome{Status: StatusSucceeded}
}

func (c *Controller) executeTransfer(ctx context.Context, req Request, amountCents int64) Outcome {
	newBalance, err := c.backend.Transfer(ctx, req.Transfer.RecipientAccount, amountCents)
	if err != nil {
		return mapBackendError(err)
	}

	// Balance is replaced wholesale with the authoritative value; never
	// derived from the prior balance minus the amount.
	if err := c.session.SetBalance(newBalance); err != nil {
		c.logger.Error("failed to store authoritative balance", zap.Error(err))
	}

	outcome := Outcome{Status: StatusSucceeded, NewBalanceCents: newBalance}

	// The history refresh has its own failure domain: its failure must not
	// imply the transfer failed.
	sess, ok := c.session.Current()
	if !ok {
		outcome.HistoryStale = true
		return outcome
	}
	txs, err := c.backend.History(ctx, sess.UserID)
	if err != nil {
		c.logger.Warn("history refresh failed after transfer", zap.Error(err))
		c.session.MarkHistoryStale(true)
		outcome.HistoryStale = true
		outcome.HistoryErr = err
		return outcome
	}

	c.session.MarkHistoryStale(false)
	outcome.Transactions = txs
	return outcome
}

// Unlock re-runs the step-up gate for an already persisted session, as when
// the application starts while logged in. Without an enrolled credential
// the caller must fall back to a fresh login.
func (c *Controller) Unlock(ctx context.Context) Outcome {
	if !c.challenger.Available() {
		return failed(ErrChallengeUnavailable)
	}

	result := c.challenger.Challenge(ctx, "Confirm your identity to continue")
	switch result.Outcome {
	case stepup.OutcomeSucceeded:
		return Outcome{Status: StatusSucceeded}
	case stepup.OutcomeCancelled:
		return cancelled()
	case stepup.OutcomeNotRecognized:
		return failed(ErrChallengeFailed)
	default:
		return failed(fmt.Errorf("step-up check error: %w", result.Err))
	}
}

// RefreshProfile pulls the authoritative profile and replaces the cached
// balance. Reading the dashboard is not a sensitive action and is not
// gated.
func (c *Controller) RefreshProfile(ctx context.Context) (model.Profile, error) {
	sess, ok := c.session.Current()
	if !ok {
		return model.Profile{}, store.ErrNoSession
	}

	profile, err := c.backend.Profile(ctx, sess.UserID)
	if err != nil {
		return model.Profile{}, err
	}

	if err := c.session.SetBalance(profile.BalanceCents); err != nil {
		return model.Profile{}, err
	}
	return profile, nil
}

// RefreshHistory pulls the history snapshot, preserving backend order.
func (c *Controller) RefreshHistory(ctx context.Context) ([]model.Transaction, error) {
	sess, ok := c.session.Current()
	if !ok {
		return nil, store.ErrNoSession
	}

	txs, err := c.backend.History(ctx, sess.UserID)
	if err != nil {
		c.session.MarkHistoryStale(true)
		return nil, err
	}
	c.session.MarkHistoryStale(false)
	return txs, nil
}

// Logout destroys the session. The credential slot stays registered.
func (c *Controller) Logout() error {
	return c.session.End()
}

func (c *Controller) setState(s state) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func challengePrompt(kind Kind) string {
	switch kind {
	case KindLogin:
		return "Confirm your identity to log in"
	case KindRegister:
		return "Confirm your identity to register"
	default:
		return "Confirm your identity to send money"
	}
}

// mapBackendError sorts a backend failure into the outcome taxonomy.
// Server rejections keep their message verbatim.
func mapBackendError(err error) Outcome {
	if rej, ok := remote.IsRejection(err); ok {
		return rejected(rej.Message)
	}
	switch {
	case errors.Is(err, ErrBadCredentials):
		return rejected("Invalid username or password")
	case errors.Is(err, store.ErrNotRegistered):
		return rejected("No account is registered on this device")
	case errors.Is(err, store.ErrInsufficientFunds):
		return rejected("Insufficient funds")
	default:
		return failed(err)
	}
}
