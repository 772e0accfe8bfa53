package authflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/aurabank/aura/internal/model"
	"github.com/aurabank/aura/internal/remote"
	"github.com/aurabank/aura/internal/session"
	"github.com/aurabank/aura/internal/stepup"
	"github.com/aurabank/aura/internal/store"
	"github.com/aurabank/aura/internal/validation"
)

// fakeChallenger scripts the step-up outcome and counts invocations.
type fakeChallenger struct {
	mu        sync.Mutex
	available bool
	result    stepup.Result
	calls     int
	// release, when set, blocks Challenge until closed.
	release chan struct{}
}

func (f *fakeChallenger) Available() bool { return f.available }

func (f *fakeChallenger) Challenge(ctx context.Context, prompt string) stepup.Result {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.release != nil {
		<-f.release
	}
	return f.result
}

func (f *fakeChallenger) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeBackend scripts backend responses and counts calls per operation.
type fakeBackend struct {
	mu sync.Mutex

	loginSession model.Session
	loginErr     error

	registerErr error

	transferBalance int64
	transferErr     error

	history    []model.Transaction
	historyErr error

	profile    model.Profile
	profileErr error

	loginCalls    int
	transferCalls int
}

func (f *fakeBackend) Login(ctx context.Context, username, password string) (model.Session, error) {
	f.mu.Lock()
	f.loginCalls++
	f.mu.Unlock()
	return f.loginSession, f.loginErr
}

func (f *fakeBackend) Register(ctx context.Context, req RegisterRequest) error {
	return f.registerErr
}

func (f *fakeBackend) Transfer(ctx context.Context, recipientAccount string, amountCents int64) (int64, error) {
	f.mu.Lock()
	f.transferCalls++
	f.mu.Unlock()
	return f.transferBalance, f.transferErr
}

func (f *fakeBackend) History(ctx context.Context, userID string) ([]model.Transaction, error) {
	return f.history, f.historyErr
}

func (f *fakeBackend) Profile(ctx context.Context, userID string) (model.Profile, error) {
	return f.profile, f.profileErr
}

func newTestController(t *testing.T, backend Backend, challenger stepup.Challenger) (*Controller, *session.Context) {
	t.Helper()
	sess := session.NewContext(store.NewMemory())
	return NewController(backend, challenger, sess, DefaultPolicies(), nil), sess
}

func loggedIn(t *testing.T, sess *session.Context, balanceCents int64) {
	t.Helper()
	err := sess.Begin(model.Session{
		UserID:       "42",
		DisplayName:  "Alice",
		BalanceCents: balanceCents,
	})
	if err != nil {
		t.Fatalf("begin session: %v", err)
	}
}

func TestTransferInvalidInputRejectedBeforeChallenge(t *testing.T) {
	backend := &fakeBackend{}
	challenger := &fakeChallenger{available: true, result: stepup.Result{Outcome: stepup.OutcomeSucceeded}}
	c, sess := newTestController(t, backend, challenger)
	loggedIn(t, sess, 10_000)

	cases := []Request{
		NewTransferRequest("", "150"),
		NewTransferRequest("ACC-4521", ""),
		NewTransferRequest("ACC-4521", "0"),
		NewTransferRequest("ACC-4521", "-5"),
		NewTransferRequest("ACC-4521", "abc"),
	}

	for _, req := range cases {
		outcome := c.Submit(context.Background(), req)
		if outcome.Status != StatusRejected {
			t.Errorf("amount %q recipient %q: expected Rejected, got %v",
				req.Transfer.AmountRaw, req.Transfer.RecipientAccount, outcome.Status)
		}
		if outcome.Reason == "" {
			t.Error("rejection without a reason")
		}
	}

	if challenger.callCount() != 0 {
		t.Fatalf("validation failures reached the challenge %d times", challenger.callCount())
	}
	if backend.transferCalls != 0 {
		t.Fatalf("validation failures reached the backend %d times", backend.transferCalls)
	}
}

func TestTransferRequiresSession(t *testing.T) {
	backend := &fakeBackend{}
	challenger := &fakeChallenger{available: true, result: stepup.Result{Outcome: stepup.OutcomeSucceeded}}
	c, _ := newTestController(t, backend, challenger)

	outcome := c.Submit(context.Background(), NewTransferRequest("ACC-4521", "50"))
	if outcome.Status != StatusRejected {
		t.Fatalf("expected Rejected when logged out, got %v", outcome.Status)
	}
	if backend.transferCalls != 0 {
		t.Fatal("logged-out transfer reached the backend")
	}
}

func TestTransferSuccessUsesAuthoritativeBalance(t *testing.T) {
	// The session holds a stale balance; the outcome must carry exactly
	// the backend's value, not any local subtraction.
	backend := &fakeBackend{
		transferBalance: 984_950,
		history: []model.Transaction{
			{CounterpartyName: "Bob", AmountCents: 15_050, Direction: model.DirectionSent, Timestamp: "2024-01-05T10:15:30Z"},
		},
	}
	challenger := &fakeChallenger{available: true, result: stepup.Result{Outcome: stepup.OutcomeSucceeded}}
	c, sess := newTestController(t, backend, challenger)
	loggedIn(t, sess, 1_000_000)

	outcome := c.Submit(context.Background(), NewTransferRequest("ACC-4521", "150.50"))
	if outcome.Status != StatusSucceeded {
		t.Fatalf("expected Succeeded, got %v (%v %v)", outcome.Status, outcome.Reason, outcome.Err)
	}
	if outcome.NewBalanceCents != 984_950 {
		t.Fatalf("expected backend balance 984950, got %d", outcome.NewBalanceCents)
	}

	current, ok := sess.Current()
	if !ok {
		t.Fatal("session vanished")
	}
	if current.BalanceCents != 984_950 {
		t.Fatalf("session balance %d, want the authoritative 984950", current.BalanceCents)
	}
	if outcome.HistoryStale {
		t.Fatal("history unexpectedly stale")
	}
	if len(outcome.Transactions) != 1 {
		t.Fatalf("expected refreshed history, got %d rows", len(outcome.Transactions))
	}
}

func TestTransferHistoryFailureDoesNotFailTransfer(t *testing.T) {
	backend := &fakeBackend{
		transferBalance: 5_000,
		historyErr:      remote.ErrNetworkUnreachable,
	}
	challenger := &fakeChallenger{available: true, result: stepup.Result{Outcome: stepup.OutcomeSucceeded}}
	c, sess := newTestController(t, backend, challenger)
	loggedIn(t, sess, 10_000)

	outcome := c.Submit(context.Background(), NewTransferRequest("ACC-4521", "50"))
	if outcome.Status != StatusSucceeded {
		t.Fatalf("history failure broke the transfer: %v (%v)", outcome.Status, outcome.Err)
	}
	if !outcome.HistoryStale {
		t.Fatal("expected HistoryStale")
	}
	if !errors.Is(outcome.HistoryErr, remote.ErrNetworkUnreachable) {
		t.Fatalf("expected the refresh error, got %v", outcome.HistoryErr)
	}
	if !sess.HistoryStale() {
		t.Fatal("session staleness flag not set")
	}
}

func TestChallengeCancelledSkipsBackend(t *testing.T) {
	backend := &fakeBackend{transferBalance: 5_000}
	challenger := &fakeChallenger{available: true, result: stepup.Result{Outcome: stepup.OutcomeCancelled}}
	c, sess := newTestController(t, backend, challenger)
	loggedIn(t, sess, 10_000)

	outcome := c.Submit(context.Background(), NewTransferRequest("ACC-4521", "50"))
	if outcome.Status != StatusCancelled {
		t.Fatalf("expected Cancelled, got %v", outcome.Status)
	}
	if backend.transferCalls != 0 {
		t.Fatal("cancelled challenge still reached the backend")
	}

	current, _ := sess.Current()
	if current.BalanceCents != 10_000 {
		t.Fatalf("cancelled action changed the balance: %d", current.BalanceCents)
	}
}

func TestChallengeNotRecognized(t *testing.T) {
	backend := &fakeBackend{}
	challenger := &fakeChallenger{available: true, result: stepup.Result{Outcome: stepup.OutcomeNotRecognized}}
	c, sess := newTestController(t, backend, challenger)
	loggedIn(t, sess, 10_000)

	outcome := c.Submit(context.Background(), NewTransferRequest("ACC-4521", "50"))
	if outcome.Status != StatusFailed || !errors.Is(outcome.Err, ErrChallengeFailed) {
		t.Fatalf("expected ErrChallengeFailed, got %v (%v)", outcome.Status, outcome.Err)
	}
	if backend.transferCalls != 0 {
		t.Fatal("unrecognized challenge still reached the backend")
	}
}

func TestChallengeUnavailablePolicies(t *testing.T) {
	// Transfer policy is deny: no credential enrolled means no transfer.
	backend := &fakeBackend{transferBalance: 5_000}
	challenger := &fakeChallenger{available: false}
	c, sess := newTestController(t, backend, challenger)
	loggedIn(t, sess, 10_000)

	outcome := c.Submit(context.Background(), NewTransferRequest("ACC-4521", "50"))
	if outcome.Status != StatusFailed || !errors.Is(outcome.Err, ErrChallengeUnavailable) {
		t.Fatalf("expected ErrChallengeUnavailable, got %v (%v)", outcome.Status, outcome.Err)
	}
	if backend.transferCalls != 0 {
		t.Fatal("denied action reached the backend")
	}

	// Login policy is bypass: the action executes without a challenge.
	outcome = c.Submit(context.Background(), NewLoginRequest("alice", "secret"))
	if outcome.Status != StatusSucceeded {
		t.Fatalf("bypass login failed: %v (%v)", outcome.Status, outcome.Err)
	}
	if challenger.callCount() != 0 {
		t.Fatal("unavailable challenger was invoked")
	}
}

func TestSubmitWhileBusyFailsFast(t *testing.T) {
	release := make(chan struct{})
	backend := &fakeBackend{transferBalance: 5_000}
	challenger := &fakeChallenger{
		available: true,
		result:    stepup.Result{Outcome: stepup.OutcomeSucceeded},
		release:   release,
	}
	c, sess := newTestController(t, backend, challenger)
	loggedIn(t, sess, 10_000)

	firstDone := make(chan Outcome, 1)
	go func() {
		firstDone <- c.Submit(context.Background(), NewTransferRequest("ACC-4521", "50"))
	}()

	// Wait until the first action is parked inside the challenge.
	for challenger.callCount() == 0 {
		time.Sleep(time.Millisecond)
	}

	second := c.Submit(context.Background(), NewTransferRequest("ACC-9999", "25"))
	if second.Status != StatusFailed || !errors.Is(second.Err, ErrActionInFlight) {
		t.Fatalf("expected ErrActionInFlight, got %v (%v)", second.Status, second.Err)
	}

	close(release)
	first := <-firstDone
	if first.Status != StatusSucceeded {
		t.Fatalf("first action broken by busy probe: %v (%v)", first.Status, first.Err)
	}
	if backend.transferCalls != 1 {
		t.Fatalf("expected exactly one backend transfer, got %d", backend.transferCalls)
	}
}

func TestLoginInstallsSession(t *testing.T) {
	backend := &fakeBackend{
		loginSession: model.Session{UserID: "42", DisplayName: "Alice", BalanceCents: 1_000_000},
	}
	challenger := &fakeChallenger{available: true, result: stepup.Result{Outcome: stepup.OutcomeSucceeded}}
	c, sess := newTestController(t, backend, challenger)

	outcome := c.Submit(context.Background(), NewLoginRequest("alice", "secret"))
	if outcome.Status != StatusSucceeded {
		t.Fatalf("login failed: %v (%v)", outcome.Status, outcome.Err)
	}
	if outcome.Session == nil || outcome.Session.UserID != "42" {
		t.Fatalf("outcome session missing: %+v", outcome.Session)
	}

	current, ok := sess.Current()
	if !ok || current.DisplayName != "Alice" {
		t.Fatalf("session not installed: %+v", current)
	}
}

func TestLoginEmptyFieldsRejected(t *testing.T) {
	backend := &fakeBackend{}
	challenger := &fakeChallenger{available: true, result: stepup.Result{Outcome: stepup.OutcomeSucceeded}}
	c, _ := newTestController(t, backend, challenger)

	outcome := c.Submit(context.Background(), NewLoginRequest("", ""))
	if outcome.Status != StatusRejected {
		t.Fatalf("expected Rejected, got %v", outcome.Status)
	}
	if backend.loginCalls != 0 {
		t.Fatal("invalid login reached the backend")
	}
}

func TestServerRejectionMessageVerbatim(t *testing.T) {
	backend := &fakeBackend{
		loginErr: &remote.RejectionError{Message: "Account locked after 3 attempts"},
	}
	challenger := &fakeChallenger{available: true, result: stepup.Result{Outcome: stepup.OutcomeSucceeded}}
	c, _ := newTestController(t, backend, challenger)

	outcome := c.Submit(context.Background(), NewLoginRequest("alice", "wrong"))
	if outcome.Status != StatusRejected {
		t.Fatalf("expected Rejected, got %v (%v)", outcome.Status, outcome.Err)
	}
	if outcome.Reason != "Account locked after 3 attempts" {
		t.Fatalf("server message not verbatim: %q", outcome.Reason)
	}
}

func TestNetworkFailureIsFailedNotRejected(t *testing.T) {
	backend := &fakeBackend{loginErr: remote.ErrNetworkUnreachable}
	challenger := &fakeChallenger{available: true, result: stepup.Result{Outcome: stepup.OutcomeSucceeded}}
	c, _ := newTestController(t, backend, challenger)

	outcome := c.Submit(context.Background(), NewLoginRequest("alice", "secret"))
	if outcome.Status != StatusFailed || !errors.Is(outcome.Err, remote.ErrNetworkUnreachable) {
		t.Fatalf("expected network failure, got %v (%v)", outcome.Status, outcome.Err)
	}
}

func TestLogoutKeepsIdentitySlot(t *testing.T) {
	repo := store.NewMemory()
	if err := repo.SaveIdentity(model.Identity{Username: "alice", SecretHash: []byte("h")}); err != nil {
		t.Fatalf("save identity: %v", err)
	}

	sess := session.NewContext(repo)
	backend := NewLocalBackend(repo, 0)
	challenger := &fakeChallenger{available: true, result: stepup.Result{Outcome: stepup.OutcomeSucceeded}}
	c := NewController(backend, challenger, sess, DefaultPolicies(), nil)

	loggedIn(t, sess, 10_000)
	if err := c.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, ok := sess.Current(); ok {
		t.Fatal("session survived logout")
	}
	exists, err := repo.IdentityExists()
	if err != nil {
		t.Fatalf("identity exists: %v", err)
	}
	if !exists {
		t.Fatal("logout cleared the registered identity")
	}
}

func TestLocalLoginErrorClasses(t *testing.T) {
	repo := store.NewMemory()
	sess := session.NewContext(repo)
	backend := NewLocalBackend(repo, 0)
	challenger := &fakeChallenger{available: true, result: stepup.Result{Outcome: stepup.OutcomeSucceeded}}
	c := NewController(backend, challenger, sess, DefaultPolicies(), nil)

	// Empty slot: not-registered, not bad-credentials.
	outcome := c.Submit(context.Background(), NewLoginRequest("alice", "Abcdef1!"))
	if outcome.Status != StatusRejected {
		t.Fatalf("expected Rejected, got %v (%v)", outcome.Status, outcome.Err)
	}
	if outcome.Reason != "No account is registered on this device" {
		t.Fatalf("unexpected reason: %q", outcome.Reason)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("Abcdef1!"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := repo.SaveIdentity(model.Identity{Username: "alice", SecretHash: hash}); err != nil {
		t.Fatalf("save identity: %v", err)
	}

	outcome = c.Submit(context.Background(), NewLoginRequest("alice", "WrongPass1!"))
	if outcome.Status != StatusRejected || outcome.Reason != "Invalid username or password" {
		t.Fatalf("expected credential rejection, got %v (%q)", outcome.Status, outcome.Reason)
	}

	outcome = c.Submit(context.Background(), NewLoginRequest("alice", "Abcdef1!"))
	if outcome.Status != StatusSucceeded {
		t.Fatalf("valid local login failed: %v (%v %v)", outcome.Status, outcome.Reason, outcome.Err)
	}
}

func TestLocalRegisterAndTransfer(t *testing.T) {
	repo := store.NewMemory()
	sess := session.NewContext(repo)
	backend := NewLocalBackend(repo, 1_000_000)
	challenger := &fakeChallenger{available: true, result: stepup.Result{Outcome: stepup.OutcomeSucceeded}}
	c := NewController(backend, challenger, sess, DefaultPolicies(), nil)

	fields := validation.RegisterFields{
		Name:            "Alice Example",
		Username:        "alice",
		Email:           "alice@example.com",
		PhoneNumber:     "555-0101",
		AccountNumber:   "ACC-1001",
		Password:        "Abcdef1!",
		ConfirmPassword: "Abcdef1!",
	}
	outcome := c.Submit(context.Background(), NewRegisterRequest(fields, "device-secret"))
	if outcome.Status != StatusSucceeded {
		t.Fatalf("register failed: %v (%v %v)", outcome.Status, outcome.Reason, outcome.Err)
	}

	outcome = c.Submit(context.Background(), NewLoginRequest("alice", "Abcdef1!"))
	if outcome.Status != StatusSucceeded {
		t.Fatalf("login after register failed: %v (%v)", outcome.Status, outcome.Reason)
	}
	if outcome.Session.BalanceCents != 1_000_000 {
		t.Fatalf("opening balance not seeded: %d", outcome.Session.BalanceCents)
	}

	outcome = c.Submit(context.Background(), NewTransferRequest("ACC-4521", "150.50"))
	if outcome.Status != StatusSucceeded {
		t.Fatalf("local transfer failed: %v (%v %v)", outcome.Status, outcome.Reason, outcome.Err)
	}
	if outcome.NewBalanceCents != 984_950 {
		t.Fatalf("expected 984950 after debit, got %d", outcome.NewBalanceCents)
	}

	// Overdraft maps to a rejection with the funds message.
	outcome = c.Submit(context.Background(), NewTransferRequest("ACC-4521", "99999"))
	if outcome.Status != StatusRejected || outcome.Reason != "Insufficient funds" {
		t.Fatalf("expected insufficient funds rejection, got %v (%q)", outcome.Status, outcome.Reason)
	}
}

func TestUnlock(t *testing.T) {
	backend := &fakeBackend{}

	unavailable := &fakeChallenger{available: false}
	c, _ := newTestController(t, backend, unavailable)
	outcome := c.Unlock(context.Background())
	if outcome.Status != StatusFailed || !errors.Is(outcome.Err, ErrChallengeUnavailable) {
		t.Fatalf("expected ErrChallengeUnavailable, got %v (%v)", outcome.Status, outcome.Err)
	}

	ok := &fakeChallenger{available: true, result: stepup.Result{Outcome: stepup.OutcomeSucceeded}}
	c, _ = newTestController(t, backend, ok)
	if outcome := c.Unlock(context.Background()); outcome.Status != StatusSucceeded {
		t.Fatalf("unlock failed: %v (%v)", outcome.Status, outcome.Err)
	}
}
