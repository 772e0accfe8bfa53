package authflow

import (
	"context"
	"errors"

	"github.com/aurabank/aura/internal/model"
)

// ErrBadCredentials is the local-fallback equivalent of a server
// credential rejection. It is distinct from store.ErrNotRegistered: an
// empty slot is not a wrong password.
var ErrBadCredentials = errors.New("invalid username or password")

// Backend is one of the two interchangeable execution targets for
// sensitive actions: the remote authority or the local single-slot store.
// The configured mode selects the implementation at startup; the flow
// controller never guesses.
type Backend interface {
	Login(ctx context.Context, username, password string) (model.Session, error)
	Register(ctx context.Context, req RegisterRequest) error
	Transfer(ctx context.Context, recipientAccount string, amountCents int64) (int64, error)
	History(ctx context.Context, userID string) ([]model.Transaction, error)
	Profile(ctx context.Context, userID string) (model.Profile, error)
}
