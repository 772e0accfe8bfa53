package authflow

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/aurabank/aura/internal/model"
	"github.com/aurabank/aura/internal/store"
)

const localTimestampLayout = "2006-01-02T15:04:05.999999Z07:00"

// LocalBackend executes actions against the single-slot credential store
// when no remote authority is configured. The store is the authority here:
// balance arithmetic happens inside it and callers copy the result.
type LocalBackend struct {
	repo store.Repository
	// openingBalanceCents seeds a freshly registered identity.
	openingBalanceCents int64
}

func NewLocalBackend(repo store.Repository, openingBalanceCents int64) *LocalBackend {
	return &LocalBackend{repo: repo, openingBalanceCents: openingBalanceCents}
}

func (b *LocalBackend) Login(ctx context.Context, username, password string) (model.Session, error) {
	identity, err := b.repo.LoadIdentity()
	if err != nil {
		// ErrNotRegistered passes through: "no slot" is not "wrong password".
		return model.Session{}, err
	}

	if identity.Username != username ||
		bcrypt.CompareHashAndPassword(identity.SecretHash, []byte(password)) != nil {
		return model.Session{}, ErrBadCredentials
	}

	return model.Session{
		UserID:        identity.Username,
		DisplayName:   identity.DisplayName,
		AccountNumber: identity.AccountNumber,
		Email:         identity.Email,
		PhoneNumber:   identity.PhoneNumber,
		BalanceCents:  identity.BalanceCents,
		LastSyncedAt:  time.Now().Unix(),
	}, nil
}

// Register overwrites the single slot unconditionally.
func (b *LocalBackend) Register(ctx context.Context, req RegisterRequest) error {
	identity, err := buildIdentity(req, b.openingBalanceCents)
	if err != nil {
		return err
	}
	return b.repo.SaveIdentity(identity)
}

func (b *LocalBackend) Transfer(ctx context.Context, recipientAccount string, amountCents int64) (int64, error) {
	timestamp := time.Now().Format(localTimestampLayout)
	return b.repo.LocalTransfer(recipientAccount, amountCents, timestamp)
}

func (b *LocalBackend) History(ctx context.Context, userID string) ([]model.Transaction, error) {
	return b.repo.LocalTransactions()
}

func (b *LocalBackend) Profile(ctx context.Context, userID string) (model.Profile, error) {
	identity, err := b.repo.LoadIdentity()
	if err != nil {
		return model.Profile{}, err
	}
	return model.Profile{
		Name:          identity.DisplayName,
		AccountNumber: identity.AccountNumber,
		Email:         identity.Email,
		PhoneNumber:   identity.PhoneNumber,
		BalanceCents:  identity.BalanceCents,
	}, nil
}
