package authflow

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/aurabank/aura/internal/model"
	"github.com/aurabank/aura/internal/remote"
	"github.com/aurabank/aura/internal/store"
)

// RemoteBackend executes actions against the remote authority. The local
// store still receives the identity slot on registration so the device
// step-up secret has somewhere to live.
type RemoteBackend struct {
	client remote.Client
	repo   store.Repository
}

func NewRemoteBackend(client remote.Client, repo store.Repository) *RemoteBackend {
	return &RemoteBackend{client: client, repo: repo}
}

func (b *RemoteBackend) Login(ctx context.Context, username, password string) (model.Session, error) {
	userID, err := b.client.Login(ctx, username, password)
	if err != nil {
		return model.Session{}, err
	}

	profile, err := b.client.FetchProfile(ctx, userID)
	if err != nil {
		return model.Session{}, err
	}

	return model.Session{
		UserID:        userID,
		DisplayName:   profile.Name,
		AccountNumber: profile.AccountNumber,
		Email:         profile.Email,
		PhoneNumber:   profile.PhoneNumber,
		BalanceCents:  profile.BalanceCents,
		LastSyncedAt:  time.Now().Unix(),
	}, nil
}

func (b *RemoteBackend) Register(ctx context.Context, req RegisterRequest) error {
	err := b.client.Register(ctx, remote.RegisterInput{
		Name:          req.Fields.Name,
		Username:      req.Fields.Username,
		Email:         req.Fields.Email,
		Password:      req.Fields.Password,
		PhoneNumber:   req.Fields.PhoneNumber,
		AccountNumber: req.Fields.AccountNumber,
	})
	if err != nil {
		return err
	}

	identity, err := buildIdentity(req, 0)
	if err != nil {
		return err
	}
	return b.repo.SaveIdentity(identity)
}

func (b *RemoteBackend) Transfer(ctx context.Context, recipientAccount string, amountCents int64) (int64, error) {
	return b.client.Transfer(ctx, recipientAccount, amountCents)
}

func (b *RemoteBackend) History(ctx context.Context, userID string) ([]model.Transaction, error) {
	return b.client.FetchHistory(ctx, userID)
}

func (b *RemoteBackend) Profile(ctx context.Context, userID string) (model.Profile, error) {
	return b.client.FetchProfile(ctx, userID)
}

func buildIdentity(req RegisterRequest, balanceCents int64) (model.Identity, error) {
	secretHash, err := bcrypt.GenerateFromPassword([]byte(req.Fields.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.Identity{}, err
	}

	var stepUpHash []byte
	if req.StepUpSecret != "" {
		stepUpHash, err = bcrypt.GenerateFromPassword([]byte(req.StepUpSecret), bcrypt.DefaultCost)
		if err != nil {
			return model.Identity{}, err
		}
	}

	return model.Identity{
		Username:      req.Fields.Username,
		DisplayName:   req.Fields.Name,
		AccountNumber: req.Fields.AccountNumber,
		Email:         req.Fields.Email,
		PhoneNumber:   req.Fields.PhoneNumber,
		SecretHash:    secretHash,
		StepUpHash:    stepUpHash,
		BalanceCents:  balanceCents,
	}, nil
}
