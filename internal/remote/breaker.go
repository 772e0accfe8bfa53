package remote

import (
	"context"
	"errors"
	"fmt"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/aurabank/aura/internal/model"
)

// BreakerClient wraps a Client with a circuit breaker so that once the
// authority is observed unreachable, subsequent calls fail fast instead of
// waiting out the transport timeout every time. Business rejections and
// malformed responses do not trip the breaker; only transport failures do.
type BreakerClient struct {
	inner Client
	cb    *gobreaker.CircuitBreaker
}

func NewBreakerClient(inner Client, logger *zap.Logger) *BreakerClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.Named("breaker")

	settings := gobreaker.Settings{
		Name: "remote-authority",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, ErrNetworkUnreachable)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &BreakerClient{inner: inner, cb: gobreaker.NewCircuitBreaker(settings)}
}

func (b *BreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: authority marked unreachable", ErrNetworkUnreachable)
	}
	return result, err
}

func (b *BreakerClient) Login(ctx context.Context, username, password string) (string, error) {
	result, err := b.execute(func() (interface{}, error) {
		return b.inner.Login(ctx, username, password)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (b *BreakerClient) Register(ctx context.Context, input RegisterInput) error {
	_, err := b.execute(func() (interface{}, error) {
		return nil, b.inner.Register(ctx, input)
	})
	return err
}

func (b *BreakerClient) FetchProfile(ctx context.Context, userID string) (model.Profile, error) {
	result, err := b.execute(func() (interface{}, error) {
		return b.inner.FetchProfile(ctx, userID)
	})
	if err != nil {
		return model.Profile{}, err
	}
	return result.(model.Profile), nil
}

func (b *BreakerClient) FetchHistory(ctx context.Context, userID string) ([]model.Transaction, error) {
	result, err := b.execute(func() (interface{}, error) {
		return b.inner.FetchHistory(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return result.([]model.Transaction), nil
}

func (b *BreakerClient) Transfer(ctx context.Context, recipientAccount string, amountCents int64) (int64, error) {
	result, err := b.execute(func() (interface{}, error) {
		return b.inner.Transfer(ctx, recipientAccount, amountCents)
	})
	if err != nil {
		return 0, err
	}
	return result.(int64), nil
}
