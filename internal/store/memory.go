package store

import (
	"sync"

	"github.com/aurabank/aura/internal/model"
)

type memoryStore struct {
	mu       sync.Mutex
	identity *model.Identity
	session  *model.Session
	txs      []model.Transaction
}

// NewMemory builds an in-memory Repository with the same single-slot
// semantics as the sqlite store. Used by tests.
func NewMemory() Repository {
	return &memoryStore{}
}

func (m *memoryStore) SaveIdentity(identity model.Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := identity
	m.identity = &cp
	return nil
}

func (m *memoryStore) LoadIdentity() (*model.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		return nil, ErrNotRegistered
	}
	cp := *m.identity
	return &cp, nil
}

func (m *memoryStore) IdentityExists() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.identity != nil, nil
}

func (m *memoryStore) ClearIdentity() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.identity = nil
	return nil
}

func (m *memoryStore) SaveSession(session model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := session
	m.session = &cp
	return nil
}

func (m *memoryStore) LoadSession() (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, ErrNoSession
	}
	cp := *m.session
	return &cp, nil
}

func (m *memoryStore) UpdateSessionBalance(balanceCents int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return ErrNoSession
	}
	m.session.BalanceCents = balanceCents
	return nil
}

func (m *memoryStore) ClearSession() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}

func (m *memoryStore) LocalTransfer(recipientAccount string, amountCents int64, timestamp string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		return 0, ErrNotRegistered
	}
	if m.identity.BalanceCents < amountCents {
		return 0, ErrInsufficientFunds
	}
	m.identity.BalanceCents -= amountCents
	m.txs = append([]model.Transaction{{
		CounterpartyName: recipientAccount,
		AmountCents:      amountCents,
		Direction:        model.DirectionSent,
		Timestamp:        timestamp,
	}}, m.txs...)
	return m.identity.BalanceCents, nil
}

func (m *memoryStore) LocalTransactions() ([]model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Transaction, len(m.txs))
	copy(out, m.txs)
	return out, nil
}

func (m *memoryStore) Close() error { return nil }
