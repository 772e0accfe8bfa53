package store

import "github.com/aurabank/aura/internal/model"

type Repository interface {
	// Credential slot. SaveIdentity unconditionally overwrites any prior
	// identity: single slot, no merge, no versioning.
	SaveIdentity(identity model.Identity) error
	LoadIdentity() (*model.Identity, error)
	IdentityExists() (bool, error)
	ClearIdentity() error

	// Session cache, present only while logged in.
	SaveSession(session model.Session) error
	LoadSession() (*model.Session, error)
	UpdateSessionBalance(balanceCents int64) error
	ClearSession() error

	// Local-fallback bookkeeping. LocalTransfer performs the debit as the
	// authority (the arithmetic happens here, not in the caller) and
	// returns the new balance.
	LocalTransfer(recipientAccount string, amountCents int64, timestamp string) (int64, error)
	LocalTransactions() ([]model.Transaction, error)

	Close() error
}
