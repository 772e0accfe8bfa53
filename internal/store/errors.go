package store

import "errors"

var (
	// ErrNotRegistered means the credential slot is empty. Callers must keep
	// this distinct from a wrong-credentials condition.
	ErrNotRegistered = errors.New("no identity registered on this device")

	// ErrNoSession means no user is currently logged in.
	ErrNoSession = errors.New("no active session")

	// ErrInsufficientFunds is returned by LocalTransfer when the cached
	// balance cannot cover the requested amount.
	ErrInsufficientFunds = errors.New("insufficient funds")
)
