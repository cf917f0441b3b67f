package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when an account or address does not exist.
	ErrNotFound = errors.New("store: not found")

	// ErrDuplicateEmail is returned when a create or update would
	// violate the unique email constraint. Callers racing on the same
	// email treat it as a cue to retry as an update, not as a failure.
	ErrDuplicateEmail = errors.New("store: email already in use")
)

// Store is the persistent account store. Implementations must enforce
// email uniqueness at the storage layer so concurrent creates for the
// same email collapse into ErrDuplicateEmail.
type Store interface {
	CreateAccount(ctx context.Context, a *Account) error
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	GetAccountByID(ctx context.Context, id string) (*Account, error)
	UpdateAccount(ctx context.Context, a *Account) error

	ListAddresses(ctx context.Context, accountID string) ([]Address, error)
	AddAddress(ctx context.Context, accountID string, a Address) ([]Address, error)
	UpdateAddress(ctx context.Context, accountID, addressID string, p AddressPatch) ([]Address, error)
	DeleteAddress(ctx context.Context, accountID, addressID string) ([]Address, error)

	// AddReward increments the account's balance, appends a RewardLog
	// entry, and returns the new balance.
	AddReward(ctx context.Context, accountID string, points int, activity string, metadata map[string]any) (int, error)
}
