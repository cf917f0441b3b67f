// Package statestore holds short-lived, single-use authorization
// transactions for the OAuth handshake: state token -> PKCE code
// verifier. Entries are consumed exactly once and expire after 30
// minutes whether or not they were purged.
package statestore

import (
	"context"
	"errors"
	"time"
)

// TTL is the window inside which a pending authorization transaction
// may be completed.
const TTL = 30 * time.Minute

// ErrNotFound covers every invalid take: unknown state, already
// consumed, or past the expiry window.
var ErrNotFound = errors.New("statestore: state not found or expired")

// Transaction is one in-flight handshake.
type Transaction struct {
	CodeVerifier string    `json:"codeVerifier"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Store is the transaction store. Process-local only works for a
// single instance; scaled deployments need the redis implementation so
// init and callback requests can land on different instances.
type Store interface {
	// Put records a new pending transaction under state.
	Put(ctx context.Context, state, codeVerifier string) error

	// TakeIfValid atomically consumes the transaction and returns its
	// code verifier. Concurrent callers racing on the same state get
	// at most one success; the rest see ErrNotFound. Expiry is checked
	// logically at read time.
	TakeIfValid(ctx context.Context, state string) (string, error)
}

// NowFunc returns the current time. Overridable in tests.
var NowFunc = time.Now
