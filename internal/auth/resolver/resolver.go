package resolver

import (
	"context"

	"github.com/NixoNetwork/main/internal/auth"
	"github.com/NixoNetwork/main/internal/store"
)

// Resolver determines which account an external identity belongs to.
// It is the ONLY place where identity-to-account mapping logic lives.
type Resolver interface {
	Resolve(ctx context.Context, identity *auth.Identity) (*store.Account, error)
}
