package resolver

import (
	"context"
	"errors"

	"github.com/NixoNetwork/main/internal/auth"
	"github.com/NixoNetwork/main/internal/store"
)

// StoreResolver implements find-or-update-or-create over the account
// store. Exactly one account exists per distinct email, no matter how
// many login methods are ever used against it.
type StoreResolver struct {
	store store.Store
}

func New(s store.Store) *StoreResolver {
	return &StoreResolver{store: s}
}

func (r *StoreResolver) Resolve(
	ctx context.Context,
	identity *auth.Identity,
) (*store.Account, error) {

	if identity == nil {
		return nil, errors.New("identity is nil")
	}

	email := store.NormalizeEmail(identity.Email)
	method := store.LoginMethod(identity.Provider)

	acct, err := r.store.GetAccountByEmail(ctx, email)

	if errors.Is(err, store.ErrNotFound) {
		created := &store.Account{
			Email:             email,
			DisplayName:       identity.DisplayName,
			LoginMethod:       method,
			ProviderSubjectID: identity.ProviderUserID,
		}
		err = r.store.CreateAccount(ctx, created)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, store.ErrDuplicateEmail) {
			return nil, err
		}
		// Lost a create race for the same email: the account exists
		// now, so retry as a link.
		acct, err = r.store.GetAccountByEmail(ctx, email)
	}

	if err != nil {
		return nil, err
	}

	// Idempotent re-login with the method already on record.
	if acct.LoginMethod == method {
		return acct, nil
	}

	// Account linking: same person, new login path. The password hash
	// is preserved so a later password login still works if the
	// account switches back.
	acct.LoginMethod = method
	acct.ProviderSubjectID = identity.ProviderUserID
	if acct.DisplayName == "" {
		acct.DisplayName = identity.DisplayName
	}

	if err := r.store.UpdateAccount(ctx, acct); err != nil {
		return nil, err
	}
	return acct, nil
}
