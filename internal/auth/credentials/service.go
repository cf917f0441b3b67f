package credentials

import (
	"context"
	"errors"

	"github.com/NixoNetwork/main/internal/store"
)

var (
	// ErrUserNotFound means no account exists for the email.
	ErrUserNotFound = errors.New("user not found")

	// ErrWrongProvider means the account's authoritative login method
	// is not password; the caller should log in with that provider.
	ErrWrongProvider = errors.New("account uses a different login method")

	// ErrInvalidCredentials means the password did not match.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAlreadyRegistered means the email is already taken.
	ErrAlreadyRegistered = errors.New("user already exists")
)

// Service handles password-based registration and login against the
// account store.
type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// Register creates a new password account. The unique email index
// guards against a racing duplicate create.
func (s *Service) Register(
	ctx context.Context,
	email string,
	name string,
	password string,
) (*store.Account, error) {

	email = store.NormalizeEmail(email)

	_, err := s.store.GetAccountByEmail(ctx, email)
	if err == nil {
		return nil, ErrAlreadyRegistered
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	acct := &store.Account{
		Email:        email,
		DisplayName:  name,
		LoginMethod:  store.MethodPassword,
		PasswordHash: hash,
	}
	if err := s.store.CreateAccount(ctx, acct); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, ErrAlreadyRegistered
		}
		return nil, err
	}
	return acct, nil
}

// Authenticate verifies a password login. An account whose login
// method is not password is rejected even if a hash happens to be
// set, so a linked provider account cannot be entered by password.
func (s *Service) Authenticate(
	ctx context.Context,
	email string,
	password string,
) (*store.Account, error) {

	acct, err := s.store.GetAccountByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if acct.LoginMethod != store.MethodPassword || acct.PasswordHash == "" {
		return nil, ErrWrongProvider
	}

	if err := VerifyPassword(acct.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return acct, nil
}
