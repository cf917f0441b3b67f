// Package session issues and verifies the bearer tokens presented on
// every authenticated request. Tokens are self-contained HS256 JWTs;
// there is no server-side session record and no revocation list, so a
// token stays valid until its own expiry.
package session

import (
	"errors"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/NixoNetwork/main/internal/store"
)

// TokenTTL is the fixed validity window of a session token.
const TokenTTL = 7 * 24 * time.Hour

// ErrInvalidToken covers malformed tokens, bad signatures, and expiry.
var ErrInvalidToken = errors.New("session: invalid token")

// NowFunc returns the current time. Overridable in tests.
var NowFunc = time.Now

// Claims is the verified identity carried by a session token.
type Claims struct {
	UserID string
	Name   string
	Email  string
}

// Issuer signs and verifies session tokens with a shared secret.
type Issuer struct {
	secret []byte
}

func NewIssuer(secret string) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("session: signing secret is required")
	}
	return &Issuer{secret: []byte(secret)}, nil
}

// Issue signs a fresh token for the account with the current field
// values. Re-issuing after a profile edit does not invalidate tokens
// issued earlier.
func (i *Issuer) Issue(a *store.Account) (string, error) {
	now := NowFunc()
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, jwtv5.MapClaims{
		"userId": a.ID,
		"name":   a.DisplayName,
		"email":  a.Email,
		"iat":    now.Unix(),
		"exp":    now.Add(TokenTTL).Unix(),
	})

	signed, err := tk.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("session: sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the embedded claims.
// It is pure: no store lookups, the signature is trusted exclusively.
func (i *Issuer) Verify(token string) (*Claims, error) {
	parser := jwtv5.NewParser(
		jwtv5.WithValidMethods([]string{"HS256"}),
		jwtv5.WithTimeFunc(func() time.Time { return NowFunc() }),
		jwtv5.WithExpirationRequired(),
	)

	tk, err := parser.Parse(token, func(t *jwtv5.Token) (any, error) {
		return i.secret, nil
	})
	if err != nil || !tk.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := tk.Claims.(jwtv5.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, _ := claims["userId"].(string)
	if userID == "" {
		return nil, ErrInvalidToken
	}
	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)

	return &Claims{UserID: userID, Name: name, Email: email}, nil
}
