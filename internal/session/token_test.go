package session

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/NixoNetwork/main/internal/store"
)

func testAccount() *store.Account {
	return &store.Account{
		ID:          "acct-1",
		Email:       "alice@x.com",
		DisplayName: "Alice",
		LoginMethod: store.MethodPassword,
	}
}

func TestIssueAndVerifyRoundtrip(t *testing.T) {
	issuer, err := NewIssuer("test-secret")
	require.NoError(t, err)

	token, err := issuer.Issue(testAccount())
	require.NoError(t, err)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "acct-1", claims.UserID)
	require.Equal(t, "Alice", claims.Name)
	require.Equal(t, "alice@x.com", claims.Email)
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	issuer, err := NewIssuer("test-secret")
	require.NoError(t, err)

	token, err := issuer.Issue(testAccount())
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + "AAAA" + parts[2][4:]

	_, err = issuer.Verify(tampered)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer, err := NewIssuer("secret-a")
	require.NoError(t, err)
	other, err := NewIssuer("secret-b")
	require.NoError(t, err)

	token, err := issuer.Issue(testAccount())
	require.NoError(t, err)

	_, err = other.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuer, err := NewIssuer("test-secret")
	require.NoError(t, err)

	base := time.Now()
	NowFunc = func() time.Time { return base }
	defer func() { NowFunc = time.Now }()

	token, err := issuer.Issue(testAccount())
	require.NoError(t, err)

	// Still valid just inside the window.
	NowFunc = func() time.Time { return base.Add(TokenTTL - time.Minute) }
	_, err = issuer.Verify(token)
	require.NoError(t, err)

	// Rejected once the window has elapsed.
	NowFunc = func() time.Time { return base.Add(TokenTTL + time.Minute) }
	_, err = issuer.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	issuer, err := NewIssuer("test-secret")
	require.NoError(t, err)

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := issuer.Verify(tok)
		require.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestNewIssuerRequiresSecret(t *testing.T) {
	_, err := NewIssuer("")
	require.Error(t, err)
}
