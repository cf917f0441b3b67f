package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/NixoNetwork/main/internal/auth"
	"github.com/NixoNetwork/main/internal/auth/credentials"
	"github.com/NixoNetwork/main/internal/auth/provider"
	"github.com/NixoNetwork/main/internal/auth/resolver"
	"github.com/NixoNetwork/main/internal/middleware"
	"github.com/NixoNetwork/main/internal/session"
	"github.com/NixoNetwork/main/internal/statestore"
	"github.com/NixoNetwork/main/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeOAuthProvider stands in for the twitter provider so handshake
// tests run without a network.
type fakeOAuthProvider struct {
	identity     *auth.Identity
	exchangeErr  error
	lastCode     string
	lastVerifier string
}

func (f *fakeOAuthProvider) Name() string { return "twitter" }

func (f *fakeOAuthProvider) AuthCodeURL(state, codeChallenge string) string {
	return "https://provider.example/authorize?state=" + state + "&code_challenge=" + codeChallenge
}

func (f *fakeOAuthProvider) ExchangeCode(ctx context.Context, code, codeVerifier string) (*auth.Identity, error) {
	f.lastCode = code
	f.lastVerifier = codeVerifier
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return f.identity, nil
}

// fakeVerifier stands in for the google ID-token verifier.
type fakeVerifier struct {
	identity *auth.Identity
	err      error
}

func (f *fakeVerifier) VerifyIDToken(ctx context.Context, rawToken string) (*auth.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

type testEnv struct {
	router   *gin.Engine
	store    *store.Memory
	states   statestore.Store
	issuer   *session.Issuer
	provider *fakeOAuthProvider
	verifier *fakeVerifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mem := store.NewMemory()
	states := statestore.NewMemoryStore()

	issuer, err := session.NewIssuer("test-secret")
	require.NoError(t, err)

	fakeProvider := &fakeOAuthProvider{}
	verifier := &fakeVerifier{}

	h := NewHandler(
		provider.NewRegistry(fakeProvider),
		verifier,
		states,
		resolver.New(mem),
		credentials.NewService(mem),
		issuer,
		mem,
	)

	router := gin.New()
	h.RegisterRoutes(router)

	users := router.Group("/users")
	users.Use(middleware.NewAuthMiddleware(issuer).RequireAuth())
	h.RegisterUserRoutes(users)

	return &testEnv{
		router:   router,
		store:    mem,
		states:   states,
		issuer:   issuer,
		provider: fakeProvider,
		verifier: verifier,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var parsed map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	}
	return rec, parsed
}

// ----------------------------
// Twitter handshake
// ----------------------------

func TestTwitterHandshakeEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	env.provider.identity = &auth.Identity{
		Provider:       "twitter",
		ProviderUserID: "123",
		Email:          "bob@twitter.com",
		DisplayName:    "Bob",
	}

	rec, body := env.do(t, "POST", "/auth/twitter/init", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["success"])

	state, _ := body["state"].(string)
	require.NotEmpty(t, state)

	authURL, _ := body["authUrl"].(string)
	require.Contains(t, authURL, "state="+state)
	require.Contains(t, authURL, "code_challenge=")

	rec, body = env.do(t, "POST", "/auth/twitter/callback", "", gin.H{
		"code":  "auth-code-1",
		"state": state,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["success"])
	require.Equal(t, "auth-code-1", env.provider.lastCode)
	require.NotEmpty(t, env.provider.lastVerifier)

	user, _ := body["user"].(map[string]any)
	require.Equal(t, "bob@twitter.com", user["email"])
	require.Equal(t, "Bob", user["name"])

	token, _ := body["token"].(string)
	claims, err := env.issuer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "bob@twitter.com", claims.Email)

	acct, err := env.store.GetAccountByEmail(context.Background(), "bob@twitter.com")
	require.NoError(t, err)
	require.Equal(t, store.MethodTwitter, acct.LoginMethod)
	require.Equal(t, "123", acct.ProviderSubjectID)
}

func TestTwitterCallbackStateIsSingleUse(t *testing.T) {
	env := newTestEnv(t)
	env.provider.identity = &auth.Identity{
		Provider: "twitter", ProviderUserID: "123",
		Email: "bob@twitter.com", DisplayName: "Bob",
	}

	_, body := env.do(t, "POST", "/auth/twitter/init", "", nil)
	state := body["state"].(string)

	rec, _ := env.do(t, "POST", "/auth/twitter/callback", "", gin.H{"code": "c1", "state": state})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = env.do(t, "POST", "/auth/twitter/callback", "", gin.H{"code": "c1", "state": state})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid or expired state parameter", body["message"])
}

func TestTwitterCallbackUnknownState(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, "POST", "/auth/twitter/callback", "", gin.H{"code": "c1", "state": "forged"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid or expired state parameter", body["message"])
}

func TestTwitterCallbackStateConsumedEvenWhenExchangeFails(t *testing.T) {
	env := newTestEnv(t)
	env.provider.exchangeErr = errors.New("provider unreachable")

	_, body := env.do(t, "POST", "/auth/twitter/init", "", nil)
	state := body["state"].(string)

	rec, body := env.do(t, "POST", "/auth/twitter/callback", "", gin.H{"code": "c1", "state": state})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "Failed to complete Twitter authentication", body["message"])
	require.Contains(t, body["error"], "provider unreachable")

	// The transaction was consumed before the exchange, so a retry
	// cannot reuse the state.
	rec, body = env.do(t, "POST", "/auth/twitter/callback", "", gin.H{"code": "c1", "state": state})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid or expired state parameter", body["message"])
}

func TestTwitterCallbackMissingFields(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, "POST", "/auth/twitter/callback", "", gin.H{"code": "c1"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Code and state are required", body["message"])
}

// ----------------------------
// Password auth
// ----------------------------

func TestRegisterThenLogin(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, "POST", "/auth/register", "", gin.H{
		"email": "alice@x.com", "name": "Alice", "password": "hunter2secret",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, true, body["success"])
	require.NotEmpty(t, body["token"])

	// Unknown user.
	rec, body = env.do(t, "POST", "/auth/login", "", gin.H{
		"email": "nobody@x.com", "password": "hunter2secret",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "User not found", body["message"])

	// Wrong password.
	rec, body = env.do(t, "POST", "/auth/login", "", gin.H{
		"email": "alice@x.com", "password": "wrongwrong",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid credentials", body["message"])

	// Correct password.
	rec, body = env.do(t, "POST", "/auth/login", "", gin.H{
		"email": "alice@x.com", "password": "hunter2secret",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	claims, err := env.issuer.Verify(body["token"].(string))
	require.NoError(t, err)
	require.Equal(t, "alice@x.com", claims.Email)
	require.Equal(t, "Alice", claims.Name)
}

func TestRegisterDuplicateAndShortPassword(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, "POST", "/auth/register", "", gin.H{
		"email": "alice@x.com", "name": "Alice", "password": "hunter2secret",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := env.do(t, "POST", "/auth/register", "", gin.H{
		"email": "alice@x.com", "name": "Alice", "password": "hunter2secret",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "User already exists", body["message"])

	rec, body = env.do(t, "POST", "/auth/register", "", gin.H{
		"email": "short@x.com", "name": "S", "password": "short",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Password must be at least 8 characters", body["message"])
}

func TestLoginRejectsProviderAccount(t *testing.T) {
	env := newTestEnv(t)
	env.verifier.identity = &auth.Identity{
		Provider: "google", ProviderUserID: "g-1",
		Email: "carol@gmail.com", DisplayName: "Carol",
	}

	rec, _ := env.do(t, "POST", "/auth/google", "", gin.H{"token": "valid-id-token"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := env.do(t, "POST", "/auth/login", "", gin.H{
		"email": "carol@gmail.com", "password": "hunter2secret",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Please log in with your provider", body["message"])
}

// ----------------------------
// Google
// ----------------------------

func TestGoogleLoginCreatesAccount(t *testing.T) {
	env := newTestEnv(t)
	env.verifier.identity = &auth.Identity{
		Provider: "google", ProviderUserID: "g-1",
		Email: "carol@gmail.com", DisplayName: "Carol",
	}

	rec, body := env.do(t, "POST", "/auth/google", "", gin.H{"token": "valid-id-token"})
	require.Equal(t, http.StatusOK, rec.Code)

	user := body["user"].(map[string]any)
	require.Equal(t, "carol@gmail.com", user["email"])

	acct, err := env.store.GetAccountByEmail(context.Background(), "carol@gmail.com")
	require.NoError(t, err)
	require.Equal(t, store.MethodGoogle, acct.LoginMethod)
}

func TestGoogleLoginLinksPasswordAccount(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, "POST", "/auth/register", "", gin.H{
		"email": "carol@gmail.com", "name": "Carol W", "password": "hunter2secret",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	env.verifier.identity = &auth.Identity{
		Provider: "google", ProviderUserID: "g-1",
		Email: "carol@gmail.com", DisplayName: "Carol",
	}

	rec, _ = env.do(t, "POST", "/auth/google", "", gin.H{"token": "valid-id-token"})
	require.Equal(t, http.StatusOK, rec.Code)

	acct, err := env.store.GetAccountByEmail(context.Background(), "carol@gmail.com")
	require.NoError(t, err)
	require.Equal(t, store.MethodGoogle, acct.LoginMethod)
	require.Equal(t, "g-1", acct.ProviderSubjectID)
	require.Equal(t, "Carol W", acct.DisplayName)
	require.NotEmpty(t, acct.PasswordHash)
}

func TestGoogleLoginInvalidToken(t *testing.T) {
	env := newTestEnv(t)
	env.verifier.err = errors.New("signature mismatch")

	rec, body := env.do(t, "POST", "/auth/google", "", gin.H{"token": "bad-token"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Invalid Google token", body["message"])
}

// ----------------------------
// Check email
// ----------------------------

func TestCheckEmail(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, "POST", "/auth/check-email", "", gin.H{"email": "alice@x.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, false, body["exists"])

	_, _ = env.do(t, "POST", "/auth/register", "", gin.H{
		"email": "alice@x.com", "name": "Alice", "password": "hunter2secret",
	})

	rec, body = env.do(t, "POST", "/auth/check-email", "", gin.H{"email": "Alice@X.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["exists"])
}

// ----------------------------
// Protected portal routes
// ----------------------------

func registerAndToken(t *testing.T, env *testEnv) string {
	t.Helper()
	rec, body := env.do(t, "POST", "/auth/register", "", gin.H{
		"email": "alice@x.com", "name": "Alice", "password": "hunter2secret",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	return body["token"].(string)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, "GET", "/users/profile", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "No token provided", body["message"])

	rec, body = env.do(t, "GET", "/users/profile", "not-a-jwt", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Invalid token", body["message"])
}

func TestGetProfile(t *testing.T) {
	env := newTestEnv(t)
	token := registerAndToken(t, env)

	rec, body := env.do(t, "GET", "/users/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	user := body["user"].(map[string]any)
	require.Equal(t, "alice@x.com", user["email"])
	require.Equal(t, "Alice", user["name"])
	require.Equal(t, "password", user["provider"])
	require.Empty(t, user["addresses"])
}

func TestUpdateProfileReissuesToken(t *testing.T) {
	env := newTestEnv(t)
	token := registerAndToken(t, env)

	rec, body := env.do(t, "PUT", "/users/profile", token, gin.H{
		"name": "Alice Smith", "email": "alice.smith@x.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	newToken := body["token"].(string)
	require.NotEqual(t, token, newToken)

	claims, err := env.issuer.Verify(newToken)
	require.NoError(t, err)
	require.Equal(t, "alice.smith@x.com", claims.Email)
	require.Equal(t, "Alice Smith", claims.Name)

	// The old token still verifies; there is no revocation list.
	_, err = env.issuer.Verify(token)
	require.NoError(t, err)
}

func TestUpdateProfileEmailConflict(t *testing.T) {
	env := newTestEnv(t)
	token := registerAndToken(t, env)

	rec, _ := env.do(t, "POST", "/auth/register", "", gin.H{
		"email": "bob@x.com", "name": "Bob", "password": "hunter2secret",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := env.do(t, "PUT", "/users/profile", token, gin.H{"email": "bob@x.com"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Email is already in use", body["message"])
}

func TestAddressLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := registerAndToken(t, env)

	// Missing required fields.
	rec, body := env.do(t, "POST", "/users/addresses", token, gin.H{"street": "1 Main St"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "All address fields are required", body["message"])

	// First address defaults the type and the flag.
	rec, body = env.do(t, "POST", "/users/addresses", token, gin.H{
		"street": "1 Main St", "city": "Springfield", "state": "IL",
		"zipCode": "62701", "country": "US",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	addrs := body["addresses"].([]any)
	require.Len(t, addrs, 1)
	first := addrs[0].(map[string]any)
	require.Equal(t, "Home", first["type"])
	require.Equal(t, true, first["isDefault"])
	firstID := first["id"].(string)

	// Second address added as the new default.
	rec, body = env.do(t, "POST", "/users/addresses", token, gin.H{
		"type": "Work", "street": "2 Oak Ave", "city": "Springfield",
		"state": "IL", "zipCode": "62702", "country": "US", "isDefault": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	addrs = body["addresses"].([]any)
	require.Len(t, addrs, 2)

	var workID string
	for _, raw := range addrs {
		a := raw.(map[string]any)
		if a["type"] == "Work" {
			require.Equal(t, true, a["isDefault"])
			workID = a["id"].(string)
		} else {
			require.Equal(t, false, a["isDefault"])
		}
	}

	// Update against a bogus id.
	rec, body = env.do(t, "PUT", "/users/addresses/bogus", token, gin.H{"street": "x"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "Address not found", body["message"])

	// Delete the default; the remaining address is promoted.
	rec, body = env.do(t, "DELETE", "/users/addresses/"+workID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	addrs = body["addresses"].([]any)
	require.Len(t, addrs, 1)
	remaining := addrs[0].(map[string]any)
	require.Equal(t, firstID, remaining["id"])
	require.Equal(t, true, remaining["isDefault"])
}

func TestUpdateWallet(t *testing.T) {
	env := newTestEnv(t)
	token := registerAndToken(t, env)

	rec, body := env.do(t, "PUT", "/users/wallet", token, gin.H{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Wallet address is required", body["message"])

	rec, body = env.do(t, "PUT", "/users/wallet", token, gin.H{"walletAddress": "0xabc123"})
	require.Equal(t, http.StatusOK, rec.Code)

	user := body["user"].(map[string]any)
	require.Equal(t, "0xabc123", user["walletAddress"])
}

func TestRewards(t *testing.T) {
	env := newTestEnv(t)
	token := registerAndToken(t, env)

	rec, body := env.do(t, "GET", "/users/rewards", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(0), body["rewardPoints"])

	rec, body = env.do(t, "POST", "/users/rewards", token, gin.H{"points": 50})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Points and activity are required", body["message"])

	rec, body = env.do(t, "POST", "/users/rewards", token, gin.H{
		"points": 50, "activity": "signup",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(50), body["rewardPoints"])

	rec, body = env.do(t, "POST", "/users/rewards", token, gin.H{
		"points": 25, "activity": "purchase", "metadata": gin.H{"order": "o-1"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(75), body["rewardPoints"])

	rec, body = env.do(t, "GET", "/users/rewards", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(75), body["rewardPoints"])
}

// ----------------------------
// PKCE helpers
// ----------------------------

func TestCodeChallengeS256(t *testing.T) {
	// RFC 7636 appendix B reference vector.
	challenge := codeChallengeS256("dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk")
	require.Equal(t, "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM", challenge)

	v1 := generateCodeVerifier()
	v2 := generateCodeVerifier()
	require.Len(t, v1, 64)
	require.NotEqual(t, v1, v2)
}
