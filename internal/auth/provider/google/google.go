// Package google verifies Google-issued ID tokens passed directly
// from the client SDK. There is no server-driven code flow here: the
// client obtains the token and posts it to /auth/google.
package google

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/NixoNetwork/main/internal/auth"
)

const providerName = "google"

// Verifier validates Google ID tokens against Google's published keys
// and the configured client id (audience).
type Verifier struct {
	verifier *oidc.IDTokenVerifier
}

func New(ctx context.Context, clientID string) (*Verifier, error) {
	if clientID == "" {
		return nil, errors.New("google client id is required")
	}

	oidcProvider, err := oidc.NewProvider(ctx, "https://accounts.google.com")
	if err != nil {
		return nil, fmt.Errorf("failed to init google oidc provider: %w", err)
	}

	return &Verifier{
		verifier: oidcProvider.Verifier(&oidc.Config{
			ClientID: clientID,
		}),
	}, nil
}

// Name returns the provider identifier.
func (v *Verifier) Name() string {
	return providerName
}

// VerifyIDToken cryptographically verifies the token and extracts the
// identity facts. Signature, issuer, audience, and expiry are all
// enforced by the underlying oidc verifier.
func (v *Verifier) VerifyIDToken(ctx context.Context, rawToken string) (*auth.Identity, error) {
	idToken, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("google id_token verification failed: %w", err)
	}

	var claims struct {
		Subject string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("google id_token claims parse failed: %w", err)
	}

	if claims.Subject == "" || claims.Email == "" {
		return nil, errors.New("google id_token missing required claims")
	}

	return &auth.Identity{
		Provider:       providerName,
		ProviderUserID: claims.Subject,
		Email:          claims.Email,
		DisplayName:    claims.Name,
	}, nil
}
