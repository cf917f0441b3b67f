// Package twitter implements OAuth 2.0 with PKCE against the X/Twitter
// v2 API. Twitter issues no ID token, so a separate call to /2/users/me
// is required to fetch the profile. No email is furnished at all; a
// deterministic placeholder is synthesized from the username.
package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/NixoNetwork/main/internal/auth"
)

const providerName = "twitter"

// Endpoints are vars so tests can point them at a stub server.
var (
	authEndpoint  = "https://twitter.com/i/oauth2/authorize"
	tokenEndpoint = "https://api.twitter.com/2/oauth2/token"
	userEndpoint  = "https://api.twitter.com/2/users/me"
)

type Provider struct {
	oauthConfig *oauth2.Config
	http        *http.Client
}

func New(clientID, clientSecret, redirectURL string) (*Provider, error) {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("twitter oauth config missing required fields")
	}

	oauthCfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:  authEndpoint,
			TokenURL: tokenEndpoint,
			// Twitter wants client credentials as basic auth on the
			// token endpoint.
			AuthStyle: oauth2.AuthStyleInHeader,
		},
		Scopes: []string{"tweet.read", "users.read", "offline.access"},
	}

	return &Provider{
		oauthConfig: oauthCfg,
		http:        &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Name returns the provider identifier used by the registry.
func (p *Provider) Name() string {
	return providerName
}

// AuthCodeURL builds the OAuth authorization URL with PKCE parameters.
func (p *Provider) AuthCodeURL(state string, codeChallenge string) string {
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

type profileResponse struct {
	Data struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Username string `json:"username"`
	} `json:"data"`
}

// ExchangeCode exchanges the authorization code for an access token,
// fetches the profile, and returns a normalized identity.
func (p *Provider) ExchangeCode(
	ctx context.Context,
	code string,
	codeVerifier string,
) (*auth.Identity, error) {

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.http)

	token, err := p.oauthConfig.Exchange(
		ctx,
		code,
		oauth2.SetAuthURLParam("code_verifier", codeVerifier),
	)
	if err != nil {
		return nil, fmt.Errorf("twitter token exchange failed: %w", err)
	}

	profile, err := p.fetchProfile(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}

	if profile.Data.ID == "" || profile.Data.Username == "" {
		return nil, errors.New("twitter profile missing id or username")
	}

	// Twitter OAuth 2.0 does not expose the user's email, so the
	// username stands in as a deterministic placeholder address.
	return &auth.Identity{
		Provider:       providerName,
		ProviderUserID: profile.Data.ID,
		Email:          profile.Data.Username + "@twitter.com",
		DisplayName:    profile.Data.Name,
	}, nil
}

func (p *Provider) fetchProfile(ctx context.Context, accessToken string) (*profileResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", userEndpoint+"?user.fields=name,username", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("twitter profile fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("twitter profile fetch failed: status %d", resp.StatusCode)
	}

	var profile profileResponse
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("twitter profile decode failed: %w", err)
	}
	return &profile, nil
}
