package auth

// Identity represents a verified external authentication identity
// returned by a provider. It contains facts only, no decisions.
type Identity struct {
	Provider       string // e.g. "google", "twitter"
	ProviderUserID string // provider-scoped stable user identifier (sub)
	Email          string // email attributed to the user; may be synthesized
	DisplayName    string // profile name, if the provider furnishes one
}
