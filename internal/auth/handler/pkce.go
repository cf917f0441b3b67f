package handler

import (
	"crypto/sha256"
	"encoding/base64"

	"github.com/NixoNetwork/main/internal/utils"
)

// generateCodeVerifier returns fresh PKCE proof material: 32 random
// bytes, hex encoded. The verifier is only ever sent to the provider
// during code exchange; until then the provider sees just the hash.
func generateCodeVerifier() string {
	return utils.RandomHex(32)
}

// codeChallengeS256 derives the code_challenge for the authorization
// request: base64url(sha256(verifier)) with padding stripped.
func codeChallengeS256(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}
