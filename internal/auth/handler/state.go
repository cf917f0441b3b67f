package handler

import (
	"github.com/NixoNetwork/main/internal/utils"
)

// generateState returns an unguessable anti-forgery token: 16 random
// bytes, hex encoded. It correlates the callback with the pending
// transaction in the state store.
func generateState() string {
	return utils.RandomHex(16)
}
