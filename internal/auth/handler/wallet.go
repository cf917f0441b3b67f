package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NixoNetwork/main/internal/logger"
)

type updateWalletRequest struct {
	WalletAddress string `json:"walletAddress"`
}

// UpdateWallet stores the connected wallet address. This is pure
// bookkeeping; no transaction logic lives anywhere in the service.
func (h *Handler) UpdateWallet(c *gin.Context) {
	var req updateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.WalletAddress == "" {
		fail(c, http.StatusBadRequest, "Wallet address is required")
		return
	}

	acct, ok := h.currentAccount(c)
	if !ok {
		return
	}

	acct.WalletAddress = req.WalletAddress
	if err := h.store.UpdateAccount(c.Request.Context(), acct); err != nil {
		logger.Error("wallet update failed", map[string]any{"error": err.Error()})
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}

	payload, err := h.profilePayload(c, acct)
	if err != nil {
		logger.Error("profile fetch failed", map[string]any{"error": err.Error()})
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    payload,
		"success": true,
	})
}
