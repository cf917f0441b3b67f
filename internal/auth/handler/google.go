package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NixoNetwork/main/internal/logger"
	"github.com/NixoNetwork/main/internal/metrics"
)

type googleRequest struct {
	Token string `json:"token"`
}

// Google handles the direct ID-token path: the client SDK already ran
// the sign-in flow and posts the provider-signed token for
// verification.
func (h *Handler) Google(c *gin.Context) {
	var req googleRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		fail(c, http.StatusBadRequest, "Token is required")
		return
	}

	identity, err := h.google.VerifyIDToken(c.Request.Context(), req.Token)
	if err != nil {
		logger.Warn("google token verification failed", map[string]any{
			"error": err.Error(),
		})
		metrics.LoginFailuresTotal.WithLabelValues("bad_id_token").Inc()
		fail(c, http.StatusUnauthorized, "Invalid Google token")
		return
	}

	acct, err := h.resolver.Resolve(c.Request.Context(), identity)
	if err != nil {
		logger.Error("failed to resolve google identity", map[string]any{
			"error": err.Error(),
		})
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}

	token, ok := h.issueSession(c, acct)
	if !ok {
		return
	}

	metrics.LoginsTotal.WithLabelValues("google").Inc()
	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"user":    userPayload(acct),
		"success": true,
	})
}
