package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NixoNetwork/main/internal/logger"
	"github.com/NixoNetwork/main/internal/metrics"
	"github.com/NixoNetwork/main/internal/statestore"
)

// TwitterInit begins the PKCE handshake: it generates the state and
// code verifier, stores the pending transaction, and hands the client
// the provider authorization URL. The state is returned too so the
// client can cross-check it on callback.
func (h *Handler) TwitterInit(c *gin.Context) {
	p, err := h.providers.Get("twitter")
	if err != nil {
		fail(c, http.StatusBadRequest, "Unknown oauth provider")
		return
	}

	state := generateState()
	verifier := generateCodeVerifier()

	if err := h.states.Put(c.Request.Context(), state, verifier); err != nil {
		logger.Error("failed to store authorization transaction", map[string]any{
			"error": err.Error(),
		})
		fail(c, http.StatusInternalServerError, "Failed to initialize Twitter authentication")
		return
	}

	authURL := p.AuthCodeURL(state, codeChallengeS256(verifier))

	metrics.HandshakesStartedTotal.Inc()
	c.JSON(http.StatusOK, gin.H{
		"authUrl": authURL,
		"state":   state,
		"success": true,
	})
}

type twitterCallbackRequest struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

// TwitterCallback completes the handshake. The state is consumed
// before any network call so it stays single-use even under retries;
// a retried callback with the same state fails cleanly and the client
// must start over with init.
func (h *Handler) TwitterCallback(c *gin.Context) {
	var req twitterCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" || req.State == "" {
		fail(c, http.StatusBadRequest, "Code and state are required")
		return
	}

	p, err := h.providers.Get("twitter")
	if err != nil {
		fail(c, http.StatusBadRequest, "Unknown oauth provider")
		return
	}

	verifier, err := h.states.TakeIfValid(c.Request.Context(), req.State)
	if err != nil {
		if errors.Is(err, statestore.ErrNotFound) {
			metrics.HandshakeFailuresTotal.WithLabelValues("state").Inc()
			fail(c, http.StatusBadRequest, "Invalid or expired state parameter")
			return
		}
		logger.Error("state store read failed", map[string]any{"error": err.Error()})
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}

	identity, err := p.ExchangeCode(c.Request.Context(), req.Code, verifier)
	if err != nil {
		logger.Error("twitter auth callback failed", map[string]any{
			"error": err.Error(),
		})
		metrics.HandshakeFailuresTotal.WithLabelValues("exchange").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Failed to complete Twitter authentication",
			"error":   err.Error(),
			"success": false,
		})
		return
	}

	acct, err := h.resolver.Resolve(c.Request.Context(), identity)
	if err != nil {
		logger.Error("failed to resolve twitter identity", map[string]any{
			"error": err.Error(),
		})
		metrics.HandshakeFailuresTotal.WithLabelValues("resolve").Inc()
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}

	token, ok := h.issueSession(c, acct)
	if !ok {
		return
	}

	metrics.LoginsTotal.WithLabelValues("twitter").Inc()
	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"user":    userPayload(acct),
		"success": true,
	})
}
