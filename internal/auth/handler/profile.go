package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NixoNetwork/main/internal/logger"
	"github.com/NixoNetwork/main/internal/middleware"
	"github.com/NixoNetwork/main/internal/store"
)

// profilePayload is the full account view returned by the portal
// endpoints, address book included.
func (h *Handler) profilePayload(c *gin.Context, a *store.Account) (gin.H, error) {
	addrs, err := h.store.ListAddresses(c.Request.Context(), a.ID)
	if err != nil {
		return nil, err
	}
	return gin.H{
		"id":            a.ID,
		"name":          a.DisplayName,
		"email":         a.Email,
		"addresses":     addrs,
		"walletAddress": a.WalletAddress,
		"provider":      a.LoginMethod,
	}, nil
}

func (h *Handler) currentAccount(c *gin.Context) (*store.Account, bool) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "No token provided")
		return nil, false
	}

	acct, err := h.store.GetAccountByID(c.Request.Context(), claims.UserID)
	if errors.Is(err, store.ErrNotFound) {
		fail(c, http.StatusNotFound, "User not found")
		return nil, false
	}
	if err != nil {
		logger.Error("account lookup failed", map[string]any{"error": err.Error()})
		fail(c, http.StatusInternalServerError, "Server error")
		return nil, false
	}
	return acct, true
}

func (h *Handler) GetProfile(c *gin.Context) {
	acct, ok := h.currentAccount(c)
	if !ok {
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

type updateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateProfile updates name and/or email and re-issues the session
// token with the new claims. Tokens issued earlier stay valid until
// their own expiry.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request")
		return
	}

	acct, ok := h.currentAccount(c)
	if !ok {
		return
	}

	if req.Name != "" {
		acct.DisplayName = req.Name
	}
	if req.Email != "" {
		acct.Email = store.NormalizeEmail(req.Email)
	}

	if err := h.store.UpdateAccount(c.Request.Context(), acct); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			fail(c, http.StatusBadRequest, "Email is already in use")
			return
		}
		logger.Error("profile update failed", map[string]any{"error": err.Error()})
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}

	token, ok := h.issueSession(c, acct)
	if !ok {
		return
	}

	payload, err := h.profilePayload(c, acct)
	if err != nil {
		logger.Error("profile fetch failed", map[string]any{"error": err.Error()})
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"user":    payload,
		"success": true,
	})
}
