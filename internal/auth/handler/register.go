package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NixoNetwork/main/internal/auth/credentials"
	"github.com/NixoNetwork/main/internal/logger"
	"github.com/NixoNetwork/main/internal/metrics"
)

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		fail(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	acct, err := h.credentials.Register(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, credentials.ErrAlreadyRegistered):
			fail(c, http.StatusBadRequest, "User already exists")
		case errors.Is(err, credentials.ErrPasswordTooShort):
			fail(c, http.StatusBadRequest, "Password must be at least 8 characters")
		default:
			logger.Error("registration failed", map[string]any{"error": err.Error()})
			fail(c, http.StatusInternalServerError, "Server error")
		}
		return
	}

	token, ok := h.issueSession(c, acct)
	if !ok {
		return
	}

	metrics.LoginsTotal.WithLabelValues("password").Inc()
	c.JSON(http.StatusCreated, gin.H{
		"token":   token,
		"user":    userPayload(acct),
		"success": true,
	})
}
