package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NixoNetwork/main/internal/auth/credentials"
	"github.com/NixoNetwork/main/internal/logger"
	"github.com/NixoNetwork/main/internal/metrics"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		fail(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	acct, err := h.credentials.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, credentials.ErrUserNotFound):
			metrics.LoginFailuresTotal.WithLabelValues("user_not_found").Inc()
			fail(c, http.StatusBadRequest, "User not found")
		case errors.Is(err, credentials.ErrWrongProvider):
			metrics.LoginFailuresTotal.WithLabelValues("wrong_provider").Inc()
			fail(c, http.StatusBadRequest, "Please log in with your provider")
		case errors.Is(err, credentials.ErrInvalidCredentials):
			metrics.LoginFailuresTotal.WithLabelValues("bad_credentials").Inc()
			fail(c, http.StatusBadRequest, "Invalid credentials")
		default:
			logger.Error("login failed", map[string]any{"error": err.Error()})
			fail(c, http.StatusInternalServerError, "Server error")
		}
		return
	}

	token, ok := h.issueSession(c, acct)
	if !ok {
		return
	}

	metrics.LoginsTotal.WithLabelValues("password").Inc()
	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"user":    userPayload(acct),
		"success": true,
	})
}
