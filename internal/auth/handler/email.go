package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NixoNetwork/main/internal/logger"
	"github.com/NixoNetwork/main/internal/store"
)

type checkEmailRequest struct {
	Email string `json:"email"`
}

func (h *Handler) CheckEmail(c *gin.Context) {
	var req checkEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		fail(c, http.StatusBadRequest, "Email is required")
		return
	}

	_, err := h.store.GetAccountByEmail(c.Request.Context(), req.Email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		logger.Error("check email failed", map[string]any{"error": err.Error()})
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"exists":  err == nil,
		"success": true,
	})
}
