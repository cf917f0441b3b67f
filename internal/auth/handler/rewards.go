package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NixoNetwork/main/internal/logger"
	"github.com/NixoNetwork/main/internal/store"
)

func (h *Handler) GetRewards(c *gin.Context) {
	acct, ok := h.currentAccount(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rewardPoints": acct.RewardPoints,
		"success":      true,
	})
}

type addRewardsRequest struct {
	Points   int            `json:"points"`
	Activity string         `json:"activity"`
	Metadata map[string]any `json:"metadata"`
}

// AddRewards increments the balance and appends an entry to the
// reward log.
func (h *Handler) AddRewards(c *gin.Context) {
	var req addRewardsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Points == 0 || req.Activity == "" {
		fail(c, http.StatusBadRequest, "Points and activity are required")
		return
	}

	acct, ok := h.currentAccount(c)
	if !ok {
		return
	}

	balance, err := h.store.AddReward(c.Request.Context(), acct.ID, req.Points, req.Activity, req.Metadata)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fail(c, http.StatusNotFound, "User not found")
			return
		}
		logger.Error("add reward failed", map[string]any{"error": err.Error()})
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rewardPoints": balance,
		"success":      true,
	})
}
