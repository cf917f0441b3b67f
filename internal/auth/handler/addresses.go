package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NixoNetwork/main/internal/logger"
	"github.com/NixoNetwork/main/internal/store"
)

type addAddressRequest struct {
	Type      string `json:"type"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
	IsDefault bool   `json:"isDefault"`
}

func (h *Handler) AddAddress(c *gin.Context) {
	var req addAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.Street == "" || req.City == "" || req.State == "" || req.ZipCode == "" || req.Country == "" {
		fail(c, http.StatusBadRequest, "All address fields are required")
		return
	}

	acct, ok := h.currentAccount(c)
	if !ok {
		return
	}

	if req.Type == "" {
		req.Type = "Home"
	}

	addrs, err := h.store.AddAddress(c.Request.Context(), acct.ID, store.Address{
		Type:      req.Type,
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		ZipCode:   req.ZipCode,
		Country:   req.Country,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		logger.Error("add address failed", map[string]any{"error": err.Error()})
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"addresses": addrs,
		"success":   true,
	})
}

type updateAddressRequest struct {
	Type      *string `json:"type"`
	Street    *string `json:"street"`
	City      *string `json:"city"`
	State     *string `json:"state"`
	ZipCode   *string `json:"zipCode"`
	Country   *string `json:"country"`
	IsDefault bool    `json:"isDefault"`
}

func (h *Handler) UpdateAddress(c *gin.Context) {
	var req updateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request")
		return
	}

	acct, ok := h.currentAccount(c)
	if !ok {
		return
	}

	addrs, err := h.store.UpdateAddress(c.Request.Context(), acct.ID, c.Param("addressId"), store.AddressPatch{
		Type:      req.Type,
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		ZipCode:   req.ZipCode,
		Country:   req.Country,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fail(c, http.StatusNotFound, "Address not found")
			return
		}
		logger.Error("update address failed", map[string]any{"error": err.Error()})
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"addresses": addrs,
		"success":   true,
	})
}

func (h *Handler) DeleteAddress(c *gin.Context) {
	acct, ok := h.currentAccount(c)
	if !ok {
		return
	}

	addrs, err := h.store.DeleteAddress(c.Request.Context(), acct.ID, c.Param("addressId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fail(c, http.StatusNotFound, "Address not found")
			return
		}
		logger.Error("delete address failed", map[string]any{"error": err.Error()})
		fail(c, http.StatusInternalServerError, "Server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"addresses": addrs,
		"success":   true,
	})
}
