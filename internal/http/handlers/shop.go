package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"towerdefense_backend/internal/domain"
	"towerdefense_backend/internal/economy"
	"towerdefense_backend/internal/monetization"
)

// Catalog returns the IAP products and loot box prices. Не требует auth.
func (h *Handler) Catalog(c *gin.Context) {
	products := make([]domain.Product, 0, len(domain.ProductCatalog))
	for _, p := range domain.ProductCatalog {
		products = append(products, p)
	}
	c.JSON(http.StatusOK, gin.H{
		"products":  products,
		"box_costs": domain.BoxCosts,
	})
}

type purchaseRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// Purchase applies a store-validated IAP bundle.
func (h *Handler) Purchase(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id required"})
		return
	}

	unlock := h.Locks.Lock(playerID)
	defer unlock()

	result, err := h.Monetization.Purchase(c.Request.Context(), playerID, req.ProductID, time.Now())
	if err != nil {
		if errors.Is(err, monetization.ErrUnknownProduct) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown product"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// OpenLootBox debits gems and grants a random tower card.
func (h *Handler) OpenLootBox(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	box := domain.BoxType(c.Param("type"))

	unlock := h.Locks.Lock(playerID)
	defer unlock()

	result, err := h.Monetization.OpenBox(c.Request.Context(), playerID, box)
	if err != nil {
		switch {
		case errors.Is(err, monetization.ErrUnknownBox):
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown box type"})
		case errors.Is(err, economy.ErrInsufficientGems):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "insufficient gems"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// AdReward resolves a completed rewarded ad.
func (h *Handler) AdReward(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	typ := domain.AdRewardType(c.Param("type"))

	unlock := h.Locks.Lock(playerID)
	defer unlock()

	result, err := h.Monetization.GrantAdReward(c.Request.Context(), playerID, typ, time.Now())
	if err != nil {
		if errors.Is(err, monetization.ErrAdsDisabled) {
			c.JSON(http.StatusConflict, gin.H{"error": "ads are disabled"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown ad reward"})
		return
	}

	c.JSON(http.StatusOK, result)
}
