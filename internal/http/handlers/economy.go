package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"towerdefense_backend/internal/economy"
)

// SpendLife consumes one life to start a game session.
func (h *Handler) SpendLife(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	unlock := h.Locks.Lock(playerID)
	defer unlock()

	lives, err := h.Economy.SpendLife(c.Request.Context(), playerID, time.Now())
	if err != nil {
		if errors.Is(err, economy.ErrNoLives) {
			c.JSON(http.StatusConflict, gin.H{"error": "no lives left", "lives": lives})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"lives": lives})
}

// RefillLives restores all lives for gems.
func (h *Handler) RefillLives(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	unlock := h.Locks.Lock(playerID)
	defer unlock()

	lives, err := h.Economy.RefillLives(c.Request.Context(), playerID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, economy.ErrLivesFull):
			c.JSON(http.StatusConflict, gin.H{"error": "lives already full", "lives": lives})
		case errors.Is(err, economy.ErrInsufficientGems):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "insufficient gems"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"lives": lives})
}
