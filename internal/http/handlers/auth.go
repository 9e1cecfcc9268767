package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"towerdefense_backend/internal/logger"
	"towerdefense_backend/internal/service"
)

type authRequest struct {
	DeviceID string `json:"device_id" binding:"required"`
}

// Auth exchanges a device id for a JWT, creating the player on first
// sight. Также засчитывает вход в серию логинов.
func (h *Handler) Auth(c *gin.Context) {
	var req authRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "device_id required"})
		return
	}

	ctx := c.Request.Context()
	playerID, err := h.Store.EnsurePlayer(ctx, req.DeviceID)
	if err != nil {
		logger.Error("auth: ensure player failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	token, err := service.GenerateJWT(playerID)
	if err != nil {
		logger.Error("auth: token generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	sessionID := uuid.NewString()
	now := time.Now()

	unlock := h.Locks.Lock(playerID)
	defer unlock()

	if err := h.Tracker.SessionStart(ctx, playerID, sessionID); err != nil {
		logger.Warn("auth: session tracking failed", "player_id", playerID, "error", err)
	}
	if err := h.Tracker.TrackFunnel(ctx, playerID, sessionID, "game_loaded"); err != nil {
		logger.Warn("auth: funnel tracking failed", "player_id", playerID, "error", err)
	}

	login, err := h.Monetization.RecordLogin(ctx, playerID, now)
	if err != nil {
		logger.Error("auth: login streak failed", "player_id", playerID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"player_id":  playerID,
		"session_id": sessionID,
		"login":      login,
	})
}
