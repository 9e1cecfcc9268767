package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"towerdefense_backend/internal/logger"
)

// Me returns the full player snapshot. Lives regenerate on read, VIP
// expiry is resolved on read.
func (h *Handler) Me(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	now := time.Now()

	unlock := h.Locks.Lock(playerID)
	defer unlock()

	gems, err := h.Economy.Gems(ctx, playerID)
	if err != nil {
		logger.Error("me: gems read failed", "player_id", playerID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	coins, err := h.Economy.Coins(ctx, playerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	lives, err := h.Economy.RegenerateLives(ctx, playerID, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	level, err := h.Progression.Level(ctx, playerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	points, err := h.Progression.ResearchPoints(ctx, playerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	vip, benefits, err := h.Monetization.VIP(ctx, playerID, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	bp, err := h.Quests.BattlePass(ctx, playerID, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	tutorialDone, err := h.Tutorial.Completed(ctx, playerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	adsEnabled, err := h.Monetization.AdsEnabled(ctx, playerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	// VIP daily gems выдаются при первом снапшоте за день
	dailyGems, err := h.Monetization.ClaimVIPDaily(ctx, playerID, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if dailyGems > 0 {
		gems += dailyGems
	}

	c.JSON(http.StatusOK, gin.H{
		"player_id":          playerID,
		"gems":               gems,
		"coins":              coins,
		"lives":              lives,
		"level":              level,
		"research_points":    points,
		"vip":                vip,
		"vip_benefits":       benefits,
		"vip_daily_gems":     dailyGems,
		"battle_pass":        bp,
		"tutorial_completed": tutorialDone,
		"ads_enabled":        adsEnabled,
	})
}
