package handlers

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"towerdefense_backend/internal/domain"
	"towerdefense_backend/internal/logger"
)

// baseXP per game event; money events earn XP through quests instead.
var baseXP = map[string]int64{
	domain.EventEnemyKilled:   2,
	domain.EventTowerUpgraded: 5,
	domain.EventWaveCompleted: 25,
	domain.EventPerfectWave:   50,
	domain.EventBossKilled:    100,
}

// questTypeForEvent maps game events onto daily quest counters.
var questTypeForEvent = map[string]domain.QuestType{
	domain.EventEnemyKilled:   domain.QuestKills,
	domain.EventWaveCompleted: domain.QuestWaves,
	domain.EventTowerPlaced:   domain.QuestTowers,
	domain.EventMoneyEarned:   domain.QuestMoney,
	domain.EventTowerUpgraded: domain.QuestUpgrades,
	domain.EventBossKilled:    domain.QuestBoss,
	domain.EventPerfectWave:   domain.QuestPerfect,
}

type eventRequest struct {
	domain.GameEvent
	SessionID string `json:"session_id"`
}

// Event ingests one game event: lifetime stats, achievements, daily quest
// progress, player XP (with the VIP multiplier) and battle pass XP.
func (h *Handler) Event(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event name required"})
		return
	}

	ctx := c.Request.Context()
	now := time.Now()

	unlock := h.Locks.Lock(playerID)
	defer unlock()

	if err := h.Progression.RecordEvent(ctx, playerID, req.GameEvent); err != nil {
		logger.Error("event: stats update failed", "player_id", playerID, "event", req.Name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	// Квесты
	if qt, ok := questTypeForEvent[req.Name]; ok {
		amount := int64(1)
		if qt == domain.QuestKills || qt == domain.QuestMoney {
			amount = req.Amount
			if amount <= 0 {
				amount = 1
			}
		}
		if err := h.Quests.ApplyProgress(ctx, playerID, qt, amount, now); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
	}

	// XP c учётом VIP-множителя
	xp := baseXP[req.Name]
	_, benefits, err := h.Monetization.VIP(ctx, playerID, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	xp = int64(math.Floor(float64(xp) * benefits.XPMultiplier))

	var levelUps []any
	var level any
	if xp > 0 {
		pl, rewards, err := h.Progression.AwardXP(ctx, playerID, xp)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		level = pl
		for _, r := range rewards {
			levelUps = append(levelUps, r)
		}
		if _, _, err := h.Quests.AddBattlePassXP(ctx, playerID, xp, now); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
	}

	if req.Name == domain.EventWaveCompleted {
		if err := h.Tracker.TrackFunnel(ctx, playerID, req.SessionID, "first_wave_completed"); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if req.Wave >= 10 {
			if err := h.Tracker.TrackFunnel(ctx, playerID, req.SessionID, "wave_10_reached"); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
				return
			}
		}
	}
	if req.Name == domain.EventTowerUpgraded {
		if err := h.Tracker.TrackFunnel(ctx, playerID, req.SessionID, "first_tower_upgraded"); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"xp_awarded":    xp,
		"xp_multiplier": benefits.XPMultiplier,
		"level":         level,
		"level_rewards": levelUps,
	})
}
