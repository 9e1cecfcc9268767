package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"towerdefense_backend/internal/quest"
)

// GetQuests returns today's daily quests, rotating them past midnight.
func (h *Handler) GetQuests(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	unlock := h.Locks.Lock(playerID)
	defer unlock()

	quests, err := h.Quests.Quests(c.Request.Context(), playerID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"quests": quests})
}

// ClaimQuest pays out a completed daily quest exactly once.
func (h *Handler) ClaimQuest(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	questID := c.Param("id")

	unlock := h.Locks.Lock(playerID)
	defer unlock()

	reward, err := h.Quests.ClaimReward(c.Request.Context(), playerID, questID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, quest.ErrQuestUnknown):
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown quest"})
		case errors.Is(err, quest.ErrQuestNotDone):
			c.JSON(http.StatusConflict, gin.H{"error": "quest not completed"})
		case errors.Is(err, quest.ErrAlreadyClaimed):
			c.JSON(http.StatusConflict, gin.H{"error": "reward already claimed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"reward": reward})
}

// GetBattlePass returns this season's pass with the reward track.
func (h *Handler) GetBattlePass(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	unlock := h.Locks.Lock(playerID)
	defer unlock()

	bp, err := h.Quests.BattlePass(c.Request.Context(), playerID, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"battle_pass": bp})
}
