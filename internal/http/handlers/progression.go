package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"towerdefense_backend/internal/domain"
	"towerdefense_backend/internal/economy"
	"towerdefense_backend/internal/progression"
)

// Progression returns level, stats, achievements and the collection book.
func (h *Handler) GetProgression(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	unlock := h.Locks.Lock(playerID)
	defer unlock()

	level, err := h.Progression.Level(ctx, playerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	stats, err := h.Progression.Stats(ctx, playerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	achievements, err := h.Progression.Achievements(ctx, playerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	collection, err := h.Progression.Collection(ctx, playerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"level":        level,
		"xp_to_next":   progression.XPRequirement(level.Level),
		"stats":        stats,
		"achievements": achievements,
		"collection":   collection,
	})
}

// GetResearch returns the tree, points and the computed bonus table.
func (h *Handler) GetResearch(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	unlock := h.Locks.Lock(playerID)
	defer unlock()

	nodes, err := h.Progression.Research(ctx, playerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	points, err := h.Progression.ResearchPoints(ctx, playerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"nodes":   nodes,
		"points":  points,
		"bonuses": domain.ComputeResearchBonuses(nodes),
	})
}

// UpgradeResearch raises one node by a level.
func (h *Handler) UpgradeResearch(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	nodeID := c.Param("id")

	ctx := c.Request.Context()
	unlock := h.Locks.Lock(playerID)
	defer unlock()

	node, points, err := h.Progression.UpgradeResearch(ctx, playerID, nodeID)
	if err != nil {
		switch {
		case errors.Is(err, progression.ErrResearchUnknown):
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown research"})
		case errors.Is(err, progression.ErrResearchMaxed):
			c.JSON(http.StatusConflict, gin.H{"error": "research already at max level"})
		case errors.Is(err, progression.ErrResearchLocked):
			c.JSON(http.StatusForbidden, gin.H{"error": "player level too low"})
		case errors.Is(err, progression.ErrInsufficientResearch):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "not enough research points"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	// Квест "Upgrade research"
	if err := h.Quests.ApplyProgress(ctx, playerID, domain.QuestResearch, 1, time.Now()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"node": node, "points": points})
}

// GetCards returns the tower card collection.
func (h *Handler) GetCards(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	unlock := h.Locks.Lock(playerID)
	defer unlock()

	cards, err := h.Progression.Cards(c.Request.Context(), playerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"cards": cards})
}

// UpgradeCard spends copies and coins to level a tower card.
func (h *Handler) UpgradeCard(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	towerID := c.Param("id")

	unlock := h.Locks.Lock(playerID)
	defer unlock()

	card, err := h.Progression.UpgradeTowerCard(c.Request.Context(), playerID, towerID)
	if err != nil {
		switch {
		case errors.Is(err, progression.ErrCardUnknown):
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown tower"})
		case errors.Is(err, progression.ErrInsufficientCopies):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "not enough card copies"})
		case errors.Is(err, economy.ErrInsufficientCoins):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "not enough coins"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"card": card})
}
