package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type trackRequest struct {
	SessionID  string         `json:"session_id"`
	Name       string         `json:"name" binding:"required"`
	Properties map[string]any `json:"properties"`
}

// Track queues a client-side analytics event.
func (h *Handler) Track(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req trackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}

	unlock := h.Locks.Lock(playerID)
	defer unlock()

	if err := h.Tracker.Track(c.Request.Context(), playerID, req.SessionID, req.Name, req.Properties); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"queued": true})
}

// AnalyticsSummary returns the player's lifetime metric counters.
func (h *Handler) AnalyticsSummary(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	unlock := h.Locks.Lock(playerID)
	defer unlock()

	summary := make(map[string]int64)
	for _, name := range []string{"session_count", "ads_watched", "purchase_count"} {
		v, err := h.Tracker.Metric(ctx, playerID, name)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		summary[name] = v
	}

	c.JSON(http.StatusOK, gin.H{"metrics": summary})
}
