package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"towerdefense_backend/internal/tutorial"
)

// GetTutorial returns the current tutorial state.
func (h *Handler) GetTutorial(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	unlock := h.Locks.Lock(playerID)
	defer unlock()

	st, err := h.Tutorial.State(c.Request.Context(), playerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, st)
}

type tutorialStartRequest struct {
	Force bool `json:"force"`
}

func (h *Handler) StartTutorial(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req tutorialStartRequest
	_ = c.ShouldBindJSON(&req)

	unlock := h.Locks.Lock(playerID)
	defer unlock()

	st, err := h.Tutorial.Start(c.Request.Context(), playerID, req.Force)
	if err != nil {
		if errors.Is(err, tutorial.ErrAlreadyCompleted) {
			c.JSON(http.StatusConflict, gin.H{"error": "tutorial already completed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, st)
}

type tutorialAdvanceRequest struct {
	Step string `json:"step" binding:"required"`
}

func (h *Handler) AdvanceTutorial(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req tutorialAdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "step required"})
		return
	}

	unlock := h.Locks.Lock(playerID)
	defer unlock()

	st, err := h.Tutorial.Advance(c.Request.Context(), playerID, req.Step)
	if err != nil {
		switch {
		case errors.Is(err, tutorial.ErrNotRunning):
			c.JSON(http.StatusConflict, gin.H{"error": "tutorial is not running"})
		case errors.Is(err, tutorial.ErrWrongStep):
			c.JSON(http.StatusConflict, gin.H{"error": "step mismatch"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, st)
}

func (h *Handler) SkipTutorial(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	unlock := h.Locks.Lock(playerID)
	defer unlock()

	st, err := h.Tutorial.Skip(c.Request.Context(), playerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, st)
}
