package handlers

import (
	"math/rand"
	"time"

	"towerdefense_backend/internal/analytics"
	"towerdefense_backend/internal/config"
	"towerdefense_backend/internal/economy"
	"towerdefense_backend/internal/monetization"
	"towerdefense_backend/internal/progression"
	"towerdefense_backend/internal/quest"
	"towerdefense_backend/internal/store"
	"towerdefense_backend/internal/tutorial"
	"towerdefense_backend/internal/ws"
)

type Handler struct {
	Store store.Store
	Locks *store.PlayerLocks
	Hub   *ws.Hub

	Tracker      *analytics.Tracker
	Economy      *economy.Service
	Progression  *progression.Service
	Quests       *quest.Service
	Monetization *monetization.Service
	Tutorial     *tutorial.Service
}

// NewHandler wires the full service stack over one store.
func NewHandler(s store.Store, cfg *config.Config, deliverer analytics.Deliverer, hub *ws.Hub, rng *rand.Rand) *Handler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	tracker := analytics.NewTracker(s, deliverer)
	eco := economy.New(s, tracker, cfg.MaxLives, cfg.LifeRegenInterval, cfg.StartingGems)
	prog := progression.New(s, tracker, eco, rng)
	quests := quest.New(s, tracker, eco, prog, rng)
	monet := monetization.New(s, tracker, eco, prog, rng)
	monet.SetBattlePassActivator(quests)
	tut := tutorial.New(s, tracker, eco)

	return &Handler{
		Store:        s,
		Locks:        store.NewPlayerLocks(),
		Hub:          hub,
		Tracker:      tracker,
		Economy:      eco,
		Progression:  prog,
		Quests:       quests,
		Monetization: monet,
		Tutorial:     tut,
	}
}

// getPlayerID извлекает player_id из контекста Gin
func getPlayerID(c interface{ Get(string) (any, bool) }) (int64, bool) {
	idVal, ok := c.Get("player_id")
	if !ok {
		return 0, false
	}
	switch v := idVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
