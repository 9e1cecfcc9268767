package handlers

import (
	"context"
	"time"

	"towerdefense_backend/internal/logger"
)

// RunSweeps drives the periodic background work: life regeneration,
// daily quest rotation, VIP expiry, battle pass season rollover and the
// analytics heartbeat. Each pass takes the player lock the same way a
// request handler does.
func (h *Handler) RunSweeps(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			h.sweep(ctx, now)
		}
	}
}

func (h *Handler) sweep(ctx context.Context, now time.Time) {
	players, err := h.Store.Players(ctx)
	if err != nil {
		logger.Warn("sweep: player list failed", "error", err)
		return
	}

	for _, playerID := range players {
		if ctx.Err() != nil {
			return
		}
		h.sweepPlayer(ctx, playerID, now)
	}
}

func (h *Handler) sweepPlayer(ctx context.Context, playerID int64, now time.Time) {
	unlock := h.Locks.Lock(playerID)
	defer unlock()

	lives, err := h.Economy.RegenerateLives(ctx, playerID, now)
	if err != nil {
		logger.Warn("sweep: life regen failed", "player_id", playerID, "error", err)
		return
	}
	if err := h.Quests.CheckReset(ctx, playerID, now); err != nil {
		logger.Warn("sweep: quest reset failed", "player_id", playerID, "error", err)
		return
	}
	if _, _, err := h.Monetization.VIP(ctx, playerID, now); err != nil {
		logger.Warn("sweep: vip expiry failed", "player_id", playerID, "error", err)
		return
	}
	bp, err := h.Quests.BattlePass(ctx, playerID, now)
	if err != nil {
		logger.Warn("sweep: battle pass check failed", "player_id", playerID, "error", err)
		return
	}

	// Flush queued analytics and push a state snapshot to live clients.
	if h.Hub != nil && h.Hub.Connected(playerID) {
		if err := h.Tracker.Heartbeat(ctx, playerID, ""); err != nil {
			logger.Warn("sweep: heartbeat failed", "player_id", playerID, "error", err)
		}
		h.Hub.PushSnapshot(playerID, map[string]any{
			"lives":       lives,
			"battle_pass": bp,
			"server_time": now.UnixMilli(),
		})
	} else {
		if err := h.Tracker.Flush(ctx, playerID); err != nil {
			logger.Warn("sweep: analytics flush failed", "player_id", playerID, "error", err)
		}
	}
}
