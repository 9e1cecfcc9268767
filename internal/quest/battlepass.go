package quest

import (
	"context"
	"errors"
	"time"

	"towerdefense_backend/internal/domain"
	"towerdefense_backend/internal/store"
)

var ErrPassAlreadyActive = errors.New("premium pass already active")

// BattlePass returns the player's pass for the current season, creating
// season 1 on first read and rolling over when the season has expired.
// Premium rewards are forfeited at rollover; накопленный прогресс сгорает.
func (s *Service) BattlePass(ctx context.Context, playerID int64, now time.Time) (*domain.BattlePass, error) {
	var bp domain.BattlePass
	err := store.GetJSON(ctx, s.store, playerID, keyBattlePass, &bp)
	if errors.Is(err, store.ErrNotFound) {
		fresh := domain.NewBattlePass(s.rng, 1, now)
		return fresh, store.SetJSON(ctx, s.store, playerID, keyBattlePass, fresh)
	}
	if err != nil {
		return nil, err
	}
	if now.UnixMilli() >= bp.EndDate {
		fresh := domain.NewBattlePass(s.rng, bp.Season+1, now)
		_ = s.tracker.Track(ctx, playerID, "", "battlepass_season_rolled", map[string]any{"season": fresh.Season})
		return fresh, store.SetJSON(ctx, s.store, playerID, keyBattlePass, fresh)
	}
	return &bp, nil
}

// ActivatePremium unlocks the premium reward track for this season.
// Уже взятые тиры задним числом не выплачиваются.
func (s *Service) ActivatePremium(ctx context.Context, playerID int64, now time.Time) (*domain.BattlePass, error) {
	bp, err := s.BattlePass(ctx, playerID, now)
	if err != nil {
		return nil, err
	}
	if bp.Active {
		return nil, ErrPassAlreadyActive
	}
	bp.Active = true
	if err := store.SetJSON(ctx, s.store, playerID, keyBattlePass, bp); err != nil {
		return nil, err
	}
	_ = s.tracker.Track(ctx, playerID, "", "battlepass_activated", map[string]any{"season": bp.Season})
	return bp, nil
}

// AddBattlePassXP accrues season XP and resolves tier-ups. Every tier
// costs a fixed 1000 XP. Пока пасс не активирован, XP не копится:
// весь метод - no-op.
func (s *Service) AddBattlePassXP(ctx context.Context, playerID int64, amount int64, now time.Time) (*domain.BattlePass, []domain.TierReward, error) {
	bp, err := s.BattlePass(ctx, playerID, now)
	if err != nil {
		return nil, nil, err
	}
	if !bp.Active || amount <= 0 || bp.Tier >= domain.BattlePassMaxTier {
		return bp, nil, nil
	}
	bp.XP += amount

	var granted []domain.TierReward
	for bp.Tier < domain.BattlePassMaxTier && bp.XP >= domain.BattlePassXPPerTier {
		bp.XP -= domain.BattlePassXPPerTier
		bp.Tier++
		r := bp.Rewards[bp.Tier-1]
		if err := s.grantTierReward(ctx, playerID, r); err != nil {
			return nil, nil, err
		}
		granted = append(granted, r)
	}
	if bp.Tier >= domain.BattlePassMaxTier {
		bp.XP = 0
	}
	if err := store.SetJSON(ctx, s.store, playerID, keyBattlePass, bp); err != nil {
		return nil, nil, err
	}
	for _, r := range granted {
		_ = s.tracker.Track(ctx, playerID, "", "battlepass_tier_up", map[string]any{"tier": r.Tier, "season": bp.Season})
	}
	return bp, granted, nil
}

func (s *Service) grantTierReward(ctx context.Context, playerID int64, r domain.TierReward) error {
	if r.FreeCoins > 0 {
		if _, err := s.economy.CreditCoins(ctx, playerID, r.FreeCoins); err != nil {
			return err
		}
	}
	if r.PremiumGems > 0 {
		if _, err := s.economy.CreditGems(ctx, playerID, r.PremiumGems, "battlepass"); err != nil {
			return err
		}
	}
	if r.PremiumTower != "" {
		tower := domain.RandomTower(s.rng, r.PremiumTower)
		if err := s.progression.AddCard(ctx, playerID, tower, 1); err != nil {
			return err
		}
	}
	return nil
}
