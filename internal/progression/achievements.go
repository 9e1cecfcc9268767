package progression

import (
	"context"
	"errors"

	"towerdefense_backend/internal/domain"
	"towerdefense_backend/internal/store"
)

// Achievements returns the player's achievement list, defaults when unset.
func (s *Service) Achievements(ctx context.Context, playerID int64) ([]domain.Achievement, error) {
	var list []domain.Achievement
	err := store.GetJSON(ctx, s.store, playerID, keyAchievements, &list)
	if errors.Is(err, store.ErrNotFound) {
		return domain.DefaultAchievements(), nil
	}
	return list, err
}

// unlockAchievement latches one achievement and pays its reward. Returns
// true on the first unlock, false when already completed.
func (s *Service) unlockAchievement(ctx context.Context, playerID int64, id string) (bool, error) {
	list, err := s.Achievements(ctx, playerID)
	if err != nil {
		return false, err
	}
	for i := range list {
		if list[i].ID != id {
			continue
		}
		if list[i].Completed {
			return false, nil
		}
		list[i].Completed = true
		if err := store.SetJSON(ctx, s.store, playerID, keyAchievements, list); err != nil {
			return false, err
		}
		if list[i].Reward.Gems > 0 {
			if _, err := s.economy.CreditGems(ctx, playerID, list[i].Reward.Gems, "achievement"); err != nil {
				return false, err
			}
		}
		if list[i].Reward.Card != "" {
			tower := domain.RandomTower(s.rng, list[i].Reward.Card)
			if err := s.AddCard(ctx, playerID, tower, 1); err != nil {
				return false, err
			}
		}
		_ = s.tracker.Track(ctx, playerID, "", "achievement_unlocked", map[string]any{"achievement": id})
		return true, nil
	}
	return false, nil
}

// Collection - книга коллекций игрока
func (s *Service) Collection(ctx context.Context, playerID int64) (*domain.Collection, error) {
	var c domain.Collection
	err := store.GetJSON(ctx, s.store, playerID, keyCollection, &c)
	if errors.Is(err, store.ErrNotFound) {
		return domain.DefaultCollection(), nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Service) discoverTower(ctx context.Context, playerID int64, towerID string) error {
	c, err := s.Collection(ctx, playerID)
	if err != nil {
		return err
	}
	e, ok := c.Towers[towerID]
	if !ok {
		return nil
	}
	e.Discovered = true
	if err := store.SetJSON(ctx, s.store, playerID, keyCollection, c); err != nil {
		return err
	}
	return s.checkCollection(ctx, playerID, c)
}

func (s *Service) checkCollection(ctx context.Context, playerID int64, c *domain.Collection) error {
	if c.Complete() {
		if _, err := s.unlockAchievement(ctx, playerID, "collection_complete"); err != nil {
			return err
		}
	}
	return nil
}

// Stats - накопительная статистика
func (s *Service) Stats(ctx context.Context, playerID int64) (domain.PlayerStats, error) {
	var st domain.PlayerStats
	err := store.GetJSON(ctx, s.store, playerID, keyStats, &st)
	if errors.Is(err, store.ErrNotFound) {
		return domain.PlayerStats{}, nil
	}
	return st, err
}

// RecordEvent folds a client game event into lifetime stats, the
// collection book and one-shot achievements. Разблокировка ачивок идёт
// после записи батча: награда-карта сама пишет в коллекцию, и более
// ранний снимок её бы затёр.
func (s *Service) RecordEvent(ctx context.Context, playerID int64, ev domain.GameEvent) error {
	st, err := s.Stats(ctx, playerID)
	if err != nil {
		return err
	}
	c, err := s.Collection(ctx, playerID)
	if err != nil {
		return err
	}

	var unlocks []string
	switch ev.Name {
	case domain.EventEnemyKilled:
		st.TotalKills++
		if e, ok := c.Enemies[ev.EnemyType]; ok {
			e.Discovered = true
			e.Killed++
		}
		if t, ok := c.Towers[ev.TowerType]; ok {
			t.Kills++
		}
		unlocks = append(unlocks, "first_kill")
	case domain.EventBossKilled:
		st.BossesKilled++
		if e, ok := c.Enemies[ev.EnemyType]; ok {
			e.Discovered = true
			e.Killed++
		}
	case domain.EventTowerPlaced:
		st.TowersBuilt++
		if t, ok := c.Towers[ev.TowerType]; ok {
			t.Uses++
		}
		if s.allTowersUsed(c) {
			unlocks = append(unlocks, "tower_master")
		}
	case domain.EventTowerUpgraded:
		st.TowerUpgrades++
	case domain.EventWaveCompleted:
		st.TotalWavesCompleted++
		if ev.Wave > st.HighestWave {
			st.HighestWave = ev.Wave
		}
		for wave, id := range map[int64]string{10: "wave_10", 50: "wave_50", 100: "wave_100"} {
			if ev.Wave >= wave {
				unlocks = append(unlocks, id)
			}
		}
	case domain.EventPerfectWave:
		st.PerfectWaves++
		unlocks = append(unlocks, "perfect_wave")
	case domain.EventMoneyEarned:
		st.TotalMoneyEarned += ev.Amount
		if ev.Amount >= 10000 {
			unlocks = append(unlocks, "money_10k")
		}
	}

	if err := s.store.SetAll(ctx, playerID, map[string][]byte{
		keyStats:      store.Marshal(st),
		keyCollection: store.Marshal(c),
	}); err != nil {
		return err
	}

	for _, id := range unlocks {
		if _, err := s.unlockAchievement(ctx, playerID, id); err != nil {
			return err
		}
	}

	// Открытия врагов тоже могут закрыть книгу, перечитываем
	c, err = s.Collection(ctx, playerID)
	if err != nil {
		return err
	}
	return s.checkCollection(ctx, playerID, c)
}

func (s *Service) allTowersUsed(c *domain.Collection) bool {
	for _, t := range c.Towers {
		if t.Uses == 0 {
			return false
		}
	}
	return true
}
