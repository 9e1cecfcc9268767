package progression

import (
	"context"
	"errors"
	"math"
	"math/rand"

	"towerdefense_backend/internal/analytics"
	"towerdefense_backend/internal/domain"
	"towerdefense_backend/internal/economy"
	"towerdefense_backend/internal/store"
)

const (
	keyLevel          = "player_level"
	keyResearch       = "research"
	keyResearchPoints = "research_points"
	keyCards          = "tower_cards"
	keyAchievements   = "achievements"
	keyCollection     = "collection"
	keyStats          = "player_stats"

	MaxLevel = 100
)

// PlayerLevel - уровень и прогресс опыта
type PlayerLevel struct {
	Level   int   `json:"level"`
	XP      int64 `json:"xp"`
	TotalXP int64 `json:"total_xp"`
}

// LevelReward - что выдали за один взятый уровень
type LevelReward struct {
	Level          int      `json:"level"`
	Gems           int64    `json:"gems"`
	Coins          int64    `json:"coins"`
	ResearchPoints int      `json:"research_points"`
	BoxOpened      string   `json:"box_opened,omitempty"`
	CardsGranted   []string `json:"cards_granted,omitempty"`
}

// Service owns player levels, the research tree, the card collection,
// achievements and lifetime stats. Callers hold the player lock.
type Service struct {
	store   store.Store
	tracker *analytics.Tracker
	economy *economy.Service
	rng     *rand.Rand
}

func New(s store.Store, tr *analytics.Tracker, eco *economy.Service, rng *rand.Rand) *Service {
	return &Service{store: s, tracker: tr, economy: eco, rng: rng}
}

// XPRequirement - опыт до следующего уровня
func XPRequirement(level int) int64 {
	return int64(math.Floor(100 * math.Pow(float64(level), 1.5)))
}

// Level returns the player's level record, starting at level 1.
func (s *Service) Level(ctx context.Context, playerID int64) (PlayerLevel, error) {
	var pl PlayerLevel
	err := store.GetJSON(ctx, s.store, playerID, keyLevel, &pl)
	if errors.Is(err, store.ErrNotFound) {
		return PlayerLevel{Level: 1}, nil
	}
	return pl, err
}

// AwardXP adds experience and resolves any level-ups, granting the
// per-level rewards. Leftover XP always stays below the next requirement.
func (s *Service) AwardXP(ctx context.Context, playerID int64, amount int64) (PlayerLevel, []LevelReward, error) {
	if amount < 0 {
		amount = 0
	}
	pl, err := s.Level(ctx, playerID)
	if err != nil {
		return PlayerLevel{}, nil, err
	}
	pl.XP += amount
	pl.TotalXP += amount

	var rewards []LevelReward
	for pl.Level < MaxLevel {
		need := XPRequirement(pl.Level)
		if pl.XP < need {
			break
		}
		pl.XP -= need
		pl.Level++
		rw, err := s.grantLevelReward(ctx, playerID, pl.Level)
		if err != nil {
			return PlayerLevel{}, nil, err
		}
		rewards = append(rewards, rw)
	}
	if pl.Level >= MaxLevel {
		pl.Level = MaxLevel
		pl.XP = 0
	}
	if err := store.SetJSON(ctx, s.store, playerID, keyLevel, pl); err != nil {
		return PlayerLevel{}, nil, err
	}
	for _, rw := range rewards {
		_ = s.tracker.Track(ctx, playerID, "", "level_up", map[string]any{"level": rw.Level})
	}
	if pl.Level >= 50 {
		if _, err := s.unlockAchievement(ctx, playerID, "level_50"); err != nil {
			return PlayerLevel{}, nil, err
		}
	}
	return pl, rewards, nil
}

// grantLevelReward выдаёт награды за взятый уровень
func (s *Service) grantLevelReward(ctx context.Context, playerID int64, level int) (LevelReward, error) {
	rw := LevelReward{
		Level:          level,
		Gems:           int64(level * 5),
		Coins:          int64(math.Floor(float64(level) * 100 * math.Pow(1.1, float64(level)))),
		ResearchPoints: 1,
	}
	if level%10 == 0 {
		rw.Gems *= 2
	}
	if level%5 == 0 {
		rw.ResearchPoints += 2
	}

	if _, err := s.economy.CreditGems(ctx, playerID, rw.Gems, "level_up"); err != nil {
		return rw, err
	}
	if _, err := s.economy.CreditCoins(ctx, playerID, rw.Coins); err != nil {
		return rw, err
	}
	if _, err := s.AddResearchPoints(ctx, playerID, rw.ResearchPoints); err != nil {
		return rw, err
	}

	// Milestone drops
	switch {
	case level == 50:
		tower := domain.RandomTower(s.rng, domain.RarityLegendary)
		if err := s.AddCard(ctx, playerID, tower, 1); err != nil {
			return rw, err
		}
		rw.CardsGranted = append(rw.CardsGranted, tower)
	case level%25 == 0:
		rw.BoxOpened = string(domain.BoxMega)
		boxTower := domain.RandomTower(s.rng, domain.RollRarity(s.rng.Float64(), domain.BoxMega))
		epicTower := domain.RandomTower(s.rng, domain.RarityEpic)
		if err := s.AddCard(ctx, playerID, boxTower, 1); err != nil {
			return rw, err
		}
		if err := s.AddCard(ctx, playerID, epicTower, 1); err != nil {
			return rw, err
		}
		rw.CardsGranted = append(rw.CardsGranted, boxTower, epicTower)
	case level%10 == 0:
		rw.BoxOpened = string(domain.BoxPremium)
		tower := domain.RandomTower(s.rng, domain.RollRarity(s.rng.Float64(), domain.BoxPremium))
		if err := s.AddCard(ctx, playerID, tower, 1); err != nil {
			return rw, err
		}
		rw.CardsGranted = append(rw.CardsGranted, tower)
	}
	return rw, nil
}
