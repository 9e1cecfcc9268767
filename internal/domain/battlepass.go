package domain

import (
	"math/rand"
	"time"
)

const (
	BattlePassXPPerTier = 1000
	BattlePassMaxTier   = 30
	BattlePassSeasonLen = 30 * 24 * time.Hour
)

// TierReward - награда одного тира (free + premium дорожки)
type TierReward struct {
	Tier         int    `json:"tier"`
	FreeCoins    int64  `json:"free_coins,omitempty"`
	PremiumGems  int64  `json:"premium_gems,omitempty"`
	PremiumTower Rarity `json:"premium_tower,omitempty"`
}

// BattlePass - состояние сезона у игрока
type BattlePass struct {
	Active  bool         `json:"active"`
	Tier    int          `json:"tier"`
	XP      int64        `json:"xp"`
	Season  int          `json:"season"`
	EndDate int64        `json:"end_date"` // unix ms
	Rewards []TierReward `json:"rewards"`
}

// GenerateBattlePassRewards builds the 30-tier track: free coins every third
// tier, a tower every fifth premium tier, gems otherwise.
func GenerateBattlePassRewards(rng *rand.Rand) []TierReward {
	rewards := make([]TierReward, 0, BattlePassMaxTier)
	for i := 1; i <= BattlePassMaxTier; i++ {
		r := TierReward{Tier: i}

		if i%3 == 0 {
			r.FreeCoins = int64(i) * 500
		}

		if i%5 == 0 {
			switch {
			case i == 30:
				r.PremiumTower = RarityLegendary
			case i >= 20:
				r.PremiumTower = RarityEpic
			default:
				r.PremiumTower = RarityRare
			}
		} else {
			r.PremiumGems = int64(i*5 + rng.Intn(10))
		}

		rewards = append(rewards, r)
	}
	return rewards
}

// NewBattlePass starts an inactive pass for the given season.
func NewBattlePass(rng *rand.Rand, season int, now time.Time) *BattlePass {
	return &BattlePass{
		Season:  season,
		EndDate: now.Add(BattlePassSeasonLen).UnixMilli(),
		Rewards: GenerateBattlePassRewards(rng),
	}
}
