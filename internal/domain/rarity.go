package domain

import "math/rand"

// Rarity - редкость башни
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// rollOrder fixes the iteration order for the cumulative roll.
var rollOrder = []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary}

// RarityWeights - базовые шансы выпадения
var RarityWeights = map[Rarity]float64{
	RarityCommon:    0.65,
	RarityRare:      0.25,
	RarityEpic:      0.08,
	RarityLegendary: 0.02,
}

// BoxType - тип лутбокса
type BoxType string

const (
	BoxStandard BoxType = "standard"
	BoxPremium  BoxType = "premium"
	BoxMega     BoxType = "mega"
)

// BoxCosts in gems.
var BoxCosts = map[BoxType]int64{
	BoxStandard: 100,
	BoxPremium:  250,
	BoxMega:     500,
}

// boxMultiplier boosts the epic/legendary share for better boxes.
func boxMultiplier(box BoxType) float64 {
	switch box {
	case BoxMega:
		return 2
	case BoxPremium:
		return 1.5
	default:
		return 1
	}
}

// RollRarity resolves a uniform roll in [0,1) against the cumulative rarity
// distribution for the given box. Epic and legendary weights are multiplied
// by the box bonus and the whole distribution renormalized, so the odds
// always sum to one.
func RollRarity(roll float64, box BoxType) Rarity {
	mult := boxMultiplier(box)

	weights := make(map[Rarity]float64, len(RarityWeights))
	total := 0.0
	for _, r := range rollOrder {
		w := RarityWeights[r]
		if r == RarityEpic || r == RarityLegendary {
			w *= mult
		}
		weights[r] = w
		total += w
	}

	cumulative := 0.0
	for _, r := range rollOrder {
		cumulative += weights[r] / total
		if roll < cumulative {
			return r
		}
	}
	return RarityLegendary
}

// TowersByRarity - имена башен по редкости
var TowersByRarity = map[Rarity][]string{
	RarityCommon:    {"pulse", "laser"},
	RarityRare:      {"missile", "tesla", "plasma"},
	RarityEpic:      {"railgun", "quantum", "crystal"},
	RarityLegendary: {"void", "omega"},
}

// RandomTower picks a uniform tower id within the rarity tier.
func RandomTower(rng *rand.Rand, rarity Rarity) string {
	towers := TowersByRarity[rarity]
	return towers[rng.Intn(len(towers))]
}
