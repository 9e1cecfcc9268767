package domain

import "math"

const (
	MaxStars        = 5
	StarEveryLevels = 10
)

// BaseStats - базовые характеристики башни
type BaseStats struct {
	Damage float64
	Range  float64
	Speed  float64
}

// TowerCatalog lists every tower with its rarity and base stats.
var TowerCatalog = map[string]struct {
	Name   string
	Rarity Rarity
	Stats  BaseStats
}{
	"pulse":   {Name: "Pulse Cannon", Rarity: RarityCommon, Stats: BaseStats{Damage: 10, Range: 150, Speed: 0.5}},
	"laser":   {Name: "Laser Beam", Rarity: RarityCommon, Stats: BaseStats{Damage: 5, Range: 200, Speed: 0.1}},
	"missile": {Name: "Missile Launcher", Rarity: RarityRare, Stats: BaseStats{Damage: 25, Range: 175, Speed: 1.5}},
	"tesla":   {Name: "Tesla Coil", Rarity: RarityRare, Stats: BaseStats{Damage: 15, Range: 125, Speed: 0.8}},
	"plasma":  {Name: "Plasma Cannon", Rarity: RarityRare, Stats: BaseStats{Damage: 20, Range: 160, Speed: 1.0}},
	"railgun": {Name: "Railgun", Rarity: RarityEpic, Stats: BaseStats{Damage: 50, Range: 250, Speed: 2.0}},
	"quantum": {Name: "Quantum Tower", Rarity: RarityEpic, Stats: BaseStats{Damage: 30, Range: 180, Speed: 0.7}},
	"crystal": {Name: "Crystal Prism", Rarity: RarityEpic, Stats: BaseStats{Damage: 35, Range: 200, Speed: 0.9}},
	"void":    {Name: "Void Graviton", Rarity: RarityLegendary, Stats: BaseStats{Damage: 75, Range: 150, Speed: 1.2}},
	"omega":   {Name: "Omega Cannon", Rarity: RarityLegendary, Stats: BaseStats{Damage: 100, Range: 300, Speed: 1.5}},
}

// CardStats - характеристики с учётом уровня и звёзд
type CardStats struct {
	Damage int     `json:"damage"`
	Range  int     `json:"range"`
	Speed  float64 `json:"speed"`
}

// TowerCard - карта башни в коллекции игрока
type TowerCard struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Rarity       Rarity    `json:"rarity"`
	Level        int       `json:"level"`
	Stars        int       `json:"stars"`
	Count        int       `json:"count"`
	UpgradeCount int       `json:"upgrade_count"`
	Stats        CardStats `json:"stats"`
}

// UpgradeCost - стоимость апгрейда карты
type UpgradeCost struct {
	Cards int   `json:"cards"`
	Coins int64 `json:"coins"`
}

var upgradeBaseCards = map[Rarity]int{
	RarityCommon:    10,
	RarityRare:      5,
	RarityEpic:      3,
	RarityLegendary: 2,
}

var upgradeBaseCoins = map[Rarity]int64{
	RarityCommon:    100,
	RarityRare:      250,
	RarityEpic:      500,
	RarityLegendary: 1000,
}

// CardUpgradeCost scales copies by star tier and coins by card level.
func CardUpgradeCost(rarity Rarity, level, stars int) UpgradeCost {
	return UpgradeCost{
		Cards: upgradeBaseCards[rarity] * (1 << (stars - 1)),
		Coins: int64(math.Floor(float64(upgradeBaseCoins[rarity]) * math.Pow(1.5, float64(level)))),
	}
}

// ComputeCardStats derives combat stats from the base-stat table scaled by
// level and star multipliers.
func ComputeCardStats(towerID string, level, stars int) CardStats {
	base := TowerCatalog[towerID].Stats
	return CardStats{
		Damage: int(math.Floor(base.Damage * (1 + float64(level-1)*0.1) * (1 + float64(stars-1)*0.25))),
		Range:  int(math.Floor(base.Range * (1 + float64(stars-1)*0.1))),
		Speed:  base.Speed * (1 - float64(level-1)*0.02),
	}
}

// NewTowerCard returns the starting card for a tower. Common towers begin
// with one owned copy, the rest must be found first.
func NewTowerCard(towerID string) TowerCard {
	info := TowerCatalog[towerID]
	count := 0
	if info.Rarity == RarityCommon {
		count = 1
	}
	return TowerCard{
		ID:     towerID,
		Name:   info.Name,
		Rarity: info.Rarity,
		Level:  1,
		Stars:  1,
		Count:  count,
		Stats:  ComputeCardStats(towerID, 1, 1),
	}
}
