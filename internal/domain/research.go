package domain

// ResearchNode - узел дерева исследований
type ResearchNode struct {
	Level       int     `json:"level"`
	Max         int     `json:"max"`
	Cost        int     `json:"cost"`
	Effect      float64 `json:"effect"`
	Requirement int     `json:"requirement,omitempty"` // минимальный уровень игрока, 0 = нет
}

// DefaultResearch returns the full research tree at level zero.
func DefaultResearch() map[string]*ResearchNode {
	return map[string]*ResearchNode{
		// Offense
		"damageBonus":    {Max: 10, Cost: 1, Effect: 5},
		"attackSpeed":    {Max: 10, Cost: 1, Effect: 3},
		"criticalChance": {Max: 5, Cost: 2, Effect: 2},
		"criticalDamage": {Max: 5, Cost: 2, Effect: 10},

		// Defense
		"towerHealth":  {Max: 10, Cost: 1, Effect: 10},
		"baseHealth":   {Max: 10, Cost: 1, Effect: 5},
		"regeneration": {Max: 5, Cost: 2, Effect: 1},

		// Economy
		"moneyBonus":    {Max: 10, Cost: 1, Effect: 5},
		"startingMoney": {Max: 5, Cost: 2, Effect: 100},
		"gemBonus":      {Max: 5, Cost: 3, Effect: 10},

		// Utility
		"towerRange": {Max: 10, Cost: 1, Effect: 2},
		"sellValue":  {Max: 5, Cost: 1, Effect: 5},
		"xpBonus":    {Max: 10, Cost: 2, Effect: 5},

		// Ultimate (player level 50+)
		"ultimateDamage":  {Max: 1, Cost: 10, Effect: 50, Requirement: 50},
		"ultimateEconomy": {Max: 1, Cost: 10, Effect: 100, Requirement: 50},
		"ultimateDefense": {Max: 1, Cost: 10, Effect: 50, Requirement: 50},
	}
}

// ResearchBonuses - агрегированная таблица бонусов, публикуется клиенту
type ResearchBonuses struct {
	Damage        float64 `json:"damage"`
	AttackSpeed   float64 `json:"attack_speed"`
	CritChance    float64 `json:"crit_chance"`
	CritDamage    float64 `json:"crit_damage"`
	TowerHealth   float64 `json:"tower_health"`
	BaseHealth    float64 `json:"base_health"`
	Regeneration  float64 `json:"regeneration"`
	MoneyBonus    float64 `json:"money_bonus"`
	StartingMoney float64 `json:"starting_money"`
	GemBonus      float64 `json:"gem_bonus"`
	TowerRange    float64 `json:"tower_range"`
	SellValue     float64 `json:"sell_value"`
	XPBonus       float64 `json:"xp_bonus"`
	UltDamage     float64 `json:"ult_damage"`
	UltEconomy    float64 `json:"ult_economy"`
	UltDefense    float64 `json:"ult_defense"`
}

// ComputeResearchBonuses is a pure function of the node levels.
func ComputeResearchBonuses(nodes map[string]*ResearchNode) ResearchBonuses {
	lvl := func(id string) float64 {
		if n, ok := nodes[id]; ok {
			return float64(n.Level)
		}
		return 0
	}

	return ResearchBonuses{
		Damage:        1 + lvl("damageBonus")*0.05,
		AttackSpeed:   1 + lvl("attackSpeed")*0.03,
		CritChance:    lvl("criticalChance") * 0.02,
		CritDamage:    1.5 + lvl("criticalDamage")*0.1,
		TowerHealth:   1 + lvl("towerHealth")*0.1,
		BaseHealth:    100 + lvl("baseHealth")*5,
		Regeneration:  lvl("regeneration"),
		MoneyBonus:    1 + lvl("moneyBonus")*0.05,
		StartingMoney: 400 + lvl("startingMoney")*100,
		GemBonus:      1 + lvl("gemBonus")*0.1,
		TowerRange:    1 + lvl("towerRange")*0.02,
		SellValue:     0.5 + lvl("sellValue")*0.05,
		XPBonus:       1 + lvl("xpBonus")*0.05,
		UltDamage:     lvl("ultimateDamage") * 0.5,
		UltEconomy:    lvl("ultimateEconomy") * 1.0,
		UltDefense:    lvl("ultimateDefense") * 0.5,
	}
}
