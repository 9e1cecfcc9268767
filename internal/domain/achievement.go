package domain

// AchievementReward - разовая награда за достижение
type AchievementReward struct {
	Gems int64  `json:"gems"`
	Card Rarity `json:"card,omitempty"`
}

// Achievement - одноразовое достижение
type Achievement struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Completed   bool              `json:"completed"`
	Reward      AchievementReward `json:"reward"`
}

// DefaultAchievements returns the full achievement list, none completed.
func DefaultAchievements() []Achievement {
	return []Achievement{
		{ID: "first_kill", Name: "First Blood", Description: "Defeat your first enemy", Reward: AchievementReward{Gems: 5}},
		{ID: "wave_10", Name: "Survivor", Description: "Reach wave 10", Reward: AchievementReward{Gems: 10}},
		{ID: "wave_50", Name: "Defender", Description: "Reach wave 50", Reward: AchievementReward{Gems: 50}},
		{ID: "wave_100", Name: "Legend", Description: "Reach wave 100", Reward: AchievementReward{Gems: 100, Card: RarityLegendary}},
		{ID: "money_10k", Name: "Wealthy", Description: "Earn $10,000 in one game", Reward: AchievementReward{Gems: 20}},
		{ID: "perfect_wave", Name: "Flawless", Description: "Complete a wave without losing health", Reward: AchievementReward{Gems: 15}},
		{ID: "tower_master", Name: "Tower Master", Description: "Use all 10 tower types", Reward: AchievementReward{Gems: 30}},
		{ID: "research_10", Name: "Scientist", Description: "Unlock 10 research upgrades", Reward: AchievementReward{Gems: 25}},
		{ID: "level_50", Name: "Veteran", Description: "Reach player level 50", Reward: AchievementReward{Gems: 100, Card: RarityEpic}},
		{ID: "collection_complete", Name: "Collector", Description: "Discover all enemies and towers", Reward: AchievementReward{Gems: 200}},
	}
}

// CollectionEntry - запись в книге коллекций
type CollectionEntry struct {
	Discovered  bool  `json:"discovered"`
	Uses        int64 `json:"uses,omitempty"`
	Kills       int64 `json:"kills,omitempty"`
	Killed      int64 `json:"killed,omitempty"`
	DamageDealt int64 `json:"damage_dealt,omitempty"`
}

// Collection - книга коллекций: башни и враги
type Collection struct {
	Towers  map[string]*CollectionEntry `json:"towers"`
	Enemies map[string]*CollectionEntry `json:"enemies"`
}

var enemyTypes = []string{"slime", "golem", "speeder", "tank", "ghost", "healer", "bomber", "boss", "megaBoss"}

// DefaultCollection starts with the two common towers already discovered.
func DefaultCollection() *Collection {
	c := &Collection{
		Towers:  make(map[string]*CollectionEntry, len(TowerCatalog)),
		Enemies: make(map[string]*CollectionEntry, len(enemyTypes)),
	}
	for id := range TowerCatalog {
		c.Towers[id] = &CollectionEntry{Discovered: TowerCatalog[id].Rarity == RarityCommon}
	}
	for _, id := range enemyTypes {
		c.Enemies[id] = &CollectionEntry{}
	}
	return c
}

// Complete reports whether every tower and enemy has been discovered.
func (c *Collection) Complete() bool {
	for _, e := range c.Towers {
		if !e.Discovered {
			return false
		}
	}
	for _, e := range c.Enemies {
		if !e.Discovered {
			return false
		}
	}
	return true
}

// PlayerStats - накопительная статистика игрока
type PlayerStats struct {
	TotalKills          int64 `json:"total_kills"`
	TotalDamage         int64 `json:"total_damage"`
	TotalMoneyEarned    int64 `json:"total_money_earned"`
	TotalWavesCompleted int64 `json:"total_waves_completed"`
	HighestWave         int64 `json:"highest_wave"`
	TowersBuilt         int64 `json:"towers_built"`
	TowerUpgrades       int64 `json:"tower_upgrades"`
	PerfectWaves        int64 `json:"perfect_waves"`
	BossesKilled        int64 `json:"bosses_killed"`
}
