package domain

// RewardBundle - фиксированный набор наград IAP-продукта
type RewardBundle struct {
	Gems        int64  `json:"gems,omitempty"`
	Coins       int64  `json:"coins,omitempty"`
	Tower       string `json:"tower,omitempty"`
	RefillLives bool   `json:"refill_lives,omitempty"`
	RemoveAds   bool   `json:"remove_ads,omitempty"`
	BattlePass  bool   `json:"battle_pass,omitempty"`
	VIPTier     int    `json:"vip_tier,omitempty"`
	VIPDays     int    `json:"vip_days,omitempty"`
}

// Product - позиция каталога
type Product struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Price  float64      `json:"price"` // USD, справочно: оплату проводит нативный shell
	Reward RewardBundle `json:"reward"`
}

// ProductCatalog resolves every product id to its deterministic reward
// bundle. Receipt validation happens in the native shell before the
// purchase reaches this service.
var ProductCatalog = map[string]Product{
	"com.ultra.towerdefense.removeads": {ID: "com.ultra.towerdefense.removeads", Name: "Remove Ads", Price: 4.99,
		Reward: RewardBundle{RemoveAds: true}},
	"com.ultra.towerdefense.gems100": {ID: "com.ultra.towerdefense.gems100", Name: "100 Gems", Price: 0.99,
		Reward: RewardBundle{Gems: 100}},
	"com.ultra.towerdefense.gems550": {ID: "com.ultra.towerdefense.gems550", Name: "550 Gems", Price: 4.99,
		Reward: RewardBundle{Gems: 550}},
	"com.ultra.towerdefense.gems1200": {ID: "com.ultra.towerdefense.gems1200", Name: "1200 Gems", Price: 9.99,
		Reward: RewardBundle{Gems: 1200}},
	"com.ultra.towerdefense.gems2500": {ID: "com.ultra.towerdefense.gems2500", Name: "2500 Gems", Price: 19.99,
		Reward: RewardBundle{Gems: 2500}},
	"com.ultra.towerdefense.gems6500": {ID: "com.ultra.towerdefense.gems6500", Name: "6500 Gems", Price: 49.99,
		Reward: RewardBundle{Gems: 6500}},
	"com.ultra.towerdefense.starter": {ID: "com.ultra.towerdefense.starter", Name: "Starter Pack", Price: 2.99,
		Reward: RewardBundle{Gems: 300, Coins: 5000, Tower: "tesla"}},
	"com.ultra.towerdefense.value": {ID: "com.ultra.towerdefense.value", Name: "Value Pack", Price: 9.99,
		Reward: RewardBundle{Gems: 1000, Coins: 15000, Tower: "quantum"}},
	"com.ultra.towerdefense.mega": {ID: "com.ultra.towerdefense.mega", Name: "Mega Pack", Price: 29.99,
		Reward: RewardBundle{Gems: 3000, Coins: 50000, Tower: "omega", RefillLives: true}},
	"com.ultra.towerdefense.battlepass": {ID: "com.ultra.towerdefense.battlepass", Name: "Battle Pass", Price: 9.99,
		Reward: RewardBundle{BattlePass: true}},
	"com.ultra.towerdefense.vip1": {ID: "com.ultra.towerdefense.vip1", Name: "VIP Bronze", Price: 4.99,
		Reward: RewardBundle{VIPTier: 1, VIPDays: 30}},
	"com.ultra.towerdefense.vip2": {ID: "com.ultra.towerdefense.vip2", Name: "VIP Silver", Price: 9.99,
		Reward: RewardBundle{VIPTier: 2, VIPDays: 30}},
	"com.ultra.towerdefense.vip3": {ID: "com.ultra.towerdefense.vip3", Name: "VIP Gold", Price: 19.99,
		Reward: RewardBundle{VIPTier: 3, VIPDays: 30}},
}

// AdRewardType - тип награды за просмотр рекламы
type AdRewardType string

const (
	AdDoubleMoney AdRewardType = "doubleMoney"
	AdSpeedBoost  AdRewardType = "speedBoost"
	AdExtraLife   AdRewardType = "extraLife"
	AdGems        AdRewardType = "gems"
	AdSkipWave    AdRewardType = "skipWave"
)

// AdReward is looked up per type: either an immediate grant or a timed
// multiplier the client applies until the expiry it gets back.
type AdReward struct {
	DurationMs int64   `json:"duration_ms,omitempty"`
	Multiplier float64 `json:"multiplier,omitempty"`
	Lives      int     `json:"lives,omitempty"`
	Gems       int64   `json:"gems,omitempty"`
	Waves      int     `json:"waves,omitempty"`
}

var AdRewards = map[AdRewardType]AdReward{
	AdDoubleMoney: {DurationMs: 300000, Multiplier: 2},
	AdSpeedBoost:  {DurationMs: 180000, Multiplier: 2},
	AdExtraLife:   {Lives: 1},
	AdGems:        {Gems: 5},
	AdSkipWave:    {Waves: 1},
}

// LoginReward - награда за день серии входов
type LoginReward struct {
	Day   int    `json:"day"`
	Gems  int64  `json:"gems"`
	Coins int64  `json:"coins"`
	Tower Rarity `json:"tower,omitempty"`
}

// LoginRewards is the 7-day streak table; the streak wraps after day 7.
var LoginRewards = []LoginReward{
	{Day: 1, Gems: 10, Coins: 500},
	{Day: 2, Gems: 15, Coins: 750},
	{Day: 3, Gems: 20, Coins: 1000},
	{Day: 4, Gems: 25, Coins: 1500},
	{Day: 5, Gems: 30, Coins: 2000},
	{Day: 6, Gems: 40, Coins: 2500},
	{Day: 7, Gems: 100, Coins: 5000, Tower: RarityRare},
}
