package domain

// VIPBenefits - пассивные бонусы VIP-тира
type VIPBenefits struct {
	MoneyMultiplier float64 `json:"money_multiplier"`
	XPMultiplier    float64 `json:"xp_multiplier"`
	DailyGems       int64   `json:"daily_gems"`
	SkipAds         bool    `json:"skip_ads"`
}

var vipBenefits = map[int]VIPBenefits{
	0: {MoneyMultiplier: 1, XPMultiplier: 1},
	1: {MoneyMultiplier: 1.25, XPMultiplier: 1.25, DailyGems: 10, SkipAds: true},
	2: {MoneyMultiplier: 1.5, XPMultiplier: 1.5, DailyGems: 25, SkipAds: true},
	3: {MoneyMultiplier: 2, XPMultiplier: 2, DailyGems: 50, SkipAds: true},
}

// BenefitsForTier is a pure lookup; unknown tiers fall back to tier 0.
func BenefitsForTier(tier int) VIPBenefits {
	if b, ok := vipBenefits[tier]; ok {
		return b
	}
	return vipBenefits[0]
}

// VIPState - активный тир с датой окончания
type VIPState struct {
	Tier         int   `json:"tier"`
	Expiry       int64 `json:"expiry"`         // unix ms, 0 = нет подписки
	LastDailyDay int64 `json:"last_daily_day"` // день (unix days), когда выданы daily gems
}
