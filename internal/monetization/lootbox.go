package monetization

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"towerdefense_backend/internal/analytics"
	"towerdefense_backend/internal/domain"
	"towerdefense_backend/internal/economy"
	"towerdefense_backend/internal/progression"
	"towerdefense_backend/internal/store"
)

var (
	ErrUnknownBox     = errors.New("unknown loot box type")
	ErrUnknownProduct = errors.New("unknown product")
	ErrAdsDisabled    = errors.New("ads are disabled for this player")
)

// Service owns loot boxes, the IAP catalog, VIP subscriptions, ad
// rewards and login streaks. Callers hold the player lock.
type Service struct {
	store       store.Store
	tracker     *analytics.Tracker
	economy     *economy.Service
	progression *progression.Service
	battlePass  BattlePassActivator
	rng         *rand.Rand
}

func New(s store.Store, tr *analytics.Tracker, eco *economy.Service, prog *progression.Service, rng *rand.Rand) *Service {
	return &Service{store: s, tracker: tr, economy: eco, progression: prog, rng: rng}
}

// BoxResult - результат открытия лутбокса
type BoxResult struct {
	Box      domain.BoxType `json:"box"`
	Rarity   domain.Rarity  `json:"rarity"`
	Tower    string         `json:"tower"`
	GemsLeft int64          `json:"gems_left"`
}

// OpenBox debits the box price, rolls a rarity against the box odds and
// grants one copy of a random tower of that rarity. Списание и выдача
// идут одним батчем, чтобы не потерять оплату при сбое.
func (s *Service) OpenBox(ctx context.Context, playerID int64, box domain.BoxType) (*BoxResult, error) {
	cost, ok := domain.BoxCosts[box]
	if !ok {
		return nil, ErrUnknownBox
	}
	gems, err := s.economy.Gems(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if cost > gems {
		return nil, economy.ErrInsufficientGems
	}

	rarity := domain.RollRarity(s.rng.Float64(), box)
	tower := domain.RandomTower(s.rng, rarity)

	cards, err := s.progression.Cards(ctx, playerID)
	if err != nil {
		return nil, err
	}
	cards[tower].Count++

	gems -= cost
	if err := s.store.SetAll(ctx, playerID, map[string][]byte{
		"gems":        store.Marshal(gems),
		"tower_cards": store.Marshal(cards),
	}); err != nil {
		return nil, err
	}
	if err := s.progression.AddCard(ctx, playerID, tower, 0); err != nil { // only to mark discovery
		return nil, err
	}

	_ = s.tracker.Track(ctx, playerID, "", "gems_debited", map[string]any{
		"amount": cost, "reason": "lootbox", "balance": gems,
	})
	_ = s.tracker.Track(ctx, playerID, "", "lootbox_opened", map[string]any{
		"box": string(box), "rarity": string(rarity), "tower": tower, "cost": cost,
	})
	return &BoxResult{Box: box, Rarity: rarity, Tower: tower, GemsLeft: gems}, nil
}

// AdRewardResult - что вернуть клиенту после просмотра рекламы
type AdRewardResult struct {
	Type       domain.AdRewardType `json:"type"`
	Multiplier float64             `json:"multiplier,omitempty"`
	ExpiresAt  int64               `json:"expires_at,omitempty"` // unix ms
	Gems       int64               `json:"gems,omitempty"`
	Lives      int                 `json:"lives,omitempty"`
	Waves      int                 `json:"waves,omitempty"`
}

// GrantAdReward resolves a rewarded-ad completion. Timed boosts come back
// as an absolute expiry the client enforces; grants apply immediately.
func (s *Service) GrantAdReward(ctx context.Context, playerID int64, typ domain.AdRewardType, now time.Time) (*AdRewardResult, error) {
	enabled, err := s.AdsEnabled(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, ErrAdsDisabled
	}
	spec, ok := domain.AdRewards[typ]
	if !ok {
		return nil, errors.New("unknown ad reward type")
	}
	res := &AdRewardResult{Type: typ, Waves: spec.Waves}
	if spec.DurationMs > 0 {
		res.Multiplier = spec.Multiplier
		res.ExpiresAt = now.UnixMilli() + spec.DurationMs
	}
	if spec.Gems > 0 {
		if _, err := s.economy.CreditGems(ctx, playerID, spec.Gems, "ad_reward"); err != nil {
			return nil, err
		}
		res.Gems = spec.Gems
	}
	if spec.Lives > 0 {
		lv, err := s.economy.RegenerateLives(ctx, playerID, now)
		if err != nil {
			return nil, err
		}
		if lv.Current < s.economy.MaxLives() {
			lv.Current += spec.Lives
			if err := store.SetJSON(ctx, s.store, playerID, "lives", lv); err != nil {
				return nil, err
			}
			res.Lives = spec.Lives
		}
	}
	if _, err := s.tracker.IncrementMetric(ctx, playerID, "ads_watched", 1); err != nil {
		return nil, err
	}
	_ = s.tracker.Track(ctx, playerID, "", "ad_reward_granted", map[string]any{"type": string(typ)})
	return res, nil
}

// AdsEnabled reports whether the player still sees ads. Покупка Remove Ads
// и любой VIP-тир отключают их.
func (s *Service) AdsEnabled(ctx context.Context, playerID int64) (bool, error) {
	var removed bool
	if err := store.GetJSON(ctx, s.store, playerID, keyAdsRemoved, &removed); err != nil && !errors.Is(err, store.ErrNotFound) {
		return false, err
	}
	if removed {
		return false, nil
	}
	vip, err := s.vipState(ctx, playerID)
	if err != nil {
		return false, err
	}
	return !domain.BenefitsForTier(vip.Tier).SkipAds, nil
}
