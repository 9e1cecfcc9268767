package monetization

import (
	"context"
	"errors"
	"time"

	"towerdefense_backend/internal/domain"
	"towerdefense_backend/internal/store"
)

const (
	keyVIP         = "vipTier"
	keyAdsRemoved  = "adsRemoved"
	keyLoginStreak = "loginStreak"

	msPerDay = int64(24 * time.Hour / time.Millisecond)
)

// BattlePassActivator breaks the import cycle with the quest service:
// покупка battle pass активирует premium-дорожку там.
type BattlePassActivator interface {
	ActivatePremium(ctx context.Context, playerID int64, now time.Time) (*domain.BattlePass, error)
}

// SetBattlePassActivator wires the battle pass hook after construction.
func (s *Service) SetBattlePassActivator(a BattlePassActivator) { s.battlePass = a }

// PurchaseResult - итог применения IAP-бандла
type PurchaseResult struct {
	Product string              `json:"product"`
	Reward  domain.RewardBundle `json:"reward"`
	Gems    int64               `json:"gems"`
	Coins   int64               `json:"coins"`
}

// Purchase applies a validated IAP by product id. The native shell has
// already charged the player; this only grants the bundle.
func (s *Service) Purchase(ctx context.Context, playerID int64, productID string, now time.Time) (*PurchaseResult, error) {
	product, ok := domain.ProductCatalog[productID]
	if !ok {
		return nil, ErrUnknownProduct
	}
	r := product.Reward

	if r.Gems > 0 {
		if _, err := s.economy.CreditGems(ctx, playerID, r.Gems, "iap"); err != nil {
			return nil, err
		}
	}
	if r.Coins > 0 {
		if _, err := s.economy.CreditCoins(ctx, playerID, r.Coins); err != nil {
			return nil, err
		}
	}
	if r.Tower != "" {
		if err := s.progression.AddCard(ctx, playerID, r.Tower, 1); err != nil {
			return nil, err
		}
	}
	if r.RefillLives {
		if _, err := s.economy.GrantLives(ctx, playerID, now); err != nil {
			return nil, err
		}
	}
	if r.RemoveAds {
		if err := store.SetJSON(ctx, s.store, playerID, keyAdsRemoved, true); err != nil {
			return nil, err
		}
	}
	if r.BattlePass && s.battlePass != nil {
		if _, err := s.battlePass.ActivatePremium(ctx, playerID, now); err != nil {
			return nil, err
		}
	}
	if r.VIPTier > 0 {
		if _, err := s.ActivateVIP(ctx, playerID, r.VIPTier, r.VIPDays, now); err != nil {
			return nil, err
		}
	}

	gems, err := s.economy.Gems(ctx, playerID)
	if err != nil {
		return nil, err
	}
	coins, err := s.economy.Coins(ctx, playerID)
	if err != nil {
		return nil, err
	}

	_ = s.tracker.Track(ctx, playerID, "", "iap_purchased", map[string]any{"product": productID, "price": product.Price})
	if _, err := s.tracker.IncrementMetric(ctx, playerID, "purchase_count", 1); err != nil {
		return nil, err
	}
	if err := s.tracker.TrackFunnel(ctx, playerID, "", "first_purchase"); err != nil {
		return nil, err
	}
	return &PurchaseResult{Product: productID, Reward: r, Gems: gems, Coins: coins}, nil
}

func (s *Service) vipState(ctx context.Context, playerID int64) (domain.VIPState, error) {
	var v domain.VIPState
	err := store.GetJSON(ctx, s.store, playerID, keyVIP, &v)
	if errors.Is(err, store.ErrNotFound) {
		return domain.VIPState{}, nil
	}
	return v, err
}

// VIP returns the player's current state after expiry: истёкшая подписка
// откатывается на тир 0.
func (s *Service) VIP(ctx context.Context, playerID int64, now time.Time) (domain.VIPState, domain.VIPBenefits, error) {
	v, err := s.vipState(ctx, playerID)
	if err != nil {
		return domain.VIPState{}, domain.VIPBenefits{}, err
	}
	if v.Tier > 0 && now.UnixMilli() >= v.Expiry {
		v = domain.VIPState{}
		if err := store.SetJSON(ctx, s.store, playerID, keyVIP, v); err != nil {
			return domain.VIPState{}, domain.VIPBenefits{}, err
		}
		_ = s.tracker.Track(ctx, playerID, "", "vip_expired", nil)
	}
	return v, domain.BenefitsForTier(v.Tier), nil
}

// ActivateVIP starts or extends a subscription. A repurchase of the same
// tier extends; a different tier replaces and restarts the clock.
func (s *Service) ActivateVIP(ctx context.Context, playerID int64, tier, days int, now time.Time) (domain.VIPState, error) {
	v, _, err := s.VIP(ctx, playerID, now)
	if err != nil {
		return domain.VIPState{}, err
	}
	addMs := int64(days) * msPerDay
	if v.Tier == tier && v.Expiry > now.UnixMilli() {
		v.Expiry += addMs
	} else {
		v.Tier = tier
		v.Expiry = now.UnixMilli() + addMs
	}
	if err := store.SetJSON(ctx, s.store, playerID, keyVIP, v); err != nil {
		return domain.VIPState{}, err
	}
	_ = s.tracker.Track(ctx, playerID, "", "vip_activated", map[string]any{"tier": tier, "days": days})
	return v, nil
}

// ClaimVIPDaily pays the tier's daily gems once per calendar day.
func (s *Service) ClaimVIPDaily(ctx context.Context, playerID int64, now time.Time) (int64, error) {
	v, benefits, err := s.VIP(ctx, playerID, now)
	if err != nil {
		return 0, err
	}
	if benefits.DailyGems == 0 {
		return 0, nil
	}
	today := now.UnixMilli() / msPerDay
	if v.LastDailyDay == today {
		return 0, nil
	}
	v.LastDailyDay = today
	if err := store.SetJSON(ctx, s.store, playerID, keyVIP, v); err != nil {
		return 0, err
	}
	if _, err := s.economy.CreditGems(ctx, playerID, benefits.DailyGems, "vip_daily"); err != nil {
		return 0, err
	}
	return benefits.DailyGems, nil
}

// LoginStreak - серия ежедневных входов
type LoginStreak struct {
	Day        int   `json:"day"`          // 1..7, wraps
	LastDayNum int64 `json:"last_day_num"` // unix days когда засчитан вход
}

// LoginResult reports what today's login paid out, nil reward when the
// login was already counted today.
type LoginResult struct {
	Streak LoginStreak         `json:"streak"`
	Reward *domain.LoginReward `json:"reward,omitempty"`
}

// RecordLogin advances the 7-day streak. A missed day resets to day 1;
// day 8 wraps back to day 1.
func (s *Service) RecordLogin(ctx context.Context, playerID int64, now time.Time) (*LoginResult, error) {
	var streak LoginStreak
	if err := store.GetJSON(ctx, s.store, playerID, keyLoginStreak, &streak); err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	today := now.UnixMilli() / msPerDay
	if streak.LastDayNum == today {
		return &LoginResult{Streak: streak}, nil
	}
	switch {
	case streak.LastDayNum == today-1 && streak.Day < len(domain.LoginRewards):
		streak.Day++
	default:
		streak.Day = 1
	}
	streak.LastDayNum = today
	if err := store.SetJSON(ctx, s.store, playerID, keyLoginStreak, streak); err != nil {
		return nil, err
	}

	reward := domain.LoginRewards[streak.Day-1]
	if _, err := s.economy.CreditGems(ctx, playerID, reward.Gems, "login_streak"); err != nil {
		return nil, err
	}
	if _, err := s.economy.CreditCoins(ctx, playerID, reward.Coins); err != nil {
		return nil, err
	}
	if reward.Tower != "" {
		tower := domain.RandomTower(s.rng, reward.Tower)
		if err := s.progression.AddCard(ctx, playerID, tower, 1); err != nil {
			return nil, err
		}
	}
	_ = s.tracker.Track(ctx, playerID, "", "login_reward_claimed", map[string]any{"day": streak.Day})
	return &LoginResult{Streak: streak, Reward: &reward}, nil
}
