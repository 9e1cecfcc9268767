package economy

import (
	"context"
	"errors"
	"time"

	"towerdefense_backend/internal/analytics"
	"towerdefense_backend/internal/store"
)

var (
	ErrInsufficientGems  = errors.New("insufficient gems")
	ErrInsufficientCoins = errors.New("insufficient coins")
	ErrNoLives           = errors.New("no lives left")
	ErrLivesFull         = errors.New("lives already full")
)

const (
	keyGems  = "gems"
	keyCoins = "coins"
	keyLives = "lives"

	// Цена мгновенного восстановления жизней
	RefillLivesCost = 50
)

// Lives - текущие жизни и якорь регенерации
type Lives struct {
	Current     int   `json:"current"`
	LastRegenMs int64 `json:"last_regen_ms"`
}

// Service owns the three soft currencies: gems, coins and lives.
// Callers hold the player lock; the service itself does no locking.
type Service struct {
	store   store.Store
	tracker *analytics.Tracker

	maxLives      int
	regenInterval time.Duration
	startingGems  int64
}

func New(s store.Store, tr *analytics.Tracker, maxLives int, regen time.Duration, startingGems int64) *Service {
	return &Service{
		store:         s,
		tracker:       tr,
		maxLives:      maxLives,
		regenInterval: regen,
		startingGems:  startingGems,
	}
}

func (s *Service) MaxLives() int { return s.maxLives }

// Gems returns the balance, seeding the starting grant on first read.
func (s *Service) Gems(ctx context.Context, playerID int64) (int64, error) {
	var v int64
	err := store.GetJSON(ctx, s.store, playerID, keyGems, &v)
	if errors.Is(err, store.ErrNotFound) {
		if err := store.SetJSON(ctx, s.store, playerID, keyGems, s.startingGems); err != nil {
			return 0, err
		}
		return s.startingGems, nil
	}
	return v, err
}

func (s *Service) Coins(ctx context.Context, playerID int64) (int64, error) {
	var v int64
	err := store.GetJSON(ctx, s.store, playerID, keyCoins, &v)
	if errors.Is(err, store.ErrNotFound) {
		return 0, nil
	}
	return v, err
}

// CreditGems adds amount and returns the new balance.
func (s *Service) CreditGems(ctx context.Context, playerID int64, amount int64, reason string) (int64, error) {
	if amount <= 0 {
		return s.Gems(ctx, playerID)
	}
	bal, err := s.Gems(ctx, playerID)
	if err != nil {
		return 0, err
	}
	bal += amount
	if err := store.SetJSON(ctx, s.store, playerID, keyGems, bal); err != nil {
		return 0, err
	}
	_ = s.tracker.Track(ctx, playerID, "", "gems_credited", map[string]any{"amount": amount, "reason": reason, "balance": bal})
	return bal, nil
}

// DebitGems subtracts amount; balance never goes negative.
func (s *Service) DebitGems(ctx context.Context, playerID int64, amount int64, reason string) (int64, error) {
	bal, err := s.Gems(ctx, playerID)
	if err != nil {
		return 0, err
	}
	if amount > bal {
		return bal, ErrInsufficientGems
	}
	bal -= amount
	if err := store.SetJSON(ctx, s.store, playerID, keyGems, bal); err != nil {
		return 0, err
	}
	_ = s.tracker.Track(ctx, playerID, "", "gems_debited", map[string]any{"amount": amount, "reason": reason, "balance": bal})
	return bal, nil
}

func (s *Service) CreditCoins(ctx context.Context, playerID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return s.Coins(ctx, playerID)
	}
	bal, err := s.Coins(ctx, playerID)
	if err != nil {
		return 0, err
	}
	bal += amount
	return bal, store.SetJSON(ctx, s.store, playerID, keyCoins, bal)
}

func (s *Service) DebitCoins(ctx context.Context, playerID int64, amount int64) (int64, error) {
	bal, err := s.Coins(ctx, playerID)
	if err != nil {
		return 0, err
	}
	if amount > bal {
		return bal, ErrInsufficientCoins
	}
	bal -= amount
	return bal, store.SetJSON(ctx, s.store, playerID, keyCoins, bal)
}

func (s *Service) lives(ctx context.Context, playerID int64, now time.Time) (Lives, error) {
	var lv Lives
	err := store.GetJSON(ctx, s.store, playerID, keyLives, &lv)
	if errors.Is(err, store.ErrNotFound) {
		return Lives{Current: s.maxLives, LastRegenMs: now.UnixMilli()}, nil
	}
	return lv, err
}

// RegenerateLives applies whole regeneration intervals elapsed since the
// anchor. The anchor advances only by consumed intervals so the partial
// remainder keeps counting toward the next life. Idempotent for a fixed now.
func (s *Service) RegenerateLives(ctx context.Context, playerID int64, now time.Time) (Lives, error) {
	lv, err := s.lives(ctx, playerID, now)
	if err != nil {
		return Lives{}, err
	}
	if lv.Current >= s.maxLives {
		lv.Current = s.maxLives
		lv.LastRegenMs = now.UnixMilli()
		return lv, store.SetJSON(ctx, s.store, playerID, keyLives, lv)
	}
	elapsed := now.UnixMilli() - lv.LastRegenMs
	intervalMs := s.regenInterval.Milliseconds()
	if elapsed < intervalMs {
		return lv, store.SetJSON(ctx, s.store, playerID, keyLives, lv)
	}
	gained := int(elapsed / intervalMs)
	if lv.Current+gained >= s.maxLives {
		lv.Current = s.maxLives
		lv.LastRegenMs = now.UnixMilli()
	} else {
		lv.Current += gained
		lv.LastRegenMs += int64(gained) * intervalMs
	}
	return lv, store.SetJSON(ctx, s.store, playerID, keyLives, lv)
}

// SpendLife consumes one life to start a game. Dropping below max starts
// the regeneration clock from now.
func (s *Service) SpendLife(ctx context.Context, playerID int64, now time.Time) (Lives, error) {
	lv, err := s.RegenerateLives(ctx, playerID, now)
	if err != nil {
		return Lives{}, err
	}
	if lv.Current <= 0 {
		return lv, ErrNoLives
	}
	wasFull := lv.Current >= s.maxLives
	lv.Current--
	if wasFull {
		lv.LastRegenMs = now.UnixMilli()
	}
	if err := store.SetJSON(ctx, s.store, playerID, keyLives, lv); err != nil {
		return Lives{}, err
	}
	_ = s.tracker.Track(ctx, playerID, "", "life_spent", map[string]any{"remaining": lv.Current})
	return lv, nil
}

// RefillLives restores all lives for gems.
func (s *Service) RefillLives(ctx context.Context, playerID int64, now time.Time) (Lives, error) {
	lv, err := s.RegenerateLives(ctx, playerID, now)
	if err != nil {
		return Lives{}, err
	}
	if lv.Current >= s.maxLives {
		return lv, ErrLivesFull
	}
	if _, err := s.DebitGems(ctx, playerID, RefillLivesCost, "refill_lives"); err != nil {
		return lv, err
	}
	lv.Current = s.maxLives
	lv.LastRegenMs = now.UnixMilli()
	return lv, store.SetJSON(ctx, s.store, playerID, keyLives, lv)
}

// GrantLives restores lives without charging (mega pack, VIP perk).
func (s *Service) GrantLives(ctx context.Context, playerID int64, now time.Time) (Lives, error) {
	lv := Lives{Current: s.maxLives, LastRegenMs: now.UnixMilli()}
	return lv, store.SetJSON(ctx, s.store, playerID, keyLives, lv)
}
