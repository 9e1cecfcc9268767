package progression

import (
	"context"
	"errors"

	"towerdefense_backend/internal/domain"
	"towerdefense_backend/internal/economy"
	"towerdefense_backend/internal/store"
)

var (
	ErrCardUnknown        = errors.New("unknown tower card")
	ErrInsufficientCopies = errors.New("not enough card copies")
)

// Cards returns the player's full card collection, seeding the catalog on
// first read so every tower id is present.
func (s *Service) Cards(ctx context.Context, playerID int64) (map[string]*domain.TowerCard, error) {
	cards := map[string]*domain.TowerCard{}
	err := store.GetJSON(ctx, s.store, playerID, keyCards, &cards)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	for id := range domain.TowerCatalog {
		if _, ok := cards[id]; !ok {
			c := domain.NewTowerCard(id)
			cards[id] = &c
		}
	}
	return cards, nil
}

// AddCard grants copies of a tower card and marks the tower discovered.
func (s *Service) AddCard(ctx context.Context, playerID int64, towerID string, copies int) error {
	if _, ok := domain.TowerCatalog[towerID]; !ok {
		return ErrCardUnknown
	}
	cards, err := s.Cards(ctx, playerID)
	if err != nil {
		return err
	}
	cards[towerID].Count += copies
	if err := store.SetJSON(ctx, s.store, playerID, keyCards, cards); err != nil {
		return err
	}
	return s.discoverTower(ctx, playerID, towerID)
}

// UpgradeTowerCard consumes copies and coins to raise a card's level.
// Каждые 10 уровней добавляется звезда (до 5).
func (s *Service) UpgradeTowerCard(ctx context.Context, playerID int64, towerID string) (*domain.TowerCard, error) {
	cards, err := s.Cards(ctx, playerID)
	if err != nil {
		return nil, err
	}
	card, ok := cards[towerID]
	if !ok {
		return nil, ErrCardUnknown
	}
	cost := domain.CardUpgradeCost(card.Rarity, card.Level, card.Stars)
	if card.Count < cost.Cards {
		return nil, ErrInsufficientCopies
	}
	coins, err := s.economy.Coins(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if cost.Coins > coins {
		return nil, economy.ErrInsufficientCoins
	}
	coins -= cost.Coins
	card.Count -= cost.Cards
	card.Level++
	card.UpgradeCount++
	if card.Level%domain.StarEveryLevels == 0 && card.Stars < domain.MaxStars {
		card.Stars++
	}
	card.Stats = domain.ComputeCardStats(towerID, card.Level, card.Stars)

	// Списание и карта уходят одним батчем
	if err := s.store.SetAll(ctx, playerID, map[string][]byte{
		"coins":  store.Marshal(coins),
		keyCards: store.Marshal(cards),
	}); err != nil {
		return nil, err
	}
	_ = s.tracker.Track(ctx, playerID, "", "card_upgraded", map[string]any{
		"tower": towerID, "level": card.Level, "stars": card.Stars,
	})
	return card, nil
}
