package progression

import (
	"context"
	"errors"

	"towerdefense_backend/internal/domain"
	"towerdefense_backend/internal/store"
)

var (
	ErrResearchUnknown      = errors.New("unknown research node")
	ErrResearchMaxed        = errors.New("research already at max level")
	ErrResearchLocked       = errors.New("research requires a higher player level")
	ErrInsufficientResearch = errors.New("not enough research points")
)

// Research returns the player's tree, seeded with defaults on first read.
func (s *Service) Research(ctx context.Context, playerID int64) (map[string]*domain.ResearchNode, error) {
	nodes := map[string]*domain.ResearchNode{}
	err := store.GetJSON(ctx, s.store, playerID, keyResearch, &nodes)
	if errors.Is(err, store.ErrNotFound) {
		return domain.DefaultResearch(), nil
	}
	if err != nil {
		return nil, err
	}
	// Новые узлы, добавленные после сохранения дерева
	for id, def := range domain.DefaultResearch() {
		if _, ok := nodes[id]; !ok {
			nodes[id] = def
		}
	}
	return nodes, nil
}

// ResearchPoints - накопленные очки исследований
func (s *Service) ResearchPoints(ctx context.Context, playerID int64) (int, error) {
	var pts int
	err := store.GetJSON(ctx, s.store, playerID, keyResearchPoints, &pts)
	if errors.Is(err, store.ErrNotFound) {
		return 0, nil
	}
	return pts, err
}

// AddResearchPoints credits points and returns the new total.
func (s *Service) AddResearchPoints(ctx context.Context, playerID int64, n int) (int, error) {
	pts, err := s.ResearchPoints(ctx, playerID)
	if err != nil {
		return 0, err
	}
	pts += n
	return pts, store.SetJSON(ctx, s.store, playerID, keyResearchPoints, pts)
}

// UpgradeResearch raises one node by a level, checking the player-level
// requirement and the point cost.
func (s *Service) UpgradeResearch(ctx context.Context, playerID int64, nodeID string) (*domain.ResearchNode, int, error) {
	nodes, err := s.Research(ctx, playerID)
	if err != nil {
		return nil, 0, err
	}
	node, ok := nodes[nodeID]
	if !ok {
		return nil, 0, ErrResearchUnknown
	}
	if node.Level >= node.Max {
		return nil, 0, ErrResearchMaxed
	}
	if node.Requirement > 0 {
		pl, err := s.Level(ctx, playerID)
		if err != nil {
			return nil, 0, err
		}
		if pl.Level < node.Requirement {
			return nil, 0, ErrResearchLocked
		}
	}
	pts, err := s.ResearchPoints(ctx, playerID)
	if err != nil {
		return nil, 0, err
	}
	if pts < node.Cost {
		return nil, 0, ErrInsufficientResearch
	}
	pts -= node.Cost
	node.Level++

	if err := s.store.SetAll(ctx, playerID, map[string][]byte{
		keyResearch:       store.Marshal(nodes),
		keyResearchPoints: store.Marshal(pts),
	}); err != nil {
		return nil, 0, err
	}
	_ = s.tracker.Track(ctx, playerID, "", "research_upgraded", map[string]any{"node": nodeID, "level": node.Level})

	unlocked := 0
	for _, n := range nodes {
		if n.Level > 0 {
			unlocked++
		}
	}
	if unlocked >= 10 {
		if _, err := s.unlockAchievement(ctx, playerID, "research_10"); err != nil {
			return nil, 0, err
		}
	}
	return node, pts, nil
}

// ResearchBonuses publishes the aggregate bonus table for the client.
func (s *Service) ResearchBonuses(ctx context.Context, playerID int64) (domain.ResearchBonuses, error) {
	nodes, err := s.Research(ctx, playerID)
	if err != nil {
		return domain.ResearchBonuses{}, err
	}
	return domain.ComputeResearchBonuses(nodes), nil
}
