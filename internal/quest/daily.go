package quest

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"towerdefense_backend/internal/analytics"
	"towerdefense_backend/internal/domain"
	"towerdefense_backend/internal/economy"
	"towerdefense_backend/internal/progression"
	"towerdefense_backend/internal/store"
)

var (
	ErrQuestUnknown   = errors.New("unknown quest")
	ErrQuestNotDone   = errors.New("quest not completed")
	ErrAlreadyClaimed = errors.New("quest reward already claimed")
)

const (
	keyQuests     = "daily_quests"
	keyResetTime  = "quest_reset_time"
	keyBattlePass = "battlePass"

	dailyQuestCount = 3
)

// Service owns daily quests and the battle pass. Callers hold the
// player lock; the service itself does no locking.
type Service struct {
	store       store.Store
	tracker     *analytics.Tracker
	economy     *economy.Service
	progression *progression.Service
	rng         *rand.Rand
}

func New(s store.Store, tr *analytics.Tracker, eco *economy.Service, prog *progression.Service, rng *rand.Rand) *Service {
	return &Service{store: s, tracker: tr, economy: eco, progression: prog, rng: rng}
}

// nextMidnight - следующая локальная полночь после now
func nextMidnight(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
}

// generate draws three type-distinct quests from the template pool.
func (s *Service) generate(ctx context.Context, playerID int64, now time.Time) ([]domain.DailyQuest, error) {
	idx := s.rng.Perm(len(domain.QuestTemplates))[:dailyQuestCount]
	quests := make([]domain.DailyQuest, 0, dailyQuestCount)
	for i, j := range idx {
		tpl := domain.QuestTemplates[j]
		quests = append(quests, domain.DailyQuest{
			ID:          fmt.Sprintf("daily_%d_%d", now.UnixMilli(), i),
			Type:        tpl.Type,
			Target:      tpl.Target,
			Reward:      tpl.Reward,
			Description: tpl.Description,
		})
	}
	if err := s.store.SetAll(ctx, playerID, map[string][]byte{
		keyQuests:    store.Marshal(quests),
		keyResetTime: store.Marshal(nextMidnight(now).UnixMilli()),
	}); err != nil {
		return nil, err
	}
	_ = s.tracker.Track(ctx, playerID, "", "daily_quests_generated", nil)
	return quests, nil
}

// Quests returns today's quests, generating or rotating them as needed.
// The reset moment is the local midnight stored at generation time, so a
// read at 23:59 keeps the set and a read past midnight replaces it.
func (s *Service) Quests(ctx context.Context, playerID int64, now time.Time) ([]domain.DailyQuest, error) {
	var resetMs int64
	if err := store.GetJSON(ctx, s.store, playerID, keyResetTime, &resetMs); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		return s.generate(ctx, playerID, now)
	}
	if now.UnixMilli() >= resetMs {
		return s.generate(ctx, playerID, now)
	}
	var quests []domain.DailyQuest
	if err := store.GetJSON(ctx, s.store, playerID, keyQuests, &quests); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return s.generate(ctx, playerID, now)
		}
		return nil, err
	}
	return quests, nil
}

// CheckReset rotates the quest set when the stored reset time has passed.
// Used by the background sweep; reads already rotate lazily.
func (s *Service) CheckReset(ctx context.Context, playerID int64, now time.Time) error {
	_, err := s.Quests(ctx, playerID, now)
	return err
}

// ApplyProgress advances every active quest of the given type. Progress
// clamps at the target and the quest completes exactly at the clamp.
func (s *Service) ApplyProgress(ctx context.Context, playerID int64, qt domain.QuestType, amount int64, now time.Time) error {
	if amount <= 0 {
		return nil
	}
	quests, err := s.Quests(ctx, playerID, now)
	if err != nil {
		return err
	}
	changed := false
	for i := range quests {
		q := &quests[i]
		if q.Type != qt || q.Completed {
			continue
		}
		q.Progress += amount
		if q.Progress >= q.Target {
			q.Progress = q.Target
			q.Completed = true
			_ = s.tracker.Track(ctx, playerID, "", "quest_completed", map[string]any{"quest": q.ID, "type": string(q.Type)})
		}
		changed = true
	}
	if !changed {
		return nil
	}
	return store.SetJSON(ctx, s.store, playerID, keyQuests, quests)
}

// ClaimReward pays out a completed quest exactly once.
func (s *Service) ClaimReward(ctx context.Context, playerID int64, questID string, now time.Time) (domain.QuestReward, error) {
	quests, err := s.Quests(ctx, playerID, now)
	if err != nil {
		return domain.QuestReward{}, err
	}
	for i := range quests {
		q := &quests[i]
		if q.ID != questID {
			continue
		}
		if q.Claimed {
			return domain.QuestReward{}, ErrAlreadyClaimed
		}
		if !q.Completed {
			return domain.QuestReward{}, ErrQuestNotDone
		}
		q.Claimed = true
		if err := store.SetJSON(ctx, s.store, playerID, keyQuests, quests); err != nil {
			return domain.QuestReward{}, err
		}
		if _, err := s.economy.CreditGems(ctx, playerID, q.Reward.Gems, "daily_quest"); err != nil {
			return domain.QuestReward{}, err
		}
		if _, _, err := s.progression.AwardXP(ctx, playerID, q.Reward.XP); err != nil {
			return domain.QuestReward{}, err
		}
		_ = s.tracker.Track(ctx, playerID, "", "quest_claimed", map[string]any{"quest": q.ID})
		return q.Reward, nil
	}
	return domain.QuestReward{}, ErrQuestUnknown
}
