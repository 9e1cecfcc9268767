package quest

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"towerdefense_backend/internal/analytics"
	"towerdefense_backend/internal/domain"
	"towerdefense_backend/internal/economy"
	"towerdefense_backend/internal/progression"
	"towerdefense_backend/internal/store"
)

func newTestService(t *testing.T) (*Service, int64) {
	t.Helper()
	st := store.NewMemoryStore()
	tracker := analytics.NewTracker(st, analytics.NoopDeliverer{})
	eco := economy.New(st, tracker, 5, 30*time.Minute, 50)
	rng := rand.New(rand.NewSource(7))
	prog := progression.New(st, tracker, eco, rng)
	svc := New(st, tracker, eco, prog, rng)

	id, err := st.EnsurePlayer(context.Background(), "test-device")
	if err != nil {
		t.Fatalf("ensure player: %v", err)
	}
	return svc, id
}

func TestQuestsGenerated(t *testing.T) {
	svc, id := newTestService(t)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	quests, err := svc.Quests(context.Background(), id, now)
	if err != nil {
		t.Fatalf("quests: %v", err)
	}
	if len(quests) != 3 {
		t.Fatalf("quest count = %d; want 3", len(quests))
	}

	seen := map[domain.QuestType]bool{}
	for _, q := range quests {
		if seen[q.Type] {
			t.Fatalf("duplicate quest type %s", q.Type)
		}
		seen[q.Type] = true
		if q.Completed || q.Claimed || q.Progress != 0 {
			t.Fatalf("fresh quest has progress: %+v", q)
		}
	}
}

func TestQuestResetAtMidnight(t *testing.T) {
	svc, id := newTestService(t)
	ctx := context.Background()
	gen := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	first, err := svc.Quests(ctx, id, gen)
	if err != nil {
		t.Fatalf("quests: %v", err)
	}

	// За минуту до полуночи набор прежний
	before, err := svc.Quests(ctx, id, time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("quests: %v", err)
	}
	if before[0].ID != first[0].ID {
		t.Fatal("quests rotated before midnight")
	}

	// После полуночи — новый набор
	after, err := svc.Quests(ctx, id, time.Date(2026, 3, 2, 0, 1, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("quests: %v", err)
	}
	if after[0].ID == first[0].ID {
		t.Fatal("quests did not rotate after midnight")
	}
}

func TestApplyProgressClamp(t *testing.T) {
	svc, id := newTestService(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	quests, err := svc.Quests(ctx, id, now)
	if err != nil {
		t.Fatalf("quests: %v", err)
	}
	target := quests[0]

	// Прогресс сильно больше цели
	if err := svc.ApplyProgress(ctx, id, target.Type, target.Target*10, now); err != nil {
		t.Fatalf("apply: %v", err)
	}

	quests, err = svc.Quests(ctx, id, now)
	if err != nil {
		t.Fatalf("quests: %v", err)
	}
	for _, q := range quests {
		if q.ID != target.ID {
			continue
		}
		if q.Progress != q.Target {
			t.Fatalf("progress = %d; want clamped to %d", q.Progress, q.Target)
		}
		if !q.Completed {
			t.Fatal("quest should be completed at clamp")
		}
	}
}

func TestApplyProgressCompletesExactlyAtTarget(t *testing.T) {
	svc, id := newTestService(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	quests, _ := svc.Quests(ctx, id, now)
	target := quests[0]

	if err := svc.ApplyProgress(ctx, id, target.Type, target.Target-1, now); err != nil {
		t.Fatalf("apply: %v", err)
	}
	quests, _ = svc.Quests(ctx, id, now)
	for _, q := range quests {
		if q.ID == target.ID && q.Completed {
			t.Fatal("quest completed before reaching target")
		}
	}

	if err := svc.ApplyProgress(ctx, id, target.Type, 1, now); err != nil {
		t.Fatalf("apply: %v", err)
	}
	quests, _ = svc.Quests(ctx, id, now)
	for _, q := range quests {
		if q.ID == target.ID && !q.Completed {
			t.Fatal("quest not completed exactly at target")
		}
	}
}

func TestClaimRewardOnce(t *testing.T) {
	svc, id := newTestService(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	quests, _ := svc.Quests(ctx, id, now)
	target := quests[0]

	if _, err := svc.ClaimReward(ctx, id, target.ID, now); !errors.Is(err, ErrQuestNotDone) {
		t.Fatalf("expected ErrQuestNotDone, got %v", err)
	}

	if err := svc.ApplyProgress(ctx, id, target.Type, target.Target, now); err != nil {
		t.Fatalf("apply: %v", err)
	}

	gemsBefore, _ := svc.economy.Gems(ctx, id)
	reward, err := svc.ClaimReward(ctx, id, target.ID, now)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	gemsAfter, _ := svc.economy.Gems(ctx, id)
	if gemsAfter < gemsBefore+reward.Gems {
		t.Fatalf("gems = %d; want at least %d", gemsAfter, gemsBefore+reward.Gems)
	}

	if _, err := svc.ClaimReward(ctx, id, target.ID, now); !errors.Is(err, ErrAlreadyClaimed) {
		t.Fatalf("expected ErrAlreadyClaimed, got %v", err)
	}

	if _, err := svc.ClaimReward(ctx, id, "no-such-quest", now); !errors.Is(err, ErrQuestUnknown) {
		t.Fatalf("expected ErrQuestUnknown, got %v", err)
	}
}
