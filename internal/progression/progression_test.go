package progression

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"towerdefense_backend/internal/analytics"
	"towerdefense_backend/internal/domain"
	"towerdefense_backend/internal/economy"
	"towerdefense_backend/internal/store"
)

func newTestService(t *testing.T) (*Service, int64) {
	t.Helper()
	st := store.NewMemoryStore()
	tracker := analytics.NewTracker(st, analytics.NoopDeliverer{})
	eco := economy.New(st, tracker, 5, 30*time.Minute, 50)
	svc := New(st, tracker, eco, rand.New(rand.NewSource(1)))

	id, err := st.EnsurePlayer(context.Background(), "test-device")
	if err != nil {
		t.Fatalf("ensure player: %v", err)
	}
	return svc, id
}

func TestXPRequirement(t *testing.T) {
	cases := []struct {
		level int
		want  int64
	}{
		{1, 100},
		{2, 282},
		{4, 800},
		{10, 3162},
	}
	for _, tc := range cases {
		if got := XPRequirement(tc.level); got != tc.want {
			t.Fatalf("XPRequirement(%d) = %d; want %d", tc.level, got, tc.want)
		}
	}
}

func TestAwardXPSingleLevel(t *testing.T) {
	svc, id := newTestService(t)
	ctx := context.Background()

	pl, rewards, err := svc.AwardXP(ctx, id, 150)
	if err != nil {
		t.Fatalf("award xp: %v", err)
	}
	if pl.Level != 2 {
		t.Fatalf("level = %d; want 2", pl.Level)
	}
	if pl.XP != 50 {
		t.Fatalf("xp = %d; want 50", pl.XP)
	}
	if len(rewards) != 1 || rewards[0].Level != 2 {
		t.Fatalf("rewards = %+v; want one reward for level 2", rewards)
	}
	// Level 2: 10 gems + starting 50
	gems, _ := svc.economy.Gems(ctx, id)
	if gems != 60 {
		t.Fatalf("gems = %d; want 60", gems)
	}
}

func TestAwardXPCarryLoop(t *testing.T) {
	svc, id := newTestService(t)
	ctx := context.Background()

	// Достаточно на несколько уровней разом
	pl, rewards, err := svc.AwardXP(ctx, id, 100+282+519+100)
	if err != nil {
		t.Fatalf("award xp: %v", err)
	}
	if pl.Level != 4 {
		t.Fatalf("level = %d; want 4", pl.Level)
	}
	if pl.XP != 100 {
		t.Fatalf("xp = %d; want 100 leftover", pl.XP)
	}
	if len(rewards) != 3 {
		t.Fatalf("rewards = %d; want 3 level-ups", len(rewards))
	}
	if pl.XP >= XPRequirement(pl.Level) {
		t.Fatalf("leftover xp %d >= requirement %d", pl.XP, XPRequirement(pl.Level))
	}
}

func TestAwardXPLevelNonDecreasing(t *testing.T) {
	svc, id := newTestService(t)
	ctx := context.Background()

	prev := 1
	for i := 0; i < 20; i++ {
		pl, _, err := svc.AwardXP(ctx, id, 1000)
		if err != nil {
			t.Fatalf("award xp: %v", err)
		}
		if pl.Level < prev {
			t.Fatalf("level decreased: %d -> %d", prev, pl.Level)
		}
		prev = pl.Level
	}
}

func TestLevelRewardResearchPoints(t *testing.T) {
	svc, id := newTestService(t)
	ctx := context.Background()

	// До уровня 5 включительно: уровни 2,3,4 дают по 1, уровень 5 даёт 3
	var total int64
	for lvl := 1; lvl < 5; lvl++ {
		total += XPRequirement(lvl)
	}
	if _, _, err := svc.AwardXP(ctx, id, total); err != nil {
		t.Fatalf("award xp: %v", err)
	}

	pts, err := svc.ResearchPoints(ctx, id)
	if err != nil {
		t.Fatalf("points: %v", err)
	}
	if pts != 6 {
		t.Fatalf("research points = %d; want 6", pts)
	}
}

func TestUpgradeResearch(t *testing.T) {
	svc, id := newTestService(t)
	ctx := context.Background()

	if _, err := svc.AddResearchPoints(ctx, id, 10); err != nil {
		t.Fatalf("add points: %v", err)
	}

	node, pts, err := svc.UpgradeResearch(ctx, id, "damageBonus")
	if err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	if node.Level != 1 {
		t.Fatalf("node level = %d; want 1", node.Level)
	}
	if pts != 9 {
		t.Fatalf("points = %d; want 9", pts)
	}

	bonuses, err := svc.ResearchBonuses(ctx, id)
	if err != nil {
		t.Fatalf("bonuses: %v", err)
	}
	if bonuses.Damage != 1.05 {
		t.Fatalf("damage bonus = %v; want 1.05", bonuses.Damage)
	}
}

func TestUpgradeResearchMaxed(t *testing.T) {
	svc, id := newTestService(t)
	ctx := context.Background()

	if _, err := svc.AddResearchPoints(ctx, id, 100); err != nil {
		t.Fatalf("add points: %v", err)
	}
	for i := 0; i < 10; i++ {
		if _, _, err := svc.UpgradeResearch(ctx, id, "damageBonus"); err != nil {
			t.Fatalf("upgrade %d: %v", i, err)
		}
	}
	if _, _, err := svc.UpgradeResearch(ctx, id, "damageBonus"); !errors.Is(err, ErrResearchMaxed) {
		t.Fatalf("expected ErrResearchMaxed, got %v", err)
	}
}

func TestUpgradeResearchLocked(t *testing.T) {
	svc, id := newTestService(t)
	ctx := context.Background()

	if _, err := svc.AddResearchPoints(ctx, id, 100); err != nil {
		t.Fatalf("add points: %v", err)
	}
	if _, _, err := svc.UpgradeResearch(ctx, id, "ultimateDamage"); !errors.Is(err, ErrResearchLocked) {
		t.Fatalf("expected ErrResearchLocked at level 1, got %v", err)
	}
}

func TestCardUpgrade(t *testing.T) {
	svc, id := newTestService(t)
	ctx := context.Background()

	if err := svc.AddCard(ctx, id, "pulse", 20); err != nil {
		t.Fatalf("add cards: %v", err)
	}
	if _, err := svc.economy.CreditCoins(ctx, id, 10000); err != nil {
		t.Fatalf("credit coins: %v", err)
	}

	card, err := svc.UpgradeTowerCard(ctx, id, "pulse")
	if err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	if card.Level != 2 {
		t.Fatalf("card level = %d; want 2", card.Level)
	}
	// common level 1: 10 копий; стартовая 1 + 20 - 10 = 11
	if card.Count != 11 {
		t.Fatalf("card count = %d; want 11", card.Count)
	}
	if card.Stats.Damage != 11 {
		t.Fatalf("damage = %d; want 11", card.Stats.Damage)
	}
	// common level 1: floor(100 * 1.5) = 150 монет
	coins, _ := svc.economy.Coins(ctx, id)
	if coins != 10000-150 {
		t.Fatalf("coins = %d; want %d", coins, 10000-150)
	}
}

func TestCardUpgradeInsufficientCoins(t *testing.T) {
	svc, id := newTestService(t)
	ctx := context.Background()

	if err := svc.AddCard(ctx, id, "pulse", 20); err != nil {
		t.Fatalf("add cards: %v", err)
	}

	// Монет нет: апгрейд отклоняется целиком, карта не тронута
	if _, err := svc.UpgradeTowerCard(ctx, id, "pulse"); !errors.Is(err, economy.ErrInsufficientCoins) {
		t.Fatalf("expected ErrInsufficientCoins, got %v", err)
	}
	cards, err := svc.Cards(ctx, id)
	if err != nil {
		t.Fatalf("cards: %v", err)
	}
	if cards["pulse"].Count != 21 || cards["pulse"].Level != 1 {
		t.Fatalf("failed upgrade mutated card: count=%d level=%d", cards["pulse"].Count, cards["pulse"].Level)
	}
}

func TestCardUpgradeInsufficientCopies(t *testing.T) {
	svc, id := newTestService(t)
	ctx := context.Background()

	if _, err := svc.economy.CreditCoins(ctx, id, 10000); err != nil {
		t.Fatalf("credit coins: %v", err)
	}
	if _, err := svc.UpgradeTowerCard(ctx, id, "pulse"); !errors.Is(err, ErrInsufficientCopies) {
		t.Fatalf("expected ErrInsufficientCopies, got %v", err)
	}
}

func TestRecordEventAchievements(t *testing.T) {
	svc, id := newTestService(t)
	ctx := context.Background()

	if err := svc.RecordEvent(ctx, id, domain.GameEvent{Name: domain.EventEnemyKilled, EnemyType: "slime", Amount: 1}); err != nil {
		t.Fatalf("record: %v", err)
	}

	list, err := svc.Achievements(ctx, id)
	if err != nil {
		t.Fatalf("achievements: %v", err)
	}
	var firstKill *domain.Achievement
	for i := range list {
		if list[i].ID == "first_kill" {
			firstKill = &list[i]
		}
	}
	if firstKill == nil || !firstKill.Completed {
		t.Fatal("first_kill should be completed")
	}

	// Повторное событие не дублирует награду
	gemsBefore, _ := svc.economy.Gems(ctx, id)
	if err := svc.RecordEvent(ctx, id, domain.GameEvent{Name: domain.EventEnemyKilled, EnemyType: "slime", Amount: 1}); err != nil {
		t.Fatalf("record: %v", err)
	}
	gemsAfter, _ := svc.economy.Gems(ctx, id)
	if gemsBefore != gemsAfter {
		t.Fatalf("achievement reward paid twice: %d -> %d", gemsBefore, gemsAfter)
	}
}

func TestRecordEventAchievementCardDiscovered(t *testing.T) {
	svc, id := newTestService(t)
	ctx := context.Background()

	// wave_100 несёт легендарную карту в награду
	if err := svc.RecordEvent(ctx, id, domain.GameEvent{Name: domain.EventWaveCompleted, Wave: 100}); err != nil {
		t.Fatalf("record: %v", err)
	}

	cards, err := svc.Cards(ctx, id)
	if err != nil {
		t.Fatalf("cards: %v", err)
	}
	var granted string
	for tid, card := range cards {
		if card.Rarity == domain.RarityLegendary && card.Count > 0 {
			granted = tid
		}
	}
	if granted == "" {
		t.Fatal("wave_100 did not grant a legendary card")
	}

	c, err := svc.Collection(ctx, id)
	if err != nil {
		t.Fatalf("collection: %v", err)
	}
	if !c.Towers[granted].Discovered {
		t.Fatalf("tower %s granted but not discovered in collection", granted)
	}
}

func TestRecordEventStats(t *testing.T) {
	svc, id := newTestService(t)
	ctx := context.Background()

	events := []domain.GameEvent{
		{Name: domain.EventWaveCompleted, Wave: 3},
		{Name: domain.EventWaveCompleted, Wave: 7},
		{Name: domain.EventMoneyEarned, Amount: 1200},
		{Name: domain.EventTowerPlaced, TowerType: "pulse"},
	}
	for _, ev := range events {
		if err := svc.RecordEvent(ctx, id, ev); err != nil {
			t.Fatalf("record %s: %v", ev.Name, err)
		}
	}

	st, err := svc.Stats(ctx, id)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalWavesCompleted != 2 {
		t.Fatalf("waves = %d; want 2", st.TotalWavesCompleted)
	}
	if st.HighestWave != 7 {
		t.Fatalf("highest wave = %d; want 7", st.HighestWave)
	}
	if st.TotalMoneyEarned != 1200 {
		t.Fatalf("money = %d; want 1200", st.TotalMoneyEarned)
	}
	if st.TowersBuilt != 1 {
		t.Fatalf("towers = %d; want 1", st.TowersBuilt)
	}
}
