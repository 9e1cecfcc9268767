package quest

import (
	"context"
	"testing"
	"time"

	"towerdefense_backend/internal/domain"
)

func TestBattlePassTierUp(t *testing.T) {
	svc, id := newTestService(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	if _, err := svc.ActivatePremium(ctx, id, now); err != nil {
		t.Fatalf("activate: %v", err)
	}
	bp, granted, err := svc.AddBattlePassXP(ctx, id, 2500, now)
	if err != nil {
		t.Fatalf("add xp: %v", err)
	}
	if bp.Tier != 2 {
		t.Fatalf("tier = %d; want 2", bp.Tier)
	}
	if bp.XP != 500 {
		t.Fatalf("xp = %d; want 500", bp.XP)
	}
	if len(granted) != 2 {
		t.Fatalf("granted = %d tiers; want 2", len(granted))
	}
}

func TestBattlePassInactiveNoAccrual(t *testing.T) {
	svc, id := newTestService(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	coinsBefore, _ := svc.economy.Coins(ctx, id)
	gemsBefore, _ := svc.economy.Gems(ctx, id)

	// Неактивный пасс не копит XP вообще
	bp, granted, err := svc.AddBattlePassXP(ctx, id, 3000, now)
	if err != nil {
		t.Fatalf("add xp: %v", err)
	}
	if bp.Tier != 0 || bp.XP != 0 {
		t.Fatalf("inactive pass accrued: tier=%d xp=%d; want 0/0", bp.Tier, bp.XP)
	}
	if len(granted) != 0 {
		t.Fatalf("inactive pass granted %d tiers", len(granted))
	}

	coinsAfter, _ := svc.economy.Coins(ctx, id)
	gemsAfter, _ := svc.economy.Gems(ctx, id)
	if coinsAfter != coinsBefore || gemsAfter != gemsBefore {
		t.Fatalf("inactive pass paid out: coins %d->%d gems %d->%d", coinsBefore, coinsAfter, gemsBefore, gemsAfter)
	}
}

func TestBattlePassFreeCoinsEveryThirdTier(t *testing.T) {
	svc, id := newTestService(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	if _, err := svc.ActivatePremium(ctx, id, now); err != nil {
		t.Fatalf("activate: %v", err)
	}
	coinsBefore, _ := svc.economy.Coins(ctx, id)

	if _, _, err := svc.AddBattlePassXP(ctx, id, 3000, now); err != nil {
		t.Fatalf("add xp: %v", err)
	}

	// Из тиров 1-3 только третий несёт free-монеты: 3*500
	coinsAfter, _ := svc.economy.Coins(ctx, id)
	if coinsAfter != coinsBefore+1500 {
		t.Fatalf("coins = %d; want %d", coinsAfter, coinsBefore+1500)
	}
}

func TestBattlePassPremiumTrack(t *testing.T) {
	svc, id := newTestService(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	if _, err := svc.ActivatePremium(ctx, id, now); err != nil {
		t.Fatalf("activate: %v", err)
	}

	gemsBefore, _ := svc.economy.Gems(ctx, id)
	bp, _, err := svc.AddBattlePassXP(ctx, id, 1000, now)
	if err != nil {
		t.Fatalf("add xp: %v", err)
	}
	if bp.Tier != 1 {
		t.Fatalf("tier = %d; want 1", bp.Tier)
	}

	// Тир 1: premium gems = 1*5 + rand(10)
	gemsAfter, _ := svc.economy.Gems(ctx, id)
	gained := gemsAfter - gemsBefore
	if gained < 5 || gained > 14 {
		t.Fatalf("premium gems = %d; want in [5,14]", gained)
	}
}

func TestBattlePassTierCap(t *testing.T) {
	svc, id := newTestService(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	if _, err := svc.ActivatePremium(ctx, id, now); err != nil {
		t.Fatalf("activate: %v", err)
	}
	bp, _, err := svc.AddBattlePassXP(ctx, id, 100*domain.BattlePassXPPerTier, now)
	if err != nil {
		t.Fatalf("add xp: %v", err)
	}
	if bp.Tier != domain.BattlePassMaxTier {
		t.Fatalf("tier = %d; want capped at %d", bp.Tier, domain.BattlePassMaxTier)
	}
	if bp.XP != 0 {
		t.Fatalf("xp = %d; want 0 at cap", bp.XP)
	}

	// Дальнейший XP — no-op
	bp, granted, err := svc.AddBattlePassXP(ctx, id, 5000, now)
	if err != nil {
		t.Fatalf("add xp: %v", err)
	}
	if bp.Tier != domain.BattlePassMaxTier || len(granted) != 0 {
		t.Fatalf("xp past cap changed state: tier=%d granted=%d", bp.Tier, len(granted))
	}
}

func TestBattlePassSeasonRollover(t *testing.T) {
	svc, id := newTestService(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	if _, err := svc.ActivatePremium(ctx, id, start); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if _, _, err := svc.AddBattlePassXP(ctx, id, 5000, start); err != nil {
		t.Fatalf("add xp: %v", err)
	}

	// Через 31 день сезон сменился, прогресс и premium сброшены
	bp, err := svc.BattlePass(ctx, id, start.Add(31*24*time.Hour))
	if err != nil {
		t.Fatalf("battle pass: %v", err)
	}
	if bp.Season != 2 {
		t.Fatalf("season = %d; want 2", bp.Season)
	}
	if bp.Tier != 0 || bp.XP != 0 || bp.Active {
		t.Fatalf("rollover kept progress: %+v", bp)
	}
}
