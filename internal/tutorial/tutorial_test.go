package tutorial

import (
	"context"
	"errors"
	"testing"
	"time"

	"towerdefense_backend/internal/analytics"
	"towerdefense_backend/internal/economy"
	"towerdefense_backend/internal/store"
)

func newTestService(t *testing.T) (*Service, int64) {
	t.Helper()
	st := store.NewMemoryStore()
	tracker := analytics.NewTracker(st, analytics.NoopDeliverer{})
	eco := economy.New(st, tracker, 5, 30*time.Minute, 50)
	id, err := st.EnsurePlayer(context.Background(), "test-device")
	if err != nil {
		t.Fatalf("ensure player: %v", err)
	}
	return New(st, tracker, eco), id
}

func TestTutorialFullRun(t *testing.T) {
	svc, id := newTestService(t)
	ctx := context.Background()

	st, err := svc.Start(ctx, id, false)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !st.Running || st.StepIndex != 0 {
		t.Fatalf("after start: running=%v index=%d", st.Running, st.StepIndex)
	}
	if st.Step == nil || st.Step.ID != "welcome" {
		t.Fatalf("current step = %+v; want welcome", st.Step)
	}

	for _, step := range Steps {
		st, err = svc.Advance(ctx, id, step.ID)
		if err != nil {
			t.Fatalf("advance %s: %v", step.ID, err)
		}
	}
	if st.Running || !st.Completed || st.Skipped {
		t.Fatalf("after full run: %+v", st)
	}
	if st.StepIndex != len(Steps) {
		t.Fatalf("step index = %d; want %d", st.StepIndex, len(Steps))
	}

	// 50 стартовых + 10 welcome + 50 complete + 100 бонус
	gems, err := svc.economy.Gems(ctx, id)
	if err != nil {
		t.Fatalf("gems: %v", err)
	}
	if gems != 210 {
		t.Fatalf("gems after full run = %d; want 210", gems)
	}
	coins, err := svc.economy.Coins(ctx, id)
	if err != nil {
		t.Fatalf("coins: %v", err)
	}
	if coins != 1000 {
		t.Fatalf("coins after full run = %d; want 1000", coins)
	}

	done, err := svc.Completed(ctx, id)
	if err != nil || !done {
		t.Fatalf("completed = %v, %v; want true", done, err)
	}
}

func TestTutorialStartAfterCompletion(t *testing.T) {
	svc, id := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Start(ctx, id, false); err != nil {
		t.Fatalf("start: %v", err)
	}
	for _, step := range Steps {
		if _, err := svc.Advance(ctx, id, step.ID); err != nil {
			t.Fatalf("advance %s: %v", step.ID, err)
		}
	}

	if _, err := svc.Start(ctx, id, false); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("restart err = %v; want ErrAlreadyCompleted", err)
	}

	st, err := svc.Start(ctx, id, true)
	if err != nil {
		t.Fatalf("forced restart: %v", err)
	}
	if !st.Running || st.StepIndex != 0 {
		t.Fatalf("after forced restart: %+v", st)
	}
}

func TestTutorialAdvanceWrongStep(t *testing.T) {
	svc, id := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Start(ctx, id, false); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.Advance(ctx, id, "place_tower"); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("advance err = %v; want ErrWrongStep", err)
	}

	// Рассинхрон не должен двигать прогресс
	st, err := svc.State(ctx, id)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if st.StepIndex != 0 {
		t.Fatalf("step index = %d; want 0", st.StepIndex)
	}
}

func TestTutorialAdvanceNotRunning(t *testing.T) {
	svc, id := newTestService(t)

	if _, err := svc.Advance(context.Background(), id, "welcome"); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("advance err = %v; want ErrNotRunning", err)
	}
}

func TestTutorialSkipNoBonus(t *testing.T) {
	svc, id := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Start(ctx, id, false); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.Advance(ctx, id, "welcome"); err != nil {
		t.Fatalf("advance: %v", err)
	}

	st, err := svc.Skip(ctx, id)
	if err != nil {
		t.Fatalf("skip: %v", err)
	}
	if st.Running || st.Completed || !st.Skipped {
		t.Fatalf("after skip: %+v", st)
	}

	// Только 50 стартовых + 10 за welcome, без бонуса за прохождение
	gems, err := svc.economy.Gems(ctx, id)
	if err != nil {
		t.Fatalf("gems: %v", err)
	}
	if gems != 60 {
		t.Fatalf("gems after skip = %d; want 60", gems)
	}

	done, err := svc.Completed(ctx, id)
	if err != nil || !done {
		t.Fatalf("completed = %v, %v; want true", done, err)
	}

	// Повторный skip - no-op
	again, err := svc.Skip(ctx, id)
	if err != nil {
		t.Fatalf("second skip: %v", err)
	}
	if !again.Skipped {
		t.Fatalf("second skip: %+v", again)
	}
}
