package tutorial

import (
	"context"
	"errors"

	"towerdefense_backend/internal/analytics"
	"towerdefense_backend/internal/economy"
	"towerdefense_backend/internal/store"
)

var (
	ErrAlreadyCompleted = errors.New("tutorial already completed")
	ErrNotRunning       = errors.New("tutorial is not running")
	ErrWrongStep        = errors.New("advance does not match the current step")
)

const (
	keyState     = "tutorial"
	keyCompleted = "tutorialCompleted"

	// Бонус за прохождение без пропуска
	completionBonusGems = 100
)

// State - прогресс обучения игрока
type State struct {
	Running   bool  `json:"running"`
	StepIndex int   `json:"step_index"`
	Completed bool  `json:"completed"`
	Skipped   bool  `json:"skipped"`
	Step      *Step `json:"step,omitempty"`
}

// Service drives the onboarding sequence. Callers hold the player lock.
type Service struct {
	store   store.Store
	tracker *analytics.Tracker
	economy *economy.Service
}

func New(s store.Store, tr *analytics.Tracker, eco *economy.Service) *Service {
	return &Service{store: s, tracker: tr, economy: eco}
}

func (s *Service) state(ctx context.Context, playerID int64) (State, error) {
	var st State
	err := store.GetJSON(ctx, s.store, playerID, keyState, &st)
	if errors.Is(err, store.ErrNotFound) {
		return State{}, nil
	}
	return st, err
}

func (s *Service) save(ctx context.Context, playerID int64, st State) (State, error) {
	st.Step = nil
	if st.Running && st.StepIndex < len(Steps) {
		step := Steps[st.StepIndex]
		st.Step = &step
	}
	return st, store.SetJSON(ctx, s.store, playerID, keyState, st)
}

// State returns the player's tutorial progress with the current step
// embedded when running.
func (s *Service) State(ctx context.Context, playerID int64) (State, error) {
	st, err := s.state(ctx, playerID)
	if err != nil {
		return State{}, err
	}
	if st.Running && st.StepIndex < len(Steps) {
		step := Steps[st.StepIndex]
		st.Step = &step
	}
	return st, nil
}

// Start begins the tutorial at the first step. A completed tutorial only
// restarts with force.
func (s *Service) Start(ctx context.Context, playerID int64, force bool) (State, error) {
	st, err := s.state(ctx, playerID)
	if err != nil {
		return State{}, err
	}
	if (st.Completed || st.Skipped) && !force {
		return State{}, ErrAlreadyCompleted
	}
	if st.Running && !force {
		return s.State(ctx, playerID)
	}
	st = State{Running: true}
	if err := s.grantStepRewards(ctx, playerID, Steps[0]); err != nil {
		return State{}, err
	}
	if err := s.tracker.TrackFunnel(ctx, playerID, "", "tutorial_started"); err != nil {
		return State{}, err
	}
	return s.save(ctx, playerID, st)
}

// Advance moves past the named step. The id must match the current step,
// иначе клиент рассинхронизирован и получает ErrWrongStep.
func (s *Service) Advance(ctx context.Context, playerID int64, stepID string) (State, error) {
	st, err := s.state(ctx, playerID)
	if err != nil {
		return State{}, err
	}
	if !st.Running {
		return State{}, ErrNotRunning
	}
	if st.StepIndex >= len(Steps) || Steps[st.StepIndex].ID != stepID {
		return State{}, ErrWrongStep
	}
	st.StepIndex++
	if st.StepIndex >= len(Steps) {
		return s.complete(ctx, playerID, st)
	}
	if err := s.grantStepRewards(ctx, playerID, Steps[st.StepIndex]); err != nil {
		return State{}, err
	}
	_ = s.tracker.Track(ctx, playerID, "", "tutorial_step", map[string]any{"step": Steps[st.StepIndex].ID})
	return s.save(ctx, playerID, st)
}

// Skip abandons the tutorial. Отличается от завершения: бонус не выдаётся.
func (s *Service) Skip(ctx context.Context, playerID int64) (State, error) {
	st, err := s.state(ctx, playerID)
	if err != nil {
		return State{}, err
	}
	if st.Completed || st.Skipped {
		return st, nil
	}
	st.Running = false
	st.Skipped = true
	if err := store.SetJSON(ctx, s.store, playerID, keyCompleted, true); err != nil {
		return State{}, err
	}
	_ = s.tracker.Track(ctx, playerID, "", "tutorial_skipped", map[string]any{"at_step": st.StepIndex})
	return s.save(ctx, playerID, st)
}

// complete finishes the tutorial exactly once and pays the full-run bonus.
func (s *Service) complete(ctx context.Context, playerID int64, st State) (State, error) {
	st.Running = false
	if st.Completed {
		return s.save(ctx, playerID, st)
	}
	st.Completed = true
	st.StepIndex = len(Steps)
	if _, err := s.economy.CreditGems(ctx, playerID, completionBonusGems, "tutorial_complete"); err != nil {
		return State{}, err
	}
	if err := store.SetJSON(ctx, s.store, playerID, keyCompleted, true); err != nil {
		return State{}, err
	}
	if err := s.tracker.TrackFunnel(ctx, playerID, "", "tutorial_completed"); err != nil {
		return State{}, err
	}
	return s.save(ctx, playerID, st)
}

// grantStepRewards applies a step's one-time grants as it is shown.
func (s *Service) grantStepRewards(ctx context.Context, playerID int64, step Step) error {
	if step.RewardGems > 0 {
		if _, err := s.economy.CreditGems(ctx, playerID, step.RewardGems, "tutorial"); err != nil {
			return err
		}
	}
	if step.RewardCoins > 0 {
		if _, err := s.economy.CreditCoins(ctx, playerID, step.RewardCoins); err != nil {
			return err
		}
	}
	return nil
}

// Completed reports whether the player has finished or skipped onboarding.
func (s *Service) Completed(ctx context.Context, playerID int64) (bool, error) {
	var done bool
	err := store.GetJSON(ctx, s.store, playerID, keyCompleted, &done)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	return done, err
}
