package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"towerdefense_backend/internal/domain"
	"towerdefense_backend/internal/logger"
	"towerdefense_backend/internal/store"
)

const (
	keyQueue   = "analytics_queue"
	keyFunnel  = "funnel"
	keySession = "session_meta"
	flushSize  = 20
	metricKey  = "metric_"
	abtestKey  = "abtest_"
	retDay1Ms  = int64(24 * time.Hour / time.Millisecond)
	retDay7Ms  = 7 * retDay1Ms
	retDay30Ms = 30 * retDay1Ms
	retSlackMs = retDay1Ms // окно в сутки вокруг отметки
)

// Стадии воронки в порядке прохождения
var FunnelStages = []string{
	"game_loaded",
	"tutorial_started",
	"tutorial_completed",
	"first_wave_completed",
	"first_tower_upgraded",
	"wave_10_reached",
	"first_purchase",
	"day_2_return",
}

var (
	eventsTracked = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "td_analytics_events_total",
		Help: "Analytics events tracked, by event name",
	}, []string{"event"})
	batchesFlushed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "td_analytics_batches_flushed_total",
		Help: "Analytics batches handed to the deliverer",
	})
)

// Tracker queues analytics events per player and flushes them in batches.
type Tracker struct {
	store     store.Store
	deliverer Deliverer
	now       func() time.Time
}

func NewTracker(s store.Store, d Deliverer) *Tracker {
	if d == nil {
		d = NoopDeliverer{}
	}
	return &Tracker{store: s, deliverer: d, now: time.Now}
}

// WithClock overrides the time source (tests).
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// Track appends an event to the player's queue and flushes when the
// queue reaches the batch size. The queue is cleared even if delivery
// fails: события не важнее геймплея.
func (t *Tracker) Track(ctx context.Context, playerID int64, sessionID, name string, props map[string]any) error {
	ev := domain.AnalyticsEvent{
		ID:         uuid.NewString(),
		Name:       name,
		Properties: props,
		PlayerID:   playerID,
		SessionID:  sessionID,
		Timestamp:  t.now().UnixMilli(),
	}
	eventsTracked.WithLabelValues(name).Inc()

	var queue []domain.AnalyticsEvent
	if err := store.GetJSON(ctx, t.store, playerID, keyQueue, &queue); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	queue = append(queue, ev)

	if len(queue) >= flushSize {
		t.flush(playerID, queue)
		queue = queue[:0]
	}
	return store.SetJSON(ctx, t.store, playerID, keyQueue, queue)
}

// Flush force-delivers whatever is queued (shutdown, heartbeat tick).
func (t *Tracker) Flush(ctx context.Context, playerID int64) error {
	var queue []domain.AnalyticsEvent
	if err := store.GetJSON(ctx, t.store, playerID, keyQueue, &queue); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	if len(queue) == 0 {
		return nil
	}
	t.flush(playerID, queue)
	return store.SetJSON(ctx, t.store, playerID, keyQueue, []domain.AnalyticsEvent{})
}

func (t *Tracker) flush(playerID int64, queue []domain.AnalyticsEvent) {
	batchesFlushed.Inc()
	if err := t.deliverer.Deliver(queue); err != nil {
		logger.Warn("analytics delivery failed", "player_id", playerID, "events", len(queue), "error", err)
	}
}

// TrackFunnel latches a funnel stage once per player and emits a
// funnel_stage_completed event on the first pass.
func (t *Tracker) TrackFunnel(ctx context.Context, playerID int64, sessionID, stage string) error {
	passed := map[string]int64{}
	if err := store.GetJSON(ctx, t.store, playerID, keyFunnel, &passed); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if _, ok := passed[stage]; ok {
		return nil
	}
	passed[stage] = t.now().UnixMilli()
	if err := store.SetJSON(ctx, t.store, playerID, keyFunnel, passed); err != nil {
		return err
	}
	return t.Track(ctx, playerID, sessionID, "funnel_stage_completed", map[string]any{"stage": stage})
}

// IncrementMetric bumps a named lifetime counter (metric_session_count, ...).
func (t *Tracker) IncrementMetric(ctx context.Context, playerID int64, name string, delta int64) (int64, error) {
	key := metricKey + name
	var v int64
	if err := store.GetJSON(ctx, t.store, playerID, key, &v); err != nil && !errors.Is(err, store.ErrNotFound) {
		return 0, err
	}
	v += delta
	return v, store.SetJSON(ctx, t.store, playerID, key, v)
}

// Metric reads a lifetime counter, zero when unset.
func (t *Tracker) Metric(ctx context.Context, playerID int64, name string) (int64, error) {
	var v int64
	err := store.GetJSON(ctx, t.store, playerID, metricKey+name, &v)
	if errors.Is(err, store.ErrNotFound) {
		return 0, nil
	}
	return v, err
}

// ABVariant returns the player's sticky variant for a test, assigning one
// on first read and tracking the assignment exactly once.
func (t *Tracker) ABVariant(ctx context.Context, playerID int64, sessionID, test string, variants []string, roll float64) (string, error) {
	if len(variants) == 0 {
		return "", fmt.Errorf("ab test %s has no variants", test)
	}
	key := abtestKey + test
	var v string
	err := store.GetJSON(ctx, t.store, playerID, key, &v)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return "", err
	}
	idx := int(roll * float64(len(variants)))
	if idx >= len(variants) {
		idx = len(variants) - 1
	}
	v = variants[idx]
	if err := store.SetJSON(ctx, t.store, playerID, key, v); err != nil {
		return "", err
	}
	if err := t.Track(ctx, playerID, sessionID, "ab_test_assigned", map[string]any{"test": test, "variant": v}); err != nil {
		return "", err
	}
	return v, nil
}

type sessionMeta struct {
	FirstSeenMs  int64 `json:"first_seen_ms"`
	LastSeenMs   int64 `json:"last_seen_ms"`
	RetDay1Sent  bool  `json:"ret_day1_sent"`
	RetDay7Sent  bool  `json:"ret_day7_sent"`
	RetDay30Sent bool  `json:"ret_day30_sent"`
}

// SessionStart records a session, bumps the session counter and emits
// retention markers when the player returns around day 1 / 7 / 30.
func (t *Tracker) SessionStart(ctx context.Context, playerID int64, sessionID string) error {
	nowMs := t.now().UnixMilli()
	var meta sessionMeta
	if err := store.GetJSON(ctx, t.store, playerID, keySession, &meta); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		meta.FirstSeenMs = nowMs
	}
	age := nowMs - meta.FirstSeenMs
	switch {
	case !meta.RetDay1Sent && age >= retDay1Ms && age < retDay1Ms+retSlackMs:
		meta.RetDay1Sent = true
		if err := t.Track(ctx, playerID, sessionID, "retention_day_1", nil); err != nil {
			return err
		}
	case !meta.RetDay7Sent && age >= retDay7Ms && age < retDay7Ms+retSlackMs:
		meta.RetDay7Sent = true
		if err := t.Track(ctx, playerID, sessionID, "retention_day_7", nil); err != nil {
			return err
		}
	case !meta.RetDay30Sent && age >= retDay30Ms && age < retDay30Ms+retSlackMs:
		meta.RetDay30Sent = true
		if err := t.Track(ctx, playerID, sessionID, "retention_day_30", nil); err != nil {
			return err
		}
	}
	meta.LastSeenMs = nowMs
	if err := store.SetJSON(ctx, t.store, playerID, keySession, meta); err != nil {
		return err
	}
	if _, err := t.IncrementMetric(ctx, playerID, "session_count", 1); err != nil {
		return err
	}
	return t.Track(ctx, playerID, sessionID, "session_start", nil)
}

// Heartbeat emits a periodic liveness event and flushes the queue.
func (t *Tracker) Heartbeat(ctx context.Context, playerID int64, sessionID string) error {
	if err := t.Track(ctx, playerID, sessionID, "heartbeat", nil); err != nil {
		return err
	}
	return t.Flush(ctx, playerID)
}
