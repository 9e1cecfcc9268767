package domain

import "encoding/json"

// Имена игровых событий, приходящих с клиента
const (
	EventEnemyKilled   = "enemy_killed"
	EventTowerPlaced   = "tower_placed"
	EventWaveCompleted = "wave_completed"
	EventTowerUpgraded = "tower_upgraded"
	EventMoneyEarned   = "money_earned"
	EventBossKilled    = "boss_killed"
	EventPerfectWave   = "perfect_wave"
	EventGameOver      = "game_over"
)

// GameEvent - событие игрового цикла от клиента
type GameEvent struct {
	Name       string          `json:"name"`
	Amount     int64           `json:"amount,omitempty"`
	TowerType  string          `json:"tower_type,omitempty"`
	EnemyType  string          `json:"enemy_type,omitempty"`
	Wave       int64           `json:"wave,omitempty"`
	Properties json.RawMessage `json:"properties,omitempty"`
}

// AnalyticsEvent - одно событие в очереди аналитики
type AnalyticsEvent struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Properties map[string]any `json:"properties,omitempty"`
	PlayerID   int64          `json:"player_id"`
	SessionID  string         `json:"session_id"`
	Timestamp  int64          `json:"timestamp"`
}
