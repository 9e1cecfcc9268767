package store

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	ErrNotFound       = errors.New("key not found")
	ErrPlayerNotFound = errors.New("player not found")
)

// Store is the per-player key-value persistence layer. Keys are namespaced
// by feature ("gems", "lives", "daily_quests", ...); values are JSON blobs.
// An absent key means the caller substitutes its documented default.
type Store interface {
	// EnsurePlayer returns the player id for a device, creating the player
	// on first sight.
	EnsurePlayer(ctx context.Context, deviceID string) (int64, error)

	// Players returns all known player ids (used by background sweeps).
	Players(ctx context.Context) ([]int64, error)

	Get(ctx context.Context, playerID int64, key string) ([]byte, error)
	Set(ctx context.Context, playerID int64, key string, value []byte) error

	// SetAll writes several keys in one batch so that a multi-field grant
	// (debit gems + add card) cannot be half-applied by a crash.
	SetAll(ctx context.Context, playerID int64, values map[string][]byte) error

	Delete(ctx context.Context, playerID int64, key string) error
}

// GetJSON reads a key and unmarshals it into dst. Returns ErrNotFound when
// the key is absent; a corrupt value is treated the same way so the caller
// falls back to its default instead of failing.
func GetJSON(ctx context.Context, s Store, playerID int64, key string, dst any) error {
	raw, err := s.Get(ctx, playerID, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return ErrNotFound
	}
	return nil
}

// SetJSON marshals v and writes it under key.
func SetJSON(ctx context.Context, s Store, playerID int64, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(ctx, playerID, key, raw)
}

// Marshal is a convenience for building SetAll batches.
func Marshal(v any) []byte {
	raw, _ := json.Marshal(v)
	return raw
}
