package store

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestEnsurePlayerIdempotent(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	first, err := m.EnsurePlayer(ctx, "device-a")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	again, err := m.EnsurePlayer(ctx, "device-a")
	if err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	if first != again {
		t.Fatalf("same device got ids %d and %d", first, again)
	}

	other, err := m.EnsurePlayer(ctx, "device-b")
	if err != nil {
		t.Fatalf("ensure other: %v", err)
	}
	if other == first {
		t.Fatalf("different devices share id %d", other)
	}
}

func TestGetSetRoundTrip(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	id, _ := m.EnsurePlayer(ctx, "device-a")

	if _, err := m.Get(ctx, id, "gems"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get missing key err = %v; want ErrNotFound", err)
	}

	if err := m.Set(ctx, id, "gems", []byte(`50`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	raw, err := m.Get(ctx, id, "gems")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(raw, []byte(`50`)) {
		t.Fatalf("got %q; want 50", raw)
	}

	// Возвращаемый срез - копия, мутации не должны протекать в стор
	raw[0] = '9'
	raw2, _ := m.Get(ctx, id, "gems")
	if !bytes.Equal(raw2, []byte(`50`)) {
		t.Fatalf("stored value mutated: %q", raw2)
	}
}

func TestSetAllBatch(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	id, _ := m.EnsurePlayer(ctx, "device-a")

	batch := map[string][]byte{
		"gems":  []byte(`150`),
		"coins": []byte(`2000`),
	}
	if err := m.SetAll(ctx, id, batch); err != nil {
		t.Fatalf("setall: %v", err)
	}
	for key, want := range batch {
		got, err := m.Get(ctx, id, key)
		if err != nil {
			t.Fatalf("get %s: %v", key, err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("%s = %q; want %q", key, got, want)
		}
	}
}

func TestDelete(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	id, _ := m.EnsurePlayer(ctx, "device-a")

	if err := m.Set(ctx, id, "gems", []byte(`50`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := m.Delete(ctx, id, "gems"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := m.Get(ctx, id, "gems"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get after delete err = %v; want ErrNotFound", err)
	}

	// Удаление несуществующего ключа - не ошибка
	if err := m.Delete(ctx, id, "gems"); err != nil {
		t.Fatalf("double delete: %v", err)
	}
}

func TestPlayersListsEveryone(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	a, _ := m.EnsurePlayer(ctx, "device-a")
	b, _ := m.EnsurePlayer(ctx, "device-b")

	ids, err := m.Players(ctx)
	if err != nil {
		t.Fatalf("players: %v", err)
	}
	seen := map[int64]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	if len(ids) != 2 || !seen[a] || !seen[b] {
		t.Fatalf("players = %v; want [%d %d]", ids, a, b)
	}
}

func TestGetJSONCorruptFallsBack(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	id, _ := m.EnsurePlayer(ctx, "device-a")

	if err := m.Set(ctx, id, "lives", []byte(`{not json`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	var dst struct {
		Current int `json:"current"`
	}
	if err := GetJSON(ctx, m, id, "lives", &dst); !errors.Is(err, ErrNotFound) {
		t.Fatalf("corrupt value err = %v; want ErrNotFound", err)
	}
}
