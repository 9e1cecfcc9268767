package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub keeps the live connections per player and pushes state snapshots
// after server-side mutations (life regen, quest reset, season rollover).
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int64]map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.PlayerID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.PlayerID] = set
	}
	set[c] = struct{}{}
	log.Printf("Hub.Register: player=%d connections=%d", c.PlayerID, len(set))
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.PlayerID]
	if !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.PlayerID)
	}
}

// PushSnapshot sends a state snapshot to every connection of a player.
// Медленный клиент пропускает снапшот, следующий его догонит.
func (h *Hub) PushSnapshot(playerID int64, payload any) {
	data, err := json.Marshal(Message{Type: MsgSnapshot, Payload: payload})
	if err != nil {
		log.Printf("Hub.PushSnapshot: marshal error: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[playerID] {
		select {
		case c.Send <- data:
		default:
		}
	}
}

// Connected reports whether the player has at least one live connection.
func (h *Hub) Connected(playerID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[playerID]) > 0
}
