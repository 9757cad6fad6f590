package socket

import (
	"sync"

	"github.com/UsmanDevCraft/quick-doodle-backend/game"
)

// Hub tracks which connections belong to which room channel and fans events
// out to them. It implements game.Broadcaster.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[game.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[game.Conn]struct{})}
}

func (h *Hub) Join(roomID string, c game.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[roomID]
	if !ok {
		members = make(map[game.Conn]struct{})
		h.rooms[roomID] = members
	}
	members[c] = struct{}{}
}

func (h *Hub) Leave(roomID string, c game.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[roomID]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// Remove drops a connection from every channel, used when its socket dies.
func (h *Hub) Remove(c game.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for roomID, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

func (h *Hub) Broadcast(roomID string, event string, data any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[roomID] {
		c.Send(event, data)
	}
}

func (h *Hub) BroadcastExcept(roomID string, except game.Conn, event string, data any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[roomID] {
		if c == except {
			continue
		}
		c.Send(event, data)
	}
}
