package game

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/UsmanDevCraft/quick-doodle-backend/metrics"
)

// Repository owns the canonical in-memory map of active rooms. It is the
// single source of truth while a room is live; the durable store only catches
// up asynchronously.
type Repository struct {
	mu     sync.RWMutex
	rooms  map[string]*Room
	store  RoomStore
	words  WordGenerator
	aiName string
}

func NewRepository(store RoomStore, words WordGenerator, aiName string) *Repository {
	return &Repository{
		rooms:  make(map[string]*Room),
		store:  store,
		words:  words,
		aiName: aiName,
	}
}

func (r *Repository) Get(roomID string) (*Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[roomID]
	return room, ok
}

func (r *Repository) Put(room *Room) {
	r.mu.Lock()
	r.rooms[room.ID] = room
	metrics.ActiveRooms.Set(float64(len(r.rooms)))
	r.mu.Unlock()
}

// EnsureLoaded returns the in-memory room, hydrating it from the durable
// store on a miss. A store miss means the room does not exist for every
// write path.
func (r *Repository) EnsureLoaded(ctx context.Context, roomID string) (*Room, bool) {
	if room, ok := r.Get(roomID); ok {
		return room, true
	}

	snap, found, err := r.store.Find(ctx, roomID)
	if err != nil {
		log.Error().Err(err).Str("room", roomID).Msg("room hydration failed")
		return nil, false
	}
	if !found {
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Someone else may have hydrated while we were reading the store.
	if room, ok := r.rooms[roomID]; ok {
		return room, true
	}
	room := restoreRoom(snap, r.words, r.aiName)
	r.rooms[roomID] = room
	metrics.ActiveRooms.Set(float64(len(r.rooms)))
	log.Info().Str("room", roomID).Msg("room restored from store")
	return room, true
}

// FindByConn locates the room and player bound to a transport connection.
func (r *Repository) FindByConn(c Conn) (*Room, *Player) {
	r.mu.RLock()
	rooms := make([]*Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, room)
	}
	r.mu.RUnlock()

	for _, room := range rooms {
		room.Lock()
		for _, p := range room.Players {
			if p.conn == c {
				room.Unlock()
				return room, p
			}
		}
		room.Unlock()
	}
	return nil, nil
}
