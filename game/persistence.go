package game

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/UsmanDevCraft/quick-doodle-backend/metrics"
)

const persistWriteTimeout = 5 * time.Second

// Scheduler debounces room writes so a chat flood or guess burst produces at
// most one write per window. Immediate writes cancel the pending debounce and
// go out right away, but in their own goroutine: the live protocol path never
// waits on the store.
type Scheduler struct {
	mu      sync.Mutex
	timers  map[string]*time.Timer
	writers map[string]*roomWriter
	store   RoomStore
	delay   time.Duration
}

// roomWriter serializes store writes for one room. Snapshots are numbered in
// capture order; a write that reaches the store after a newer snapshot has
// already landed is skipped, so the durable record always converges on the
// last-captured state.
type roomWriter struct {
	mu      sync.Mutex
	seq     uint64
	written uint64
}

func NewScheduler(store RoomStore, delay time.Duration) *Scheduler {
	return &Scheduler{
		timers:  make(map[string]*time.Timer),
		writers: make(map[string]*roomWriter),
		store:   store,
		delay:   delay,
	}
}

// Schedule persists the room's snapshot. Caller must hold the room lock; the
// snapshot is captured and numbered synchronously so writes reflect mutation
// order even when their goroutines race.
func (s *Scheduler) Schedule(room *Room, immediate bool) {
	snap := room.Snapshot()
	roomID := room.ID

	s.mu.Lock()
	if timer, ok := s.timers[roomID]; ok {
		timer.Stop()
		delete(s.timers, roomID)
	}
	w, ok := s.writers[roomID]
	if !ok {
		w = &roomWriter{}
		s.writers[roomID] = w
	}
	w.seq++
	seq := w.seq
	if immediate {
		s.mu.Unlock()
		go s.write(w, seq, snap)
		return
	}
	s.timers[roomID] = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		delete(s.timers, roomID)
		s.mu.Unlock()
		s.write(w, seq, snap)
	})
	s.mu.Unlock()
}

// Cancel drops any pending debounce for a room that went inactive.
func (s *Scheduler) Cancel(roomID string) {
	s.mu.Lock()
	if timer, ok := s.timers[roomID]; ok {
		timer.Stop()
		delete(s.timers, roomID)
	}
	s.mu.Unlock()
}

// write failures are logged and swallowed: the in-memory room stays
// authoritative and a later successful write reconciles the store.
func (s *Scheduler) write(w *roomWriter, seq uint64, snap RoomSnapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()

	// A newer snapshot already reached the store; writing this one would
	// roll the durable record backwards.
	if seq <= w.written {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistWriteTimeout)
	defer cancel()

	if err := s.store.Upsert(ctx, snap); err != nil {
		metrics.PersistFailures.Inc()
		log.Error().Err(err).Str("room", snap.RoomID).Msg("room save failed")
		return
	}
	w.written = seq
	metrics.PersistWrites.Inc()
	log.Debug().Str("room", snap.RoomID).Msg("room saved")
}
