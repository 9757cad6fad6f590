package game

import (
	"context"
	"sync"
	"time"
)

// --- RoomStore ---

// fakeStore is an in-memory RoomStore that records every write. UpdatedAt is
// stamped on upsert so the matchmaking sort is observable.
type fakeStore struct {
	mu        sync.Mutex
	snapshots map[string]RoomSnapshot
	writes    int
	failWith  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{snapshots: make(map[string]RoomSnapshot)}
}

func (s *fakeStore) Upsert(ctx context.Context, snap RoomSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	snap.UpdatedAt = time.Now()
	s.snapshots[snap.RoomID] = snap
	s.writes++
	return nil
}

func (s *fakeStore) Find(ctx context.Context, roomID string) (RoomSnapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snapshots[roomID]
	return snap, ok, nil
}

func (s *fakeStore) Delete(ctx context.Context, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, roomID)
	return nil
}

func (s *fakeStore) FindAvailableGlobal(ctx context.Context, capacity int) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	best := ""
	var bestAt time.Time
	for id, snap := range s.snapshots {
		if snap.Mode != ModeGlobal || !snap.IsActive || len(snap.Players) >= capacity {
			continue
		}
		if best == "" || snap.UpdatedAt.Before(bestAt) {
			best = id
			bestAt = snap.UpdatedAt
		}
	}
	return best, best != "", nil
}

func (s *fakeStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *fakeStore) put(snap RoomSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snap.RoomID] = snap
}

// --- Conn ---

type sentFrame struct {
	Event string
	Data  any
}

// fakeConn records every frame pushed to one participant.
type fakeConn struct {
	mu     sync.Mutex
	frames []sentFrame
}

func (c *fakeConn) Send(event string, data any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, sentFrame{Event: event, Data: data})
}

func (c *fakeConn) sent() []sentFrame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]sentFrame(nil), c.frames...)
}

func (c *fakeConn) lastOf(event string) (sentFrame, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.frames) - 1; i >= 0; i-- {
		if c.frames[i].Event == event {
			return c.frames[i], true
		}
	}
	return sentFrame{}, false
}

// --- Broadcaster ---

type broadcastFrame struct {
	RoomID string
	Event  string
	Data   any
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	frames []broadcastFrame
}

func (b *fakeBroadcaster) Join(roomID string, c Conn) {}
func (b *fakeBroadcaster) Leave(roomID string, c Conn) {}

func (b *fakeBroadcaster) Broadcast(roomID string, event string, data any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frames = append(b.frames, broadcastFrame{RoomID: roomID, Event: event, Data: data})
}

func (b *fakeBroadcaster) BroadcastExcept(roomID string, except Conn, event string, data any) {
	b.Broadcast(roomID, event, data)
}

func (b *fakeBroadcaster) byEvent(event string) []broadcastFrame {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []broadcastFrame
	for _, f := range b.frames {
		if f.Event == event {
			out = append(out, f)
		}
	}
	return out
}

// --- WordGenerator ---

// seqWords hands out a fixed cycle of words.
type seqWords struct {
	mu    sync.Mutex
	words []string
	next  int
}

func (g *seqWords) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	w := g.words[g.next%len(g.words)]
	g.next++
	return w
}

// --- Replier ---

type stubReplier struct{ text string }

func (r *stubReplier) Reply(ctx context.Context, secretWord, guess string) (string, error) {
	return r.text, nil
}

// --- harness ---

func testConfig() Config {
	return Config{
		DebounceDelay:      30 * time.Millisecond,
		RotationDelay:      40 * time.Millisecond,
		GracePeriod:        60 * time.Millisecond,
		GlobalRoomCapacity: 3,
		AIName:             "Doodles",
		AIReplyDelay:       5 * time.Millisecond,
		AITypingDuration:   5 * time.Millisecond,
	}
}

func newTestService(wordSeq ...string) (*Service, *fakeStore, *fakeBroadcaster) {
	if len(wordSeq) == 0 {
		wordSeq = []string{"pencil"}
	}
	store := newFakeStore()
	bcast := &fakeBroadcaster{}
	svc := NewService(store, bcast, &seqWords{words: wordSeq}, &stubReplier{text: "nope!"}, testConfig())
	return svc, store, bcast
}
