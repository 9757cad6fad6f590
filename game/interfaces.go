package game

import "context"

// Conn is one participant's transport handle. Send must never block: slow
// consumers are the transport layer's problem, not the room's.
type Conn interface {
	Send(event string, data any)
}

// Broadcaster is the per-room fan-out the transport layer provides.
type Broadcaster interface {
	Join(roomID string, c Conn)
	Leave(roomID string, c Conn)
	Broadcast(roomID string, event string, data any)
	BroadcastExcept(roomID string, except Conn, event string, data any)
}

// RoomStore is the durable key-addressed store behind the live room map.
type RoomStore interface {
	Upsert(ctx context.Context, snap RoomSnapshot) error
	Find(ctx context.Context, roomID string) (RoomSnapshot, bool, error)
	Delete(ctx context.Context, roomID string) error

	// FindAvailableGlobal returns the id of the least-recently-updated
	// active global room with fewer than capacity players.
	FindAvailableGlobal(ctx context.Context, capacity int) (string, bool, error)
}

// WordGenerator yields a lowercase secret token within the configured
// length range.
type WordGenerator interface {
	Generate() string
}

// Replier produces the AI riddler's chat reply. It is a black box with no
// bearing on game state.
type Replier interface {
	Reply(ctx context.Context, secretWord, guess string) (string, error)
}
