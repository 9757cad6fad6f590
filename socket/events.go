package socket

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// Envelope is the wire frame for every socket exchange. AckID, when present,
// asks for an "ack" envelope carrying the handler's response.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
	AckID int64           `json:"ackId,omitempty"`
}

type outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
	AckID int64  `json:"ackId,omitempty"`
}

// ack is the {success, message} shape every request/response event resolves
// to. Failures carry a short human-readable message, never internals.
type ack struct {
	Success bool   `json:"success"`
	RoomID  string `json:"roomId,omitempty"`
	Message string `json:"message,omitempty"`
}

type createRoomPayload struct {
	RoomID   string `json:"roomId" validate:"required"`
	Username string `json:"username" validate:"required"`
	Mode     string `json:"mode"`
}

type joinRoomPayload struct {
	RoomID   string `json:"roomId" validate:"required"`
	Username string `json:"username" validate:"required"`
}

type joinGlobalRoomPayload struct {
	Username string `json:"username" validate:"required"`
}

type leaveRoomPayload struct {
	RoomID   string `json:"roomId" validate:"required"`
	Username string `json:"username" validate:"required"`
}

type requestRoomInfoPayload struct {
	RoomID   string `json:"roomId" validate:"required"`
	Username string `json:"username"`
}

type checkRoomPayload struct {
	RoomID   string `json:"roomId" validate:"required"`
	Username string `json:"username"`
}

type chatMessagePayload struct {
	RoomID   string `json:"roomId" validate:"required"`
	Username string `json:"username" validate:"required"`
	Text     string `json:"text" validate:"required"`
}

type guessWordPayload struct {
	RoomID   string `json:"roomId" validate:"required"`
	Username string `json:"username" validate:"required"`
	Guess    string `json:"guess" validate:"required"`
}

type drawingPayload struct {
	RoomID string          `json:"roomId" validate:"required"`
	Data   json.RawMessage `json:"data"`
}

type toggleModePayload struct {
	RoomID string `json:"roomId" validate:"required"`
	Mode   string `json:"mode"`
}

type voteKickPayload struct {
	RoomID string `json:"roomId" validate:"required"`
	Target string `json:"target" validate:"required"`
	Voter  string `json:"voter" validate:"required"`
}

var validate = validator.New()

// decode unmarshals and validates an inbound payload. Missing required
// fields make the whole event a no-op before it reaches game logic.
func decode[T any](raw json.RawMessage) (T, bool) {
	var payload T
	if err := json.Unmarshal(raw, &payload); err != nil {
		return payload, false
	}
	if err := validate.Struct(payload); err != nil {
		return payload, false
	}
	return payload, true
}
