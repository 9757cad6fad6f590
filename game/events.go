package game

// Wire-level event names. These are the contract with the frontend, carried
// over unchanged from the socket.io protocol.
const (
	EventRoomInfo       = "roomInfo"
	EventUpdatePlayers  = "updatePlayers"
	EventMessage        = "message"
	EventWinner         = "winner"
	EventNewRound       = "newRound"
	EventVoteKickUpdate = "voteKickUpdate"
	EventDrawing        = "drawing"
	EventToggleMode     = "toggleModeChanged"
	EventAITyping       = "aiTyping"
)

// RoomInfo is sent to a single participant; Word is populated only when the
// recipient is the live round's riddler.
type RoomInfo struct {
	RoomID     string        `json:"roomId"`
	Role       string        `json:"role"`
	Word       string        `json:"word,omitempty"`
	WordLength int           `json:"wordLength"`
	Players    []RosterEntry `json:"players"`
	Round      int           `json:"round"`
	Riddler    string        `json:"riddler"`
}

type WinnerPayload struct {
	Username string `json:"username"`
	Word     string `json:"word"`
}

type NewRoundPayload struct {
	WordLength int    `json:"wordLength"`
	Round      int    `json:"round"`
	Riddler    string `json:"riddler"`
}

type VoteKickUpdate struct {
	Target        string `json:"target"`
	Votes         int    `json:"votes"`
	RequiredVotes int    `json:"requiredVotes"`
}

// CheckResult answers the read-only checkRoom probe.
type CheckResult struct {
	Exists           bool   `json:"exists"`
	IsUsernameExists bool   `json:"isUsernameExists,omitempty"`
	Message          string `json:"message"`
}

// RoomDetails is the non-realtime lookup payload: RoomInfo plus the full
// chat log.
type RoomDetails struct {
	RoomInfo
	Chats []ChatMessage `json:"chats"`
}
