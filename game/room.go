package game

import (
	"strings"
	"sync"
	"time"
)

type RoomMode string

const (
	ModePrivate RoomMode = "private"
	ModeGlobal  RoomMode = "global"
	ModeAI      RoomMode = "ai"
)

// RoomPhase tracks where the live round stands. A room leaves
// PhaseAwaitingGuess the moment a correct guess is admitted and returns to it
// when the delayed rotation fires.
type RoomPhase int

const (
	PhaseAwaitingGuess RoomPhase = iota
	PhaseRoundResolving
	PhaseRoomEmpty
)

// SystemAuthor is the reserved chat author for server-generated lines.
const SystemAuthor = "System"

type Player struct {
	Username  string
	Score     int
	IsHost    bool
	Connected bool
	JoinedAt  time.Time

	// conn is nil while the player is disconnected.
	conn Conn

	// graceGen invalidates in-flight grace timers: every disconnect and
	// every reconnect bumps it, so a timer only finalizes removal when no
	// rebind happened since it was armed.
	graceGen uint64
}

type Guess struct {
	Player    string    `json:"player" bson:"player"`
	Text      string    `json:"guess" bson:"guess"`
	Correct   bool      `json:"correct" bson:"correct"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

type Round struct {
	RoundNumber int       `json:"roundNumber" bson:"roundNumber"`
	Word        string    `json:"word" bson:"word"`
	Riddler     string    `json:"riddler" bson:"riddler"`
	Winner      string    `json:"winner,omitempty" bson:"winner,omitempty"`
	Guesses     []Guess   `json:"guesses" bson:"guesses"`
	StartedAt   time.Time `json:"startedAt" bson:"startedAt"`
	// Pointer so an open round omits the field entirely when serialized.
	EndedAt *time.Time `json:"endedAt,omitempty" bson:"endedAt,omitempty"`
}

type ChatMessage struct {
	ID        string    `json:"id" bson:"id"`
	Author    string    `json:"player" bson:"player"`
	Text      string    `json:"text" bson:"text"`
	IsSystem  bool      `json:"isSystem" bson:"isSystem"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// Room is one active game session. All mutation happens under mu; components
// outside this package only reach a Room through the Service.
type Room struct {
	mu sync.Mutex

	ID           string
	Mode         RoomMode
	HostName     string
	IsActive     bool
	Players      []*Player
	Rounds       []*Round
	CurrentRound int // 1-based index into Rounds
	CurrentWord  string
	ChatLog      []ChatMessage
	BanList      map[string]struct{}
	KickBallots  map[string]map[string]struct{}
	CreatedAt    time.Time

	phase RoomPhase

	// AI persona, mode == ai only. Lives outside the persisted snapshot.
	aiName    string
	aiGreeted bool
}

func (r *Room) Lock()   { r.mu.Lock() }
func (r *Room) Unlock() { r.mu.Unlock() }

// currentRoundData returns the live round. Rounds is append-only and
// len(Rounds) == CurrentRound always holds, so this never misses.
func (r *Room) currentRoundData() *Round {
	if r.CurrentRound < 1 || r.CurrentRound > len(r.Rounds) {
		return nil
	}
	return r.Rounds[r.CurrentRound-1]
}

// findPlayer matches usernames case-insensitively; they are unique per room.
func (r *Room) findPlayer(username string) (int, *Player) {
	for i, p := range r.Players {
		if strings.EqualFold(p.Username, username) {
			return i, p
		}
	}
	return -1, nil
}

func (r *Room) isBanned(username string) bool {
	_, banned := r.BanList[username]
	return banned
}

// RosterEntry is the public projection of a Player: no secret word, no
// connection handle.
type RosterEntry struct {
	Name   string `json:"name"`
	Score  int    `json:"score"`
	IsHost bool   `json:"isHost"`
}

func (r *Room) publicPlayers() []RosterEntry {
	roster := make([]RosterEntry, 0, len(r.Players))
	for _, p := range r.Players {
		roster = append(roster, RosterEntry{Name: p.Username, Score: p.Score, IsHost: p.IsHost})
	}
	return roster
}

// PlayerSnapshot is the persisted projection of a Player.
type PlayerSnapshot struct {
	Username string    `json:"username"`
	Score    int       `json:"score"`
	IsHost   bool      `json:"isHost"`
	JoinedAt time.Time `json:"joinedAt"`
}

// RoomSnapshot is the durable projection of a Room: live-only fields
// (connection handles, phase, grace bookkeeping) are excluded and set state
// flattens to plain lists.
type RoomSnapshot struct {
	RoomID       string
	Host         string
	Mode         RoomMode
	CurrentWord  string
	CurrentRound int
	Players      []PlayerSnapshot
	Rounds       []Round
	Chats        []ChatMessage
	Banned       []string
	KickVotes    map[string][]string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Snapshot captures the persisted projection. Caller must hold the room lock.
func (r *Room) Snapshot() RoomSnapshot {
	snap := RoomSnapshot{
		RoomID:       r.ID,
		Host:         r.HostName,
		Mode:         r.Mode,
		CurrentWord:  r.CurrentWord,
		CurrentRound: r.CurrentRound,
		Players:      make([]PlayerSnapshot, 0, len(r.Players)),
		Rounds:       make([]Round, 0, len(r.Rounds)),
		Chats:        append([]ChatMessage(nil), r.ChatLog...),
		Banned:       make([]string, 0, len(r.BanList)),
		KickVotes:    make(map[string][]string, len(r.KickBallots)),
		IsActive:     r.IsActive,
		CreatedAt:    r.CreatedAt,
	}
	for _, p := range r.Players {
		snap.Players = append(snap.Players, PlayerSnapshot{
			Username: p.Username,
			Score:    p.Score,
			IsHost:   p.IsHost,
			JoinedAt: p.JoinedAt,
		})
	}
	for _, rd := range r.Rounds {
		copied := *rd
		copied.Guesses = append([]Guess(nil), rd.Guesses...)
		snap.Rounds = append(snap.Rounds, copied)
	}
	for name := range r.BanList {
		snap.Banned = append(snap.Banned, name)
	}
	for target, voters := range r.KickBallots {
		list := make([]string, 0, len(voters))
		for voter := range voters {
			list = append(list, voter)
		}
		snap.KickVotes[target] = list
	}
	return snap
}

// restoreRoom rebuilds an in-memory Room from cold storage. Players come back
// with no live connection; missing rounds, chat log and word are defaulted the
// same way the room would have been created.
func restoreRoom(snap RoomSnapshot, words WordGenerator, aiName string) *Room {
	room := &Room{
		ID:           snap.RoomID,
		Mode:         snap.Mode,
		HostName:     snap.Host,
		IsActive:     snap.IsActive,
		CurrentWord:  snap.CurrentWord,
		CurrentRound: snap.CurrentRound,
		ChatLog:      append([]ChatMessage(nil), snap.Chats...),
		BanList:      make(map[string]struct{}, len(snap.Banned)),
		KickBallots:  make(map[string]map[string]struct{}, len(snap.KickVotes)),
		CreatedAt:    snap.CreatedAt,
	}
	if room.Mode == "" {
		room.Mode = ModePrivate
	}
	if room.Mode == ModeAI {
		room.aiName = aiName
	}
	if room.CurrentWord == "" {
		room.CurrentWord = words.Generate()
	}
	if room.CurrentRound < 1 {
		room.CurrentRound = 1
	}
	if room.CreatedAt.IsZero() {
		room.CreatedAt = time.Now()
	}
	for _, p := range snap.Players {
		joined := p.JoinedAt
		if joined.IsZero() {
			joined = time.Now()
		}
		room.Players = append(room.Players, &Player{
			Username:  p.Username,
			Score:     p.Score,
			IsHost:    p.IsHost,
			Connected: false,
			JoinedAt:  joined,
		})
	}
	if len(snap.Rounds) > 0 {
		for _, rd := range snap.Rounds {
			copied := rd
			copied.Guesses = append([]Guess(nil), rd.Guesses...)
			room.Rounds = append(room.Rounds, &copied)
		}
	} else {
		room.Rounds = []*Round{{
			RoundNumber: 1,
			Word:        room.CurrentWord,
			Riddler:     room.HostName,
			Guesses:     []Guess{},
			StartedAt:   time.Now(),
		}}
		room.CurrentRound = 1
	}
	for _, name := range snap.Banned {
		room.BanList[name] = struct{}{}
	}
	for target, voters := range snap.KickVotes {
		set := make(map[string]struct{}, len(voters))
		for _, voter := range voters {
			set[voter] = struct{}{}
		}
		room.KickBallots[target] = set
	}
	return room
}
