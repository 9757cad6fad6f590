package game

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Config carries the coordinator's tunables. Timings are injected so tests
// can compress them.
type Config struct {
	DebounceDelay      time.Duration
	RotationDelay      time.Duration
	GracePeriod        time.Duration
	GlobalRoomCapacity int
	AIName             string
	AIReplyDelay       time.Duration
	AITypingDuration   time.Duration
}

func DefaultConfig() Config {
	return Config{
		DebounceDelay:      time.Second,
		RotationDelay:      2500 * time.Millisecond,
		GracePeriod:        30 * time.Second,
		GlobalRoomCapacity: 12,
		AIName:             "Doodles",
		AIReplyDelay:       1200 * time.Millisecond,
		AITypingDuration:   1200 * time.Millisecond,
	}
}

// Service is the authoritative coordinator for every active room. All
// mutating operations lock the target room for their whole duration, so per
// room they behave as if serialized in arrival order; different rooms never
// contend.
type Service struct {
	repo    *Repository
	sched   *Scheduler
	store   RoomStore
	bcast   Broadcaster
	words   WordGenerator
	replier Replier
	cfg     Config
}

func NewService(store RoomStore, bcast Broadcaster, words WordGenerator, replier Replier, cfg Config) *Service {
	return &Service{
		repo:    NewRepository(store, words, cfg.AIName),
		sched:   NewScheduler(store, cfg.DebounceDelay),
		store:   store,
		bcast:   bcast,
		words:   words,
		replier: replier,
		cfg:     cfg,
	}
}

// CreateRoom builds a fresh room with its creator as host and riddler of
// round one. conn may be nil on the HTTP path; the creator then joins over
// the socket later.
func (s *Service) CreateRoom(ctx context.Context, roomID, username string, mode RoomMode, conn Conn) (RoomInfo, error) {
	if mode == "" {
		mode = ModePrivate
	}
	word := s.words.Generate()
	now := time.Now()

	room := &Room{
		ID:           roomID,
		Mode:         mode,
		HostName:     username,
		IsActive:     true,
		CurrentWord:  word,
		CurrentRound: 1,
		Players: []*Player{{
			Username:  username,
			IsHost:    true,
			Connected: conn != nil,
			JoinedAt:  now,
			conn:      conn,
		}},
		Rounds: []*Round{{
			RoundNumber: 1,
			Word:        word,
			Riddler:     username,
			Guesses:     []Guess{},
			StartedAt:   now,
		}},
		ChatLog:     []ChatMessage{},
		BanList:     make(map[string]struct{}),
		KickBallots: make(map[string]map[string]struct{}),
		CreatedAt:   now,
	}
	if mode == ModeAI {
		room.aiName = s.cfg.AIName
	}

	room.Lock()
	s.repo.Put(room)
	if conn != nil {
		s.bcast.Join(roomID, conn)
	}
	info := s.roomInfoFor(room, username, "riddler")
	s.sched.Schedule(room, true)
	room.Unlock()

	if conn != nil {
		conn.Send(EventRoomInfo, info)
	}
	log.Info().Str("room", roomID).Str("host", username).Str("mode", string(mode)).Msg("room created")
	return info, nil
}

// CheckRoom is a read-only availability probe; it hydrates but mutates
// nothing.
func (s *Service) CheckRoom(ctx context.Context, roomID, username string) CheckResult {
	room, ok := s.repo.EnsureLoaded(ctx, roomID)
	if !ok {
		return CheckResult{Exists: false, Message: "Room not found"}
	}

	room.Lock()
	defer room.Unlock()

	if !room.IsActive {
		return CheckResult{Exists: false, Message: "Room is no longer active"}
	}
	if _, p := room.findPlayer(username); p != nil {
		return CheckResult{Exists: true, IsUsernameExists: true, Message: "Username already taken in this room"}
	}
	return CheckResult{Exists: true, Message: "Room is available"}
}

// RequestRoomInfo re-sends roomInfo plus the full chat replay to one
// participant. When the username matches an existing player the connection is
// re-bound, which doubles as a cheap reconnect path.
func (s *Service) RequestRoomInfo(ctx context.Context, roomID, username string, conn Conn) {
	room, ok := s.repo.EnsureLoaded(ctx, roomID)
	if !ok {
		return
	}

	room.Lock()
	s.bcast.Join(roomID, conn)

	if username != "" {
		if _, p := room.findPlayer(username); p != nil {
			p.conn = conn
			p.Connected = true
			p.graceGen++
			log.Debug().Str("room", roomID).Str("player", username).Msg("connection re-bound via requestRoomInfo")
		}
		s.broadcastRoster(room)
		s.sched.Schedule(room, true)
	}

	role := "guesser"
	if rd := room.currentRoundData(); rd != nil && rd.Riddler == username {
		role = "riddler"
	}
	info := s.roomInfoFor(room, username, role)
	replay := append([]ChatMessage(nil), room.ChatLog...)
	room.Unlock()

	conn.Send(EventRoomInfo, info)
	for _, msg := range replay {
		conn.Send(EventMessage, msg)
	}
}

// RoomDetails backs the non-realtime HTTP lookup.
func (s *Service) RoomDetails(ctx context.Context, roomID, username string) (RoomDetails, bool) {
	room, ok := s.repo.EnsureLoaded(ctx, roomID)
	if !ok {
		return RoomDetails{}, false
	}

	room.Lock()
	defer room.Unlock()

	role := "guesser"
	if rd := room.currentRoundData(); rd != nil && username != "" && rd.Riddler == username {
		role = "riddler"
	}
	return RoomDetails{
		RoomInfo: s.roomInfoFor(room, username, role),
		Chats:    append([]ChatMessage(nil), room.ChatLog...),
	}, true
}

// roomInfoFor builds the per-participant view. The secret word is disclosed
// only to the riddler. Caller must hold the room lock.
func (s *Service) roomInfoFor(room *Room, username, role string) RoomInfo {
	info := RoomInfo{
		RoomID:     room.ID,
		Role:       role,
		WordLength: len(room.CurrentWord),
		Players:    room.publicPlayers(),
		Round:      room.CurrentRound,
		Riddler:    room.HostName,
	}
	if rd := room.currentRoundData(); rd != nil && rd.Riddler != "" {
		info.Riddler = rd.Riddler
	}
	if role == "riddler" {
		info.Word = room.CurrentWord
	}
	return info
}

func newChatID() string { return uuid.NewString() }

// appendSystemChat records and broadcasts one system line. Caller must hold
// the room lock.
func (s *Service) appendSystemChat(room *Room, text string) {
	msg := ChatMessage{
		ID:        newChatID(),
		Author:    SystemAuthor,
		Text:      text,
		IsSystem:  true,
		Timestamp: time.Now(),
	}
	room.ChatLog = append(room.ChatLog, msg)
	s.bcast.Broadcast(room.ID, EventMessage, msg)
}

// broadcastRoster pushes the public player list to the whole room. Caller
// must hold the room lock.
func (s *Service) broadcastRoster(room *Room) {
	s.bcast.Broadcast(room.ID, EventUpdatePlayers, room.publicPlayers())
}
