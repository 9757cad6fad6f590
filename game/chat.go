package game

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
)

const aiGreetingText = "Hehe... ready when you are. Take a guess."

// Chat appends a free-form message and broadcasts it. In AI rooms the
// resident persona answers: a one-time greeting first, then a taunt generated
// from the secret word and the message. AI output never touches game state.
func (s *Service) Chat(ctx context.Context, roomID, username, text string) {
	room, ok := s.repo.Get(roomID)
	if !ok {
		return
	}

	room.Lock()
	defer room.Unlock()

	msg := ChatMessage{
		ID:        newChatID(),
		Author:    username,
		Text:      text,
		IsSystem:  false,
		Timestamp: time.Now(),
	}
	room.ChatLog = append(room.ChatLog, msg)
	s.bcast.Broadcast(roomID, EventMessage, msg)
	s.sched.Schedule(room, false)

	if room.Mode != ModeAI || room.aiName == "" || username == room.aiName {
		return
	}

	if !room.aiGreeted {
		room.aiGreeted = true
		s.announceAITyping(roomID)
		time.AfterFunc(s.cfg.AIReplyDelay, func() {
			s.appendAIMessage(roomID, aiGreetingText)
		})
		return
	}

	s.announceAITyping(roomID)
	word := room.CurrentWord
	go func() {
		reply, err := s.replier.Reply(context.Background(), word, text)
		if err != nil {
			log.Warn().Err(err).Str("room", roomID).Msg("ai reply failed")
			return
		}
		time.Sleep(s.cfg.AIReplyDelay)
		s.appendAIMessage(roomID, reply)
	}()
}

func (s *Service) announceAITyping(roomID string) {
	s.bcast.Broadcast(roomID, EventAITyping, true)
	time.AfterFunc(s.cfg.AITypingDuration, func() {
		s.bcast.Broadcast(roomID, EventAITyping, false)
	})
}

func (s *Service) appendAIMessage(roomID, text string) {
	room, ok := s.repo.Get(roomID)
	if !ok {
		return
	}

	room.Lock()
	defer room.Unlock()

	msg := ChatMessage{
		ID:        newChatID(),
		Author:    room.aiName,
		Text:      text,
		IsSystem:  false,
		Timestamp: time.Now(),
	}
	room.ChatLog = append(room.ChatLog, msg)
	s.bcast.Broadcast(roomID, EventMessage, msg)
	s.sched.Schedule(room, false)
}

// RelayDrawing forwards stroke payloads verbatim to everyone else in the
// room. Strokes are opaque: no state is touched.
func (s *Service) RelayDrawing(roomID string, from Conn, payload json.RawMessage) {
	s.bcast.BroadcastExcept(roomID, from, EventDrawing, payload)
}

// RelayToggleMode mirrors the draw-box toggle to the rest of the room.
func (s *Service) RelayToggleMode(roomID string, from Conn, mode string) {
	s.bcast.BroadcastExcept(roomID, from, EventToggleMode, map[string]string{"mode": mode})
}
