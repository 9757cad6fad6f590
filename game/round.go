package game

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const winnerPoints = 10

// SubmitGuess evaluates one guess against the live round. Wrong guesses
// double as public chat; the first correct guess wins the round and schedules
// rotation. Correct guesses arriving after the round resolved are no-ops onto
// the chat path: the room is already past awaiting-guess.
func (s *Service) SubmitGuess(ctx context.Context, roomID, username, guess string) {
	room, ok := s.repo.Get(roomID)
	if !ok {
		return
	}

	room.Lock()
	defer room.Unlock()

	rd := room.currentRoundData()
	if rd == nil {
		return
	}

	normalized := strings.ToLower(strings.TrimSpace(guess))
	correct := normalized == strings.ToLower(room.CurrentWord)
	_, player := room.findPlayer(username)
	wins := correct && room.phase == PhaseAwaitingGuess && player != nil

	rd.Guesses = append(rd.Guesses, Guess{
		Player:    username,
		Text:      guess,
		Correct:   wins,
		Timestamp: time.Now(),
	})

	if !wins {
		msg := ChatMessage{
			ID:        newChatID(),
			Author:    username,
			Text:      guess,
			IsSystem:  false,
			Timestamp: time.Now(),
		}
		room.ChatLog = append(room.ChatLog, msg)
		s.bcast.Broadcast(roomID, EventMessage, msg)
		s.sched.Schedule(room, false)
		return
	}

	player.Score += winnerPoints
	rd.Winner = username
	ended := time.Now()
	rd.EndedAt = &ended
	room.phase = PhaseRoundResolving
	log.Info().Str("room", roomID).Str("winner", username).Int("round", room.CurrentRound).Msg("word guessed")

	s.bcast.Broadcast(roomID, EventWinner, WinnerPayload{Username: username, Word: room.CurrentWord})
	s.appendSystemChat(room, fmt.Sprintf("%s guessed the word %q!", username, room.CurrentWord))
	s.sched.Schedule(room, true)

	// Let clients display the reveal before the next round starts. The
	// callback re-checks that this exact round is still the one resolving.
	resolved := room.CurrentRound
	time.AfterFunc(s.cfg.RotationDelay, func() {
		room.Lock()
		defer room.Unlock()
		if room.CurrentRound != resolved || room.phase != PhaseRoundResolving {
			return
		}
		s.rotateLocked(room)
	})
}

// rotateLocked advances the room to the next round: the riddler slot moves
// one position past the previous riddler's index (wrapping to the front), a
// fresh word is generated and a new round appended. Caller must hold the
// room lock.
func (s *Service) rotateLocked(room *Room) {
	if len(room.Players) == 0 {
		room.phase = PhaseRoomEmpty
		log.Info().Str("room", room.ID).Msg("rotation found an empty room")
		return
	}

	room.CurrentRound++

	// Index-based advance: a departed riddler resolves to -1, so the slot
	// still moves deterministically to index 0.
	prev := room.Rounds[room.CurrentRound-2].Riddler
	prevIdx := -1
	for i, p := range room.Players {
		if p.Username == prev {
			prevIdx = i
			break
		}
	}
	next := room.Players[(prevIdx+1)%len(room.Players)]

	room.CurrentWord = s.words.Generate()
	room.Rounds = append(room.Rounds, &Round{
		RoundNumber: room.CurrentRound,
		Word:        room.CurrentWord,
		Riddler:     next.Username,
		Guesses:     []Guess{},
		StartedAt:   time.Now(),
	})
	room.phase = PhaseAwaitingGuess
	log.Info().Str("room", room.ID).Int("round", room.CurrentRound).Str("riddler", next.Username).Msg("round started")

	// Logged for replay only; clients learn about the round from newRound.
	room.ChatLog = append(room.ChatLog, ChatMessage{
		ID:        newChatID(),
		Author:    SystemAuthor,
		Text:      fmt.Sprintf("Round %d started - %s is the riddler!", room.CurrentRound, next.Username),
		IsSystem:  true,
		Timestamp: time.Now(),
	})

	s.bcast.Broadcast(room.ID, EventNewRound, NewRoundPayload{
		WordLength: len(room.CurrentWord),
		Round:      room.CurrentRound,
		Riddler:    next.Username,
	})
	if next.conn != nil {
		next.conn.Send(EventRoomInfo, s.roomInfoFor(room, next.Username, "riddler"))
	}
	s.broadcastRoster(room)
	s.sched.Schedule(room, true)
}
