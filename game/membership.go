package game

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Join admits a participant into a room, treating an existing username as a
// reconnection: the connection handle is re-bound and no duplicate Player is
// created.
func (s *Service) Join(ctx context.Context, roomID, username string, conn Conn) error {
	return s.join(ctx, roomID, username, conn, 0)
}

// join is Join with an optional capacity ceiling, re-checked against the
// live roster under the room lock: the store snapshot a matchmaking query
// selected on may be stale. A capacity of 0 means unlimited; reconnections
// never count against it.
func (s *Service) join(ctx context.Context, roomID, username string, conn Conn, capacity int) error {
	room, ok := s.repo.EnsureLoaded(ctx, roomID)
	if !ok {
		return ErrRoomNotFound
	}

	room.Lock()
	defer room.Unlock()

	if room.isBanned(username) {
		log.Info().Str("room", roomID).Str("player", username).Msg("banned player rejected")
		return ErrBanned
	}

	_, existing := room.findPlayer(username)
	if existing == nil {
		if capacity > 0 && len(room.Players) >= capacity {
			log.Info().Str("room", roomID).Str("player", username).Int("players", len(room.Players)).Msg("room at capacity")
			return ErrRoomFull
		}
		room.Players = append(room.Players, &Player{
			Username:  username,
			Connected: true,
			JoinedAt:  time.Now(),
			conn:      conn,
		})
		log.Info().Str("room", roomID).Str("player", username).Int("players", len(room.Players)).Msg("player joined")
	} else {
		existing.conn = conn
		existing.Connected = true
		existing.graceGen++
		log.Info().Str("room", roomID).Str("player", username).Msg("player reconnected")
	}

	s.bcast.Join(roomID, conn)

	role := "player"
	if rd := room.currentRoundData(); rd != nil && rd.Riddler == username {
		role = "riddler"
	}
	conn.Send(EventRoomInfo, s.roomInfoFor(room, username, role))

	s.broadcastRoster(room)
	s.sched.Schedule(room, true)
	return nil
}

// Leave is an explicit departure.
func (s *Service) Leave(ctx context.Context, roomID, username string) error {
	room, ok := s.repo.Get(roomID)
	if !ok {
		return ErrRoomNotFound
	}

	room.Lock()
	defer room.Unlock()

	idx, player := room.findPlayer(username)
	if player == nil {
		return ErrPlayerNotFound
	}

	conn := player.conn
	s.removePlayerLocked(room, idx)
	if conn != nil {
		s.bcast.Leave(roomID, conn)
	}
	return nil
}

// removePlayerLocked splices a player out and settles the fallout: host
// succession, riddler reassignment on the live round, deactivation of an
// emptied room, one summarizing system line, roster broadcast and an
// immediate persist. Caller must hold the room lock.
func (s *Service) removePlayerLocked(room *Room, idx int) {
	left := room.Players[idx]
	room.Players = append(room.Players[:idx], room.Players[idx+1:]...)
	log.Info().Str("room", room.ID).Str("player", left.Username).Int("remaining", len(room.Players)).Msg("player removed")

	systemMessage := fmt.Sprintf("%s left the room.", left.Username)

	if left.IsHost {
		if len(room.Players) > 0 {
			room.Players[0].IsHost = true
			room.HostName = room.Players[0].Username
			systemMessage += fmt.Sprintf(" %s is now the host.", room.HostName)
		} else {
			room.IsActive = false
			systemMessage += " The room is now inactive."
		}
	}

	// The word is intentionally left unchanged when the riddler departs;
	// only the live round's riddler moves to the first remaining player.
	if rd := room.currentRoundData(); rd != nil && rd.Riddler == left.Username && len(room.Players) > 0 {
		rd.Riddler = room.Players[0].Username
		systemMessage += fmt.Sprintf(" %s is now the riddler.", rd.Riddler)
	}

	if len(room.Players) == 0 {
		room.phase = PhaseRoomEmpty
		s.sched.Cancel(room.ID)
	}

	s.appendSystemChat(room, systemMessage)
	s.broadcastRoster(room)
	s.sched.Schedule(room, true)
}
