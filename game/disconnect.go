package game

import (
	"time"

	"github.com/rs/zerolog/log"
)

// HandleDisconnect reacts to a transport-level drop: the player is marked
// disconnected right away and removal is deferred for the grace period. If
// the same username rejoins first, the timer fires as a no-op because both
// the connected flag and the generation counter are read live, not captured.
func (s *Service) HandleDisconnect(c Conn) {
	room, player := s.repo.FindByConn(c)
	if room == nil {
		return
	}

	room.Lock()
	defer room.Unlock()

	// The handle may have been superseded by a reconnect already.
	if player.conn != c {
		return
	}

	player.Connected = false
	player.conn = nil
	player.graceGen++
	gen := player.graceGen
	log.Info().Str("room", room.ID).Str("player", player.Username).Dur("grace", s.cfg.GracePeriod).Msg("player disconnected, grace timer armed")

	s.sched.Schedule(room, true)

	time.AfterFunc(s.cfg.GracePeriod, func() {
		room.Lock()
		defer room.Unlock()

		// A reconnect (or a later disconnect) bumps the generation, which
		// hands responsibility to that newer state.
		if player.Connected || player.graceGen != gen {
			return
		}

		idx, found := room.findPlayer(player.Username)
		if found != player || idx == -1 {
			return
		}
		log.Info().Str("room", room.ID).Str("player", player.Username).Msg("grace period expired, removing player")
		s.removePlayerLocked(room, idx)
	})
}
