package game

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
)

// JoinGlobal places a participant into a shared global room. Selection is a
// store query for the least-recently-updated active global room under
// capacity, so load spreads across rooms instead of piling onto one. There is
// no auto-creation: provisioning global rooms is an administrative concern.
func (s *Service) JoinGlobal(ctx context.Context, username string, conn Conn) (string, error) {
	roomID, found, err := s.store.FindAvailableGlobal(ctx, s.cfg.GlobalRoomCapacity)
	if err != nil {
		log.Error().Err(err).Msg("global room lookup failed")
		return "", ErrNoGlobalRoom
	}
	if !found {
		log.Info().Str("player", username).Msg("no global room with space")
		return "", ErrNoGlobalRoom
	}

	if err := s.join(ctx, roomID, username, conn, s.cfg.GlobalRoomCapacity); err != nil {
		// The store's player count can lag behind the live roster; a room
		// that filled since the query reads as no room available.
		if errors.Is(err, ErrRoomFull) {
			log.Info().Str("room", roomID).Str("player", username).Msg("global room filled before join")
			return "", ErrNoGlobalRoom
		}
		return "", err
	}
	log.Info().Str("room", roomID).Str("player", username).Msg("joined global room")
	return roomID, nil
}
