package game

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
)

const minPlayersForKick = 3

// VoteKick tallies one ejection vote. Failures go back to the voter only;
// every accepted vote broadcasts tally progress, and reaching quorum removes
// and bans the target.
func (s *Service) VoteKick(ctx context.Context, roomID, target, voter string) error {
	room, ok := s.repo.Get(roomID)
	if !ok {
		return ErrRoomNotFound
	}

	room.Lock()
	defer room.Unlock()

	if target == voter {
		return ErrSelfVote
	}
	targetIdx, targetPlayer := room.findPlayer(target)
	if targetPlayer == nil {
		return ErrTargetNotFound
	}
	if len(room.Players) < minPlayersForKick {
		return ErrNotEnoughPlayers
	}

	ballots := room.KickBallots[target]
	if ballots == nil {
		ballots = make(map[string]struct{})
		room.KickBallots[target] = ballots
	}
	// A repeat vote by the same voter is idempotent.
	ballots[voter] = struct{}{}

	votes := len(ballots)
	required := int(math.Ceil(float64(len(room.Players)) * 2 / 3))
	log.Info().Str("room", roomID).Str("voter", voter).Str("target", target).Int("votes", votes).Int("required", required).Msg("kick vote")

	s.bcast.Broadcast(roomID, EventVoteKickUpdate, VoteKickUpdate{
		Target:        target,
		Votes:         votes,
		RequiredVotes: required,
	})

	if votes < required {
		return nil
	}

	conn := targetPlayer.conn
	room.Players = append(room.Players[:targetIdx], room.Players[targetIdx+1:]...)
	room.BanList[target] = struct{}{}
	delete(room.KickBallots, target)

	s.appendSystemChat(room, fmt.Sprintf("%s was kicked out of the room by majority vote.", target))
	s.broadcastRoster(room)
	s.sched.Schedule(room, true)
	if conn != nil {
		s.bcast.Leave(roomID, conn)
	}
	log.Info().Str("room", roomID).Str("target", target).Msg("player kicked and banned")
	return nil
}
