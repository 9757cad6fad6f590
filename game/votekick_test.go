package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoteKick_QuorumScalesWithRoomSize(t *testing.T) {
	t.Parallel()
	cases := []struct {
		players  int
		required int
	}{
		{3, 2},
		{4, 3},
		{5, 4},
	}
	for _, tc := range cases {
		names := []string{"Alice", "Bob", "Carol", "Dave", "Erin"}[:tc.players]
		svc, _, bcast := newTestService()
		seedConnectedRoom(t, svc, "vk-size", names...)

		require.NoError(t, svc.VoteKick(context.Background(), "vk-size", "Alice", "Bob"))

		updates := bcast.byEvent(EventVoteKickUpdate)
		require.Len(t, updates, 1)
		update := updates[0].Data.(VoteKickUpdate)
		assert.Equal(t, tc.required, update.RequiredVotes, "n=%d", tc.players)
		assert.Equal(t, 1, update.Votes)
	}
}

func TestVoteKick_RepeatVoteIsIdempotent(t *testing.T) {
	t.Parallel()
	svc, _, bcast := newTestService()
	seedConnectedRoom(t, svc, "vk-1", "Alice", "Bob", "Carol")
	ctx := context.Background()

	require.NoError(t, svc.VoteKick(ctx, "vk-1", "Alice", "Bob"))
	require.NoError(t, svc.VoteKick(ctx, "vk-1", "Alice", "Bob"))

	updates := bcast.byEvent(EventVoteKickUpdate)
	require.Len(t, updates, 2)
	assert.Equal(t, 1, updates[1].Data.(VoteKickUpdate).Votes)

	room, _ := svc.repo.Get("vk-1")
	room.Lock()
	defer room.Unlock()
	assert.Len(t, room.Players, 3)
}

func TestVoteKick_QuorumRemovesBansAndBlocksRejoin(t *testing.T) {
	t.Parallel()
	svc, _, bcast := newTestService()
	seedConnectedRoom(t, svc, "vk-2", "Alice", "Bob", "Carol")
	ctx := context.Background()

	require.NoError(t, svc.VoteKick(ctx, "vk-2", "Alice", "Bob"))
	require.NoError(t, svc.VoteKick(ctx, "vk-2", "Alice", "Carol"))

	room, _ := svc.repo.Get("vk-2")
	room.Lock()
	_, alice := room.findPlayer("Alice")
	assert.Nil(t, alice)
	assert.True(t, room.isBanned("Alice"))
	assert.Empty(t, room.KickBallots["Alice"])
	last := room.ChatLog[len(room.ChatLog)-1]
	assert.True(t, last.IsSystem)
	assert.Equal(t, "Alice was kicked out of the room by majority vote.", last.Text)
	room.Unlock()

	// The kick itself does not move the host or the riddler.
	room.Lock()
	assert.Equal(t, "Alice", room.HostName)
	assert.Equal(t, "Alice", room.currentRoundData().Riddler)
	room.Unlock()

	assert.ErrorIs(t, svc.Join(ctx, "vk-2", "Alice", &fakeConn{}), ErrBanned)

	updates := bcast.byEvent(EventVoteKickUpdate)
	require.Len(t, updates, 2)
	assert.Equal(t, 2, updates[1].Data.(VoteKickUpdate).Votes)
}

func TestVoteKick_Preconditions(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService()
	seedConnectedRoom(t, svc, "vk-3", "Alice", "Bob", "Carol")
	ctx := context.Background()

	assert.ErrorIs(t, svc.VoteKick(ctx, "nope", "Alice", "Bob"), ErrRoomNotFound)
	assert.ErrorIs(t, svc.VoteKick(ctx, "vk-3", "Bob", "Bob"), ErrSelfVote)
	assert.ErrorIs(t, svc.VoteKick(ctx, "vk-3", "Mallory", "Bob"), ErrTargetNotFound)

	// Shrink below the voting floor.
	require.NoError(t, svc.Leave(ctx, "vk-3", "Carol"))
	assert.ErrorIs(t, svc.VoteKick(ctx, "vk-3", "Alice", "Bob"), ErrNotEnoughPlayers)
}
