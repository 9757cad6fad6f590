package game

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupThreePlayerRoom(t *testing.T, svc *Service, roomID string) (host, b, c *fakeConn) {
	t.Helper()
	ctx := context.Background()
	host, b, c = &fakeConn{}, &fakeConn{}, &fakeConn{}
	_, err := svc.CreateRoom(ctx, roomID, "Alice", ModePrivate, host)
	require.NoError(t, err)
	require.NoError(t, svc.Join(ctx, roomID, "Bob", b))
	require.NoError(t, svc.Join(ctx, roomID, "Carol", c))
	return host, b, c
}

func TestSubmitGuess_WrongGuessBecomesChat(t *testing.T) {
	t.Parallel()
	svc, _, bcast := newTestService("pencil", "rocket")
	setupThreePlayerRoom(t, svc, "r-guess")

	svc.SubmitGuess(context.Background(), "r-guess", "Bob", "banana")

	room, _ := svc.repo.Get("r-guess")
	room.Lock()
	rd := room.currentRoundData()
	require.Len(t, rd.Guesses, 1)
	assert.False(t, rd.Guesses[0].Correct)
	assert.Empty(t, rd.Winner)
	assert.Equal(t, PhaseAwaitingGuess, room.phase)
	require.Len(t, room.ChatLog, 1)
	assert.Equal(t, "Bob", room.ChatLog[0].Author)
	assert.Equal(t, "banana", room.ChatLog[0].Text)
	room.Unlock()

	assert.Empty(t, bcast.byEvent(EventWinner))
	assert.Len(t, bcast.byEvent(EventMessage), 1)
}

func TestSubmitGuess_NormalizesBeforeComparing(t *testing.T) {
	t.Parallel()
	svc, _, bcast := newTestService("pencil", "rocket")
	setupThreePlayerRoom(t, svc, "r-norm")

	svc.SubmitGuess(context.Background(), "r-norm", "Bob", "  PeNcIl  ")

	room, _ := svc.repo.Get("r-norm")
	room.Lock()
	rd := room.Rounds[0]
	assert.Equal(t, "Bob", rd.Winner)
	require.NotNil(t, rd.EndedAt)
	assert.False(t, rd.EndedAt.IsZero())
	_, bob := room.findPlayer("Bob")
	assert.Equal(t, 10, bob.Score)
	room.Unlock()

	winners := bcast.byEvent(EventWinner)
	require.Len(t, winners, 1)
	assert.Equal(t, WinnerPayload{Username: "Bob", Word: "pencil"}, winners[0].Data)
}

func TestSubmitGuess_ConcurrentCorrectGuessesCrownOneWinner(t *testing.T) {
	t.Parallel()
	svc, _, bcast := newTestService("pencil", "rocket")
	setupThreePlayerRoom(t, svc, "r-race")

	var wg sync.WaitGroup
	for _, username := range []string{"Bob", "Carol", "Bob", "Carol", "Bob"} {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			svc.SubmitGuess(context.Background(), "r-race", u, "pencil")
		}(username)
	}
	wg.Wait()

	room, _ := svc.repo.Get("r-race")
	room.Lock()
	rd := room.Rounds[0]
	assert.NotEmpty(t, rd.Winner)
	winners := 0
	for _, g := range rd.Guesses {
		if g.Correct {
			winners++
		}
	}
	assert.Equal(t, 1, winners)
	_, bob := room.findPlayer("Bob")
	_, carol := room.findPlayer("Carol")
	assert.Equal(t, 10, bob.Score+carol.Score)
	room.Unlock()

	assert.Len(t, bcast.byEvent(EventWinner), 1)
}

func TestRoundSerialization_OmitsEndTimestampWhileOpen(t *testing.T) {
	t.Parallel()
	open := Round{RoundNumber: 1, Word: "pencil", Riddler: "Alice", StartedAt: time.Now()}
	raw, err := json.Marshal(open)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "endedAt")

	ended := time.Now()
	open.EndedAt = &ended
	raw, err = json.Marshal(open)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "endedAt")
}

func TestRotation_AdvancesRiddlerByIndex(t *testing.T) {
	t.Parallel()
	svc, _, bcast := newTestService("pencil", "rocket", "turtle")
	_, b, _ := setupThreePlayerRoom(t, svc, "r-rotate")

	svc.SubmitGuess(context.Background(), "r-rotate", "Bob", "pencil")

	assert.Eventually(t, func() bool {
		room, _ := svc.repo.Get("r-rotate")
		room.Lock()
		defer room.Unlock()
		return room.CurrentRound == 2
	}, time.Second, 10*time.Millisecond)

	room, _ := svc.repo.Get("r-rotate")
	room.Lock()
	assert.Len(t, room.Rounds, 2)
	assert.Equal(t, "rocket", room.CurrentWord)
	// Alice held round 1 at index 0; the slot advances to index 1.
	assert.Equal(t, "Bob", room.Rounds[1].Riddler)
	assert.Equal(t, PhaseAwaitingGuess, room.phase)
	room.Unlock()

	rounds := bcast.byEvent(EventNewRound)
	require.Len(t, rounds, 1)
	payload := rounds[0].Data.(NewRoundPayload)
	assert.Equal(t, 2, payload.Round)
	assert.Equal(t, len("rocket"), payload.WordLength)
	assert.Equal(t, "Bob", payload.Riddler)

	// The new riddler alone learns the word.
	frame, ok := b.lastOf(EventRoomInfo)
	require.True(t, ok)
	assert.Equal(t, "rocket", frame.Data.(RoomInfo).Word)
}

func TestRotation_WrapsPastLastPlayer(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService("pencil", "rocket", "turtle", "bridge")
	setupThreePlayerRoom(t, svc, "r-wrap")
	ctx := context.Background()

	words := []string{"pencil", "rocket", "turtle"}
	guessers := []string{"Bob", "Carol", "Alice"}
	for i, word := range words {
		svc.SubmitGuess(ctx, "r-wrap", guessers[i], word)
		want := i + 2
		require.Eventually(t, func() bool {
			room, _ := svc.repo.Get("r-wrap")
			room.Lock()
			defer room.Unlock()
			return room.CurrentRound == want
		}, time.Second, 10*time.Millisecond, fmt.Sprintf("round %d never started", want))
	}

	room, _ := svc.repo.Get("r-wrap")
	room.Lock()
	defer room.Unlock()
	riddlers := make([]string, 0, len(room.Rounds))
	for _, rd := range room.Rounds {
		riddlers = append(riddlers, rd.Riddler)
	}
	assert.Equal(t, []string{"Alice", "Bob", "Carol", "Alice"}, riddlers)
}

func TestSubmitGuess_PostResolutionCorrectGuessIsNoOp(t *testing.T) {
	t.Parallel()
	svc, _, bcast := newTestService("pencil", "rocket")
	setupThreePlayerRoom(t, svc, "r-late")
	ctx := context.Background()

	svc.SubmitGuess(ctx, "r-late", "Bob", "pencil")
	// Carol's identical guess lands while the round is resolving.
	svc.SubmitGuess(ctx, "r-late", "Carol", "pencil")

	room, _ := svc.repo.Get("r-late")
	room.Lock()
	assert.Equal(t, "Bob", room.Rounds[0].Winner)
	_, carol := room.findPlayer("Carol")
	assert.Equal(t, 0, carol.Score)
	room.Unlock()

	assert.Len(t, bcast.byEvent(EventWinner), 1)
}

func TestRotation_EmptyRoomGoesTerminal(t *testing.T) {
	t.Parallel()
	svc, _, bcast := newTestService("pencil", "rocket")
	ctx := context.Background()

	_, err := svc.CreateRoom(ctx, "r-empty", "Alice", ModePrivate, &fakeConn{})
	require.NoError(t, err)
	require.NoError(t, svc.Join(ctx, "r-empty", "Bob", &fakeConn{}))

	svc.SubmitGuess(ctx, "r-empty", "Bob", "pencil")

	// Everyone leaves before the rotation delay elapses.
	require.NoError(t, svc.Leave(ctx, "r-empty", "Bob"))
	require.NoError(t, svc.Leave(ctx, "r-empty", "Alice"))
	before := len(bcast.byEvent(EventNewRound))

	assert.Eventually(t, func() bool {
		room, _ := svc.repo.Get("r-empty")
		room.Lock()
		defer room.Unlock()
		return room.phase == PhaseRoomEmpty
	}, time.Second, 10*time.Millisecond)

	// Outwait the pending rotation timer; it must fire as a no-op.
	time.Sleep(2 * testConfig().RotationDelay)

	room, _ := svc.repo.Get("r-empty")
	room.Lock()
	assert.Equal(t, 1, room.CurrentRound)
	assert.False(t, room.IsActive)
	room.Unlock()
	assert.Equal(t, before, len(bcast.byEvent(EventNewRound)))
}
