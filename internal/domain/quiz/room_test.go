package quiz

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrave1/MemStudy/internal/domain/events"
	"github.com/qrave1/MemStudy/internal/domain/runtime"
)

func newConn() runtime.Connection {
	return runtime.Connection{ID: uuid.New(), UserID: uuid.New()}
}

func twoCardDeck() []Card {
	return []Card{
		NewCard(uuid.New(), "2+2?", "4"),
		NewCard(uuid.New(), "Capital of France?", "Paris"),
	}
}

func startedRoom(t *testing.T, deck []Card, players ...runtime.Connection) (*Room, runtime.Connection) {
	t.Helper()

	host := newConn()
	r := NewRoom("ABCDEF", uuid.New(), host, "naruto")

	for _, p := range players {
		_, err := r.Join(p, "")
		require.NoError(t, err)
	}

	require.NoError(t, r.BeginStart(host.ID))
	_, err := r.FinishStart(deck)
	require.NoError(t, err)

	return r, host
}

func eventTypes(out []Outbound) []string {
	types := make([]string, 0, len(out))
	for _, o := range out {
		types = append(types, o.Event.EventType())
	}

	return types
}

func TestNewRoom(t *testing.T) {
	host := newConn()
	folderID := uuid.New()

	r := NewRoom("ABCDEF", folderID, host, "")

	assert.Equal(t, PhaseLobby, r.Phase())
	assert.Equal(t, host.ID, r.HostConnectionID())
	assert.Equal(t, host.UserID, r.OwnerID())
	assert.Equal(t, folderID, r.FolderID())
	assert.Zero(t, r.State().TotalQuestions)

	players := r.Players()
	require.Len(t, players, 1)
	assert.Equal(t, DefaultHostName, players[0].Username)
	assert.Equal(t, -1, players[0].LastScoredIndex)
}

func TestRoom_Join(t *testing.T) {
	host := newConn()
	r := NewRoom("ABCDEF", uuid.New(), host, "naruto")
	sasuke := newConn()

	out, err := r.Join(sasuke, "sasuke")
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, uuid.Nil, out[0].To)

	state, ok := out[0].Event.(events.RoomStateEvent)
	require.True(t, ok)

	want := events.RoomStateEvent{
		Code:     "ABCDEF",
		HostID:   host.ID,
		FolderID: r.FolderID(),
		Phase:    string(PhaseLobby),
		Players: []events.PlayerState{
			{ConnectionID: host.ID, Username: "naruto"},
			{ConnectionID: sasuke.ID, Username: "sasuke"},
		},
	}
	if diff := cmp.Diff(want, state); diff != "" {
		t.Errorf("room state mismatch (-want +got):\n%s", diff)
	}
}

func TestRoom_Join_SameConnectionKeepsScore(t *testing.T) {
	sasuke := newConn()
	r, _ := startedRoom(t, twoCardDeck(), sasuke)

	_, err := r.SubmitGuess(sasuke.ID, "4")
	require.NoError(t, err)

	_, err = r.Join(sasuke, "sasuke-renamed")
	require.NoError(t, err)

	p, ok := r.Player(sasuke.ID)
	require.True(t, ok)
	assert.Equal(t, "sasuke-renamed", p.Username)
	assert.Equal(t, 1, p.Score)
	assert.Len(t, r.Players(), 2)
}

func TestRoom_Join_HostReconnectRebindsHost(t *testing.T) {
	host := newConn()
	r := NewRoom("ABCDEF", uuid.New(), host, "naruto")
	sasuke := newConn()
	_, err := r.Join(sasuke, "sasuke")
	require.NoError(t, err)

	reconnected := runtime.Connection{ID: uuid.New(), UserID: host.UserID}
	_, err = r.Join(reconnected, "naruto")
	require.NoError(t, err)

	assert.True(t, r.IsHost(reconnected.ID))
	assert.False(t, r.IsHost(host.ID))

	_, ok := r.Player(reconnected.ID)
	assert.True(t, ok, "host connection must be a player")
}

func TestRoom_Join_Closed(t *testing.T) {
	host := newConn()
	r := NewRoom("ABCDEF", uuid.New(), host, "naruto")
	_, err := r.Close(host.ID)
	require.NoError(t, err)

	_, err = r.Join(newConn(), "late")
	assert.ErrorIs(t, err, ErrRoomClosed)
}

func TestRoom_Start(t *testing.T) {
	host := newConn()
	sasuke := newConn()
	r := NewRoom("ABCDEF", uuid.New(), host, "naruto")
	_, err := r.Join(sasuke, "sasuke")
	require.NoError(t, err)

	assert.ErrorIs(t, r.BeginStart(sasuke.ID), ErrNotHost)

	require.NoError(t, r.BeginStart(host.ID))
	assert.ErrorIs(t, r.BeginStart(host.ID), ErrStartPending)

	out, err := r.FinishStart(twoCardDeck())
	require.NoError(t, err)
	require.Len(t, out, 1)

	state := out[0].Event.(events.RoomStateEvent)
	assert.True(t, state.Started)
	assert.Equal(t, 0, state.CurrentIndex)
	assert.Equal(t, 2, state.TotalQuestions)
	require.NotNil(t, state.CurrentQuestion)
	assert.Equal(t, "2+2?", state.CurrentQuestion.Question)

	assert.ErrorIs(t, r.BeginStart(host.ID), ErrWrongPhase)
}

func TestRoom_FinishStart_EmptyDeckStaysInLobby(t *testing.T) {
	host := newConn()
	r := NewRoom("ABCDEF", uuid.New(), host, "naruto")

	require.NoError(t, r.BeginStart(host.ID))
	_, err := r.FinishStart(nil)
	assert.ErrorIs(t, err, ErrEmptyDeck)
	assert.Equal(t, PhaseLobby, r.Phase())

	// можно повторить
	assert.NoError(t, r.BeginStart(host.ID))
}

func TestRoom_FinishStart_DiscardedAfterClose(t *testing.T) {
	host := newConn()
	r := NewRoom("ABCDEF", uuid.New(), host, "naruto")

	require.NoError(t, r.BeginStart(host.ID))
	_, err := r.Close(host.ID)
	require.NoError(t, err)

	out, err := r.FinishStart(twoCardDeck())
	assert.ErrorIs(t, err, ErrStaleStart)
	assert.Empty(t, out)
	assert.Equal(t, PhaseLobby, r.Phase())
	assert.Zero(t, r.State().TotalQuestions)
}

func TestRoom_FinishStart_DiscardedWhenLastPlayerLeft(t *testing.T) {
	host := newConn()
	r := NewRoom("ABCDEF", uuid.New(), host, "naruto")

	require.NoError(t, r.BeginStart(host.ID))
	_, empty, err := r.Leave(host.ID)
	require.NoError(t, err)
	require.True(t, empty)

	_, err = r.FinishStart(twoCardDeck())
	assert.ErrorIs(t, err, ErrStaleStart)
}

func TestRoom_FinishStart_DeckIsSnapshot(t *testing.T) {
	host := newConn()
	r := NewRoom("ABCDEF", uuid.New(), host, "naruto")
	deck := twoCardDeck()

	require.NoError(t, r.BeginStart(host.ID))
	_, err := r.FinishStart(deck)
	require.NoError(t, err)

	deck[0] = NewCard(uuid.New(), "changed", "changed")

	assert.Equal(t, "2+2?", r.State().CurrentQuestion.Question)
}

func TestRoom_SubmitGuess_BeforeStart(t *testing.T) {
	host := newConn()
	r := NewRoom("ABCDEF", uuid.New(), host, "naruto")

	_, err := r.SubmitGuess(host.ID, "4")
	assert.ErrorIs(t, err, ErrWrongPhase)

	for _, p := range r.Players() {
		assert.Zero(t, p.Score)
	}
}

func TestRoom_SubmitGuess_UnknownPlayer(t *testing.T) {
	r, _ := startedRoom(t, twoCardDeck())

	_, err := r.SubmitGuess(uuid.New(), "4")
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestRoom_SubmitGuess_ScoresOncePerIndex(t *testing.T) {
	sasuke := newConn()
	r, _ := startedRoom(t, twoCardDeck(), sasuke)

	out, err := r.SubmitGuess(sasuke.ID, "four")
	require.NoError(t, err)
	require.Equal(t, []string{events.TypeGuessResult}, eventTypes(out))
	assert.Equal(t, sasuke.ID, out[0].To)
	assert.Equal(t, events.GuessResultEvent{Correct: false}, out[0].Event)

	out, err = r.SubmitGuess(sasuke.ID, " 4! ")
	require.NoError(t, err)
	assert.Equal(t, []string{events.TypeGuessResult, events.TypeRoomState}, eventTypes(out))
	assert.Equal(t, events.GuessResultEvent{Correct: true}, out[0].Event)

	out, err = r.SubmitGuess(sasuke.ID, "4")
	require.NoError(t, err)
	assert.Equal(t, []string{events.TypeGuessResult}, eventTypes(out))
	assert.Equal(t, events.GuessResultEvent{Correct: true}, out[0].Event)

	p, _ := r.Player(sasuke.ID)
	assert.Equal(t, 1, p.Score)
	assert.Equal(t, 0, p.LastScoredIndex)
}

func TestRoom_SubmitGuess_LastQuestionCompletes(t *testing.T) {
	sasuke := newConn()
	r, host := startedRoom(t, twoCardDeck(), sasuke)

	_, err := r.NextQuestion(host.ID)
	require.NoError(t, err)

	out, err := r.SubmitGuess(sasuke.ID, "paris")
	require.NoError(t, err)
	assert.Equal(t, []string{events.TypeGuessResult, events.TypeRoomState, events.TypeResults}, eventTypes(out))
	assert.Equal(t, PhaseCompleted, r.Phase())

	results := out[2].Event.(events.ResultsEvent)
	assert.Equal(t, string(PhaseCompleted), results.Phase)
	assert.Nil(t, results.CurrentQuestion)

	_, err = r.SubmitGuess(host.ID, "paris")
	assert.ErrorIs(t, err, ErrWrongPhase)
}

func TestRoom_NextQuestion(t *testing.T) {
	const n = 4

	deck := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		deck = append(deck, NewCard(uuid.New(), "q", "a"))
	}

	sasuke := newConn()
	r, host := startedRoom(t, deck, sasuke)

	_, err := r.NextQuestion(sasuke.ID)
	assert.ErrorIs(t, err, ErrNotHost)
	assert.Equal(t, 0, r.CurrentIndex())

	for i := 1; i < n; i++ {
		out, err := r.NextQuestion(host.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{events.TypeRoomState}, eventTypes(out))
		assert.Equal(t, i, r.CurrentIndex())
	}

	out, err := r.NextQuestion(host.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{events.TypeResults}, eventTypes(out))
	assert.Equal(t, n-1, r.CurrentIndex())
	assert.Equal(t, PhaseCompleted, r.Phase())

	_, err = r.NextQuestion(host.ID)
	assert.ErrorIs(t, err, ErrWrongPhase)
}

func TestRoom_RevealAnswer(t *testing.T) {
	sasuke := newConn()
	r, host := startedRoom(t, twoCardDeck(), sasuke)

	_, err := r.RevealAnswer(sasuke.ID)
	assert.ErrorIs(t, err, ErrNotHost)

	_, err = r.NextQuestion(host.ID)
	require.NoError(t, err)

	out, err := r.RevealAnswer(host.ID)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, uuid.Nil, out[0].To)
	assert.Equal(t, events.RevealAnswerEvent{Index: 1, Answer: "Paris"}, out[0].Event)
	assert.Equal(t, PhaseInProgress, r.Phase())
}

func TestRoom_Close(t *testing.T) {
	host := newConn()
	sasuke := newConn()
	r := NewRoom("ABCDEF", uuid.New(), host, "naruto")
	_, err := r.Join(sasuke, "sasuke")
	require.NoError(t, err)

	_, err = r.Close(sasuke.ID)
	assert.ErrorIs(t, err, ErrNotHost)
	assert.False(t, r.Closed())

	out, err := r.Close(host.ID)
	require.NoError(t, err)
	assert.Equal(t, []Outbound{{Event: events.RoomClosedEvent{Code: "ABCDEF"}}}, out)
	assert.True(t, r.Closed())
}

func TestRoom_Leave_HostMigratesToEarliestPlayer(t *testing.T) {
	host := newConn()
	sasuke := newConn()
	sakura := newConn()
	r := NewRoom("ABCDEF", uuid.New(), host, "naruto")
	_, _ = r.Join(sasuke, "sasuke")
	_, _ = r.Join(sakura, "sakura")

	out, empty, err := r.Leave(host.ID)
	require.NoError(t, err)
	assert.False(t, empty)
	assert.Equal(t, []string{events.TypeRoomState}, eventTypes(out))

	assert.Equal(t, sasuke.ID, r.HostConnectionID())
	assert.Equal(t, host.UserID, r.OwnerID())
	assert.Equal(t, sasuke.ID, out[0].Event.(events.RoomStateEvent).HostID)
}

func TestRoom_Leave_HostReturnsAfterReconnect(t *testing.T) {
	host := newConn()
	sasuke := newConn()
	r := NewRoom("ABCDEF", uuid.New(), host, "naruto")
	_, _ = r.Join(sasuke, "sasuke")

	_, _, err := r.Leave(host.ID)
	require.NoError(t, err)
	require.True(t, r.IsHost(sasuke.ID))

	reconnected := runtime.Connection{ID: uuid.New(), UserID: host.UserID}
	out, err := r.Join(reconnected, "naruto")
	require.NoError(t, err)

	assert.True(t, r.IsHost(reconnected.ID))
	assert.False(t, r.IsHost(sasuke.ID))
	assert.Equal(t, reconnected.ID, out[0].Event.(events.RoomStateEvent).HostID)
	assert.Len(t, r.Players(), 2)

	// временный хост снова обычный игрок
	assert.ErrorIs(t, r.BeginStart(sasuke.ID), ErrNotHost)
	assert.NoError(t, r.BeginStart(reconnected.ID))
}

func TestRoom_Leave_NonHost(t *testing.T) {
	host := newConn()
	sasuke := newConn()
	r := NewRoom("ABCDEF", uuid.New(), host, "naruto")
	_, _ = r.Join(sasuke, "sasuke")

	_, empty, err := r.Leave(sasuke.ID)
	require.NoError(t, err)
	assert.False(t, empty)
	assert.Equal(t, host.ID, r.HostConnectionID())
	assert.Len(t, r.Players(), 1)

	_, _, err = r.Leave(sasuke.ID)
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}

func TestRoom_Leave_LastPlayer(t *testing.T) {
	host := newConn()
	r := NewRoom("ABCDEF", uuid.New(), host, "naruto")

	out, empty, err := r.Leave(host.ID)
	require.NoError(t, err)
	assert.True(t, empty)
	assert.Empty(t, out)
	assert.True(t, r.Closed())
}
