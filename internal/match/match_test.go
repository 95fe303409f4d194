package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/matchroom-backend/internal/apperror"
	"github.com/rocketscienceinc/matchroom-backend/internal/entity"
)

func newWaitingRoom() *entity.Room {
	return entity.NewRoom("ABC123", &entity.Seat{PlayerID: "p1", Nickname: "A", ConnID: "conn-1"})
}

func newRunningRoom(t *testing.T) *entity.Room {
	t.Helper()

	room := newWaitingRoom()
	require.NoError(t, Join(room, "p2", "B", "conn-2"))

	return room
}

func TestJoin(t *testing.T) {
	t.Run("Second player gets mark O and play begins", func(t *testing.T) {
		// Given: a room waiting for an opponent
		room := newWaitingRoom()

		// When: a second player joins
		err := Join(room, "p2", "B", "conn-2")

		// Then: the room enters play with two fixed marks
		require.NoError(t, err)
		require.Len(t, room.Seats, 2)
		require.Equal(t, entity.MarkO, room.Seats[1].Mark)
		require.Equal(t, entity.StateInProgress, room.State)
		require.Equal(t, entity.MarkX, room.Turn)
	})

	t.Run("Error on full room", func(t *testing.T) {
		room := newRunningRoom(t)

		err := Join(room, "p3", "C", "conn-3")

		require.ErrorIs(t, err, apperror.ErrRoomFull)
		assert.Len(t, room.Seats, 2)
	})

	t.Run("Error on missing nickname or player id", func(t *testing.T) {
		room := newWaitingRoom()

		require.ErrorIs(t, Join(room, "", "B", "conn-2"), apperror.ErrInvalidInput)
		require.ErrorIs(t, Join(room, "p2", "", "conn-2"), apperror.ErrInvalidInput)
	})

	t.Run("Error on duplicate player id", func(t *testing.T) {
		room := newWaitingRoom()

		err := Join(room, "p1", "A again", "conn-2")

		require.ErrorIs(t, err, apperror.ErrInvalidInput)
	})
}

func TestRejoin(t *testing.T) {
	t.Run("Seat keeps mark and points", func(t *testing.T) {
		// Given: a running room where O disconnected with points on the board
		room := newRunningRoom(t)
		room.Seats[1].ConnID = ""
		room.Seats[1].Points = 3

		// When: the player rejoins on a new connection
		seat, err := Rejoin(room, "p2", "conn-9")

		// Then: the same seat is rebound, nothing else changes
		require.NoError(t, err)
		require.Equal(t, "conn-9", seat.ConnID)
		require.Equal(t, entity.MarkO, seat.Mark)
		require.Equal(t, 3, seat.Points)
		require.Len(t, room.Seats, 2)
	})

	t.Run("Reconnection wins over a live connection", func(t *testing.T) {
		room := newRunningRoom(t)

		seat, err := Rejoin(room, "p2", "conn-9")

		require.NoError(t, err)
		assert.Equal(t, "conn-9", seat.ConnID)
	})

	t.Run("Error on unknown player", func(t *testing.T) {
		room := newRunningRoom(t)

		_, err := Rejoin(room, "p9", "conn-9")

		require.ErrorIs(t, err, apperror.ErrSeatNotFound)
	})

	t.Run("Rejoin cancels pending cleanup", func(t *testing.T) {
		room := newRunningRoom(t)
		room.Lock()
		room.ScheduleCleanup(time.Hour, func() {})
		room.Unlock()

		_, err := Rejoin(room, "p1", "conn-9")

		require.NoError(t, err)
		assert.False(t, room.CleanupArmed())
	})
}

func TestApplyMove(t *testing.T) {
	t.Run("Legal move writes the mark and flips the turn", func(t *testing.T) {
		room := newRunningRoom(t)

		// When: X plays the center
		result, err := ApplyMove(room, "conn-1", 4)

		// Then: the board holds the mark, the other mark is to move
		require.NoError(t, err)
		require.Equal(t, entity.MarkX, room.Board[4])
		require.Equal(t, entity.MarkO, room.Turn)
		require.Equal(t, 4, result.Cell)
		require.Equal(t, entity.MarkO, result.Turn)
		require.Nil(t, result.RoundOver)
	})

	t.Run("Rejected before the second player joins", func(t *testing.T) {
		room := newWaitingRoom()

		_, err := ApplyMove(room, "conn-1", 0)

		require.ErrorIs(t, err, apperror.ErrRoundNotActive)
	})

	t.Run("Rejected for an unknown connection", func(t *testing.T) {
		room := newRunningRoom(t)

		_, err := ApplyMove(room, "conn-9", 0)

		require.ErrorIs(t, err, apperror.ErrSeatNotFound)
	})

	t.Run("Rejected outside the board", func(t *testing.T) {
		room := newRunningRoom(t)

		_, err := ApplyMove(room, "conn-1", 9)
		require.ErrorIs(t, err, apperror.ErrInvalidCell)

		_, err = ApplyMove(room, "conn-1", -1)
		require.ErrorIs(t, err, apperror.ErrInvalidCell)
	})

	t.Run("Rejected on an occupied cell", func(t *testing.T) {
		room := newRunningRoom(t)
		_, err := ApplyMove(room, "conn-1", 0)
		require.NoError(t, err)

		_, err = ApplyMove(room, "conn-2", 0)

		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Equal(t, entity.MarkX, room.Board[0])
	})

	t.Run("Rejected out of turn", func(t *testing.T) {
		room := newRunningRoom(t)

		_, err := ApplyMove(room, "conn-2", 0)

		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, entity.EmptyCell, room.Board[0])
	})

	t.Run("A disconnected seat's turn still blocks play", func(t *testing.T) {
		// Given: it is X's turn but X has dropped
		room := newRunningRoom(t)
		room.Seats[0].ConnID = ""

		// When: O tries to move anyway
		_, err := ApplyMove(room, "conn-2", 0)

		// Then: the move is rejected; no forfeit exists
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})

	t.Run("Winning move ends the round and scores a point", func(t *testing.T) {
		room := newRunningRoom(t)

		// Given: X is one cell away from the top row
		playMoves(t, room, move{"conn-1", 0}, move{"conn-2", 3}, move{"conn-1", 1}, move{"conn-2", 4})

		// When: X completes the line
		result, err := ApplyMove(room, "conn-1", 2)

		// Then: round over, winner X on line 0-1-2, one point for X
		require.NoError(t, err)
		require.NotNil(t, result.RoundOver)
		require.Equal(t, entity.MarkX, result.RoundOver.Winner)
		require.Equal(t, []int{0, 1, 2}, result.RoundOver.Line)
		require.Equal(t, 1, result.RoundOver.Round)
		require.Equal(t, entity.StateRoundOver, room.State)
		require.Equal(t, 1, room.Seats[0].Points)
		require.Equal(t, 0, room.Seats[1].Points)
		require.Empty(t, room.ReadyAcks)
	})

	t.Run("Full board without a line is a draw", func(t *testing.T) {
		room := newRunningRoom(t)

		// X X O / O O X / X O X is a draw; replay it in a legal order.
		playMoves(t, room,
			move{"conn-1", 0}, move{"conn-2", 2},
			move{"conn-1", 5}, move{"conn-2", 3},
			move{"conn-1", 6}, move{"conn-2", 4},
			move{"conn-1", 1}, move{"conn-2", 7},
		)

		result, err := ApplyMove(room, "conn-1", 8)

		require.NoError(t, err)
		require.NotNil(t, result.RoundOver)
		assert.Empty(t, result.RoundOver.Winner)
		assert.Nil(t, result.RoundOver.Line)
		assert.Equal(t, 0, room.Seats[0].Points)
		assert.Equal(t, 0, room.Seats[1].Points)
	})

	t.Run("Rejected while awaiting ready acks", func(t *testing.T) {
		room := newRoundOverRoom(t)

		_, err := ApplyMove(room, "conn-2", 5)

		require.ErrorIs(t, err, apperror.ErrRoundNotActive)
	})
}

func TestReady(t *testing.T) {
	t.Run("One ack accumulates silently", func(t *testing.T) {
		room := newRoundOverRoom(t)

		start, err := Ready(room, "conn-1")

		require.NoError(t, err)
		require.Nil(t, start)
		assert.Len(t, room.ReadyAcks, 1)
	})

	t.Run("Duplicate acks from one connection do not advance", func(t *testing.T) {
		room := newRoundOverRoom(t)

		_, err := Ready(room, "conn-1")
		require.NoError(t, err)
		start, err := Ready(room, "conn-1")

		require.NoError(t, err)
		assert.Nil(t, start)
	})

	t.Run("Both acks advance the round", func(t *testing.T) {
		room := newRoundOverRoom(t)

		_, err := Ready(room, "conn-1")
		require.NoError(t, err)

		// When: the second seat acknowledges
		start, err := Ready(room, "conn-2")

		// Then: round 2 begins on an empty board with O to move
		require.NoError(t, err)
		require.NotNil(t, start)
		require.Equal(t, 2, start.Round)
		require.Equal(t, entity.MarkO, start.Turn)
		require.Equal(t, entity.StateInProgress, room.State)
		require.Empty(t, room.ReadyAcks)

		for _, cell := range room.Board {
			require.Equal(t, entity.EmptyCell, cell)
		}
	})

	t.Run("Rejected while the round is running", func(t *testing.T) {
		room := newRunningRoom(t)

		_, err := Ready(room, "conn-1")

		require.ErrorIs(t, err, apperror.ErrRoundNotOver)
	})

	t.Run("Rejected for an unknown connection", func(t *testing.T) {
		room := newRoundOverRoom(t)

		_, err := Ready(room, "conn-9")

		require.ErrorIs(t, err, apperror.ErrSeatNotFound)
	})
}

func TestStarter(t *testing.T) {
	// Odd rounds open with X, even rounds with O.
	assert.Equal(t, entity.MarkX, Starter(1))
	assert.Equal(t, entity.MarkO, Starter(2))
	assert.Equal(t, entity.MarkX, Starter(3))
	assert.Equal(t, entity.MarkO, Starter(4))
}

func TestResetScores(t *testing.T) {
	room := newRunningRoom(t)
	room.Seats[0].Points = 4
	room.Seats[1].Points = 2

	players := ResetScores(room)

	require.Len(t, players, 2)
	assert.Equal(t, 0, players[0].Points)
	assert.Equal(t, 0, players[1].Points)
	assert.Equal(t, 0, room.Seats[0].Points)
}

func TestDisconnect(t *testing.T) {
	t.Run("Seat is retained, not vacated", func(t *testing.T) {
		room := newRunningRoom(t)

		left, vacated := Disconnect(room, "conn-2")

		require.NotNil(t, left)
		require.Equal(t, "p2", left.PlayerID)
		require.Equal(t, entity.MarkO, left.Mark)
		require.False(t, vacated)
		require.Len(t, room.Seats, 2)
		assert.False(t, room.Seats[1].IsConnected())
	})

	t.Run("Last connection out reports a vacated room", func(t *testing.T) {
		room := newRunningRoom(t)

		_, vacated := Disconnect(room, "conn-2")
		require.False(t, vacated)

		_, vacated = Disconnect(room, "conn-1")
		assert.True(t, vacated)
	})

	t.Run("Unknown connection is ignored", func(t *testing.T) {
		room := newRunningRoom(t)

		left, vacated := Disconnect(room, "conn-9")

		assert.Nil(t, left)
		assert.False(t, vacated)
	})

	t.Run("Disconnect drops the seat's pending ack", func(t *testing.T) {
		room := newRoundOverRoom(t)
		_, err := Ready(room, "conn-1")
		require.NoError(t, err)

		Disconnect(room, "conn-1")

		assert.Empty(t, room.ReadyAcks)
	})
}

type move struct {
	connID string
	cell   int
}

func playMoves(t *testing.T, room *entity.Room, moves ...move) {
	t.Helper()

	for _, m := range moves {
		_, err := ApplyMove(room, m.connID, m.cell)
		require.NoError(t, err)
	}
}

// newRoundOverRoom - a room where X just won the top row.
func newRoundOverRoom(t *testing.T) *entity.Room {
	t.Helper()

	room := newRunningRoom(t)
	playMoves(t, room, move{"conn-1", 0}, move{"conn-2", 3}, move{"conn-1", 1}, move{"conn-2", 4}, move{"conn-1", 2})
	require.Equal(t, entity.StateRoundOver, room.State)

	return room
}
