// Package match is the per-room state machine: seat assignment, turn
// alternation, round-over detection, the ready gate for the next round and
// presence marking. Every function operates on the room it is given and
// assumes the caller holds the room lock.
package match

import (
	"github.com/rocketscienceinc/matchroom-backend/internal/apperror"
	"github.com/rocketscienceinc/matchroom-backend/internal/entity"
	"github.com/rocketscienceinc/matchroom-backend/internal/tictactoe"
)

// Join - seats a second player with mark O and starts the match.
func Join(room *entity.Room, playerID, nickname, connID string) error {
	if playerID == "" || nickname == "" {
		return apperror.ErrInvalidInput
	}

	if len(room.Seats) >= entity.MaxSeats {
		return apperror.ErrRoomFull
	}

	// playerID is unique within a room; the creator re-entering must use rejoin.
	if room.SeatByPlayer(playerID) != nil {
		return apperror.ErrInvalidInput
	}

	seat := &entity.Seat{
		PlayerID: playerID,
		Nickname: nickname,
		Mark:     entity.MarkO,
		ConnID:   connID,
	}

	room.Seats = append(room.Seats, seat)
	room.State = entity.StateInProgress

	return nil
}

// Rejoin - rebinds an existing seat to a new connection. Reconnection always
// wins, even when the seat still looks connected. Any pending idle cleanup
// is cancelled.
func Rejoin(room *entity.Room, playerID, connID string) (*entity.Seat, error) {
	seat := room.SeatByPlayer(playerID)
	if seat == nil {
		return nil, apperror.ErrSeatNotFound
	}

	if seat.IsConnected() {
		// The stale connection's ack, if any, no longer maps to a seat.
		delete(room.ReadyAcks, seat.ConnID)
	}

	seat.ConnID = connID
	room.CancelCleanup()

	return seat, nil
}

// ApplyMove - validates and applies a move. The returned error names the
// reason a move was rejected; the caller decides whether rejection is
// surfaced or silently dropped.
func ApplyMove(room *entity.Room, connID string, cell int) (*MoveResult, error) {
	if room.State != entity.StateInProgress {
		return nil, apperror.ErrRoundNotActive
	}

	seat := room.SeatByConn(connID)
	if seat == nil {
		return nil, apperror.ErrSeatNotFound
	}

	if cell < 0 || cell >= len(room.Board) {
		return nil, apperror.ErrInvalidCell
	}

	if room.Board[cell] != entity.EmptyCell {
		return nil, apperror.ErrCellOccupied
	}

	if seat.Mark != room.Turn {
		return nil, apperror.ErrNotYourTurn
	}

	room.Board[cell] = seat.Mark
	room.Turn = toggleMark(seat.Mark)

	result := &MoveResult{
		Board: room.Board,
		Turn:  room.Turn,
		Cell:  cell,
	}

	if won, ok := tictactoe.Evaluate(room.Board); ok {
		// The completed line can only hold the mark that just moved.
		seat.Points++
		result.RoundOver = endRound(room, won.Winner, won.Line[:], cell)
	} else if tictactoe.IsFull(room.Board) {
		result.RoundOver = endRound(room, "", nil, cell)
	}

	return result, nil
}

func endRound(room *entity.Room, winner string, line []int, cell int) *RoundResult {
	room.State = entity.StateRoundOver
	room.ReadyAcks = make(map[string]struct{})

	return &RoundResult{
		RoomID:  room.ID,
		Round:   room.Round,
		Winner:  winner,
		Line:    line,
		Board:   room.Board,
		Cell:    cell,
		Players: room.PlayerViews(),
	}
}

// Ready - records a ready-ack for the next round. The round advances only
// once both seats' connections have acknowledged; until then acks accumulate
// silently. Returns the new-round payload when the round advanced.
func Ready(room *entity.Room, connID string) (*RoundStart, error) {
	if room.State != entity.StateRoundOver {
		return nil, apperror.ErrRoundNotOver
	}

	if room.SeatByConn(connID) == nil {
		return nil, apperror.ErrSeatNotFound
	}

	room.ReadyAcks[connID] = struct{}{}
	if len(room.ReadyAcks) < entity.MaxSeats {
		return nil, nil
	}

	room.Round++
	room.ResetBoard()
	room.Turn = Starter(room.Round)
	room.ReadyAcks = make(map[string]struct{})
	room.State = entity.StateInProgress

	return &RoundStart{
		Round:   room.Round,
		Board:   room.Board,
		Turn:    room.Turn,
		Players: room.PlayerViews(),
	}, nil
}

// Starter - returns the mark that opens the given round. Odd rounds open
// with X, even rounds with O, independent of who won the previous round.
func Starter(round int) string {
	if round%2 == 0 {
		return entity.MarkO
	}

	return entity.MarkX
}

// ResetScores - zeroes every seat's points. Board, turn and round are untouched.
func ResetScores(room *entity.Room) []entity.PlayerView {
	for _, seat := range room.Seats {
		seat.Points = 0
	}

	return room.PlayerViews()
}

// Disconnect - clears the connection of the seat bound to connID. The seat
// itself is retained for a later rejoin. Reports the vacated seat and
// whether the room is now fully vacated.
func Disconnect(room *entity.Room, connID string) (*PlayerLeft, bool) {
	seat := room.SeatByConn(connID)
	if seat == nil {
		return nil, false
	}

	seat.ConnID = ""
	delete(room.ReadyAcks, connID)

	left := &PlayerLeft{
		PlayerID: seat.PlayerID,
		Nickname: seat.Nickname,
		Mark:     seat.Mark,
	}

	return left, room.ActiveConnections() == 0
}

func toggleMark(mark string) string {
	if mark == entity.MarkX {
		return entity.MarkO
	}

	return entity.MarkX
}
