package apperror

import "errors"

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomFull       = errors.New("room is full")
	ErrSeatNotFound   = errors.New("seat not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotYourTurn    = errors.New("it's not your turn")
	ErrCellOccupied   = errors.New("cell is already occupied")
	ErrInvalidCell    = errors.New("invalid cell index")
	ErrRoundNotActive = errors.New("round is not active")
	ErrRoundNotOver   = errors.New("round is not over yet")
)
