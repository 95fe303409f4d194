package tictactoe

import "github.com/rocketscienceinc/matchroom-backend/internal/entity"

// winLines holds the 8 fixed winning triples, scanned in a fixed order:
// rows, then columns, then diagonals. When one move completes more than one
// line, Evaluate reports the first match in this order.
var winLines = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Result is a completed winning line.
type Result struct {
	Winner string
	Line   [3]int
}

// Evaluate - scans the board for a line of three equal non-empty marks.
// Pure: never mutates the board, has no failure modes.
func Evaluate(board [9]string) (Result, bool) {
	for _, line := range winLines {
		a, b, c := board[line[0]], board[line[1]], board[line[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return Result{Winner: a, Line: line}, true
		}
	}

	return Result{}, false
}

// IsFull - reports whether no empty cell remains.
func IsFull(board [9]string) bool {
	for _, cell := range board {
		if cell == entity.EmptyCell {
			return false
		}
	}

	return true
}
