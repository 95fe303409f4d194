package tictactoe

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/matchroom-backend/internal/entity"
)

func TestEvaluate(t *testing.T) {
	t.Run("Every winning line is detected", func(t *testing.T) {
		lines := [8][3]int{
			{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
			{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
			{0, 4, 8}, {2, 4, 6},
		}

		for _, line := range lines {
			t.Run(fmt.Sprintf("line %v", line), func(t *testing.T) {
				// Given: a board where X holds the whole line
				var board [9]string
				for _, cell := range line {
					board[cell] = entity.MarkX
				}

				// When: the board is evaluated
				result, ok := Evaluate(board)

				// Then: X wins on exactly that line
				require.True(t, ok)
				require.Equal(t, entity.MarkX, result.Winner)
				require.Equal(t, line, result.Line)
			})
		}
	})

	t.Run("No winner on an empty board", func(t *testing.T) {
		var board [9]string

		_, ok := Evaluate(board)

		require.False(t, ok)
	})

	t.Run("No winner on a mixed line", func(t *testing.T) {
		// Given: three filled cells that do not share a mark
		board := [9]string{entity.MarkX, entity.MarkO, entity.MarkX}

		_, ok := Evaluate(board)

		require.False(t, ok)
	})

	t.Run("No winner on a full drawn board", func(t *testing.T) {
		// Given: a classic drawn position
		board := [9]string{
			entity.MarkO, entity.MarkX, entity.MarkO,
			entity.MarkO, entity.MarkX, entity.MarkX,
			entity.MarkX, entity.MarkO, entity.MarkO,
		}

		_, ok := Evaluate(board)

		require.False(t, ok)
		assert.True(t, IsFull(board))
	})

	t.Run("Double line reports the first in scan order", func(t *testing.T) {
		// Given: X completes both the top row and the left column
		board := [9]string{
			entity.MarkX, entity.MarkX, entity.MarkX,
			entity.MarkX, entity.MarkO, entity.MarkO,
			entity.MarkX, entity.EmptyCell, entity.EmptyCell,
		}

		// When: the board is evaluated
		result, ok := Evaluate(board)

		// Then: the row wins the tie-break because rows are scanned first
		require.True(t, ok)
		assert.Equal(t, [3]int{0, 1, 2}, result.Line)
	})

	t.Run("O wins are reported too", func(t *testing.T) {
		board := [9]string{
			entity.MarkX, entity.MarkO, entity.MarkX,
			entity.EmptyCell, entity.MarkO, entity.MarkX,
			entity.EmptyCell, entity.MarkO, entity.EmptyCell,
		}

		result, ok := Evaluate(board)

		require.True(t, ok)
		assert.Equal(t, entity.MarkO, result.Winner)
		assert.Equal(t, [3]int{1, 4, 7}, result.Line)
	})
}

func TestIsFull(t *testing.T) {
	t.Run("Partially filled board is not full", func(t *testing.T) {
		board := [9]string{entity.MarkX}

		assert.False(t, IsFull(board))
	})

	t.Run("Fully filled board is full", func(t *testing.T) {
		board := [9]string{
			entity.MarkX, entity.MarkO, entity.MarkX,
			entity.MarkO, entity.MarkX, entity.MarkO,
			entity.MarkX, entity.MarkO, entity.MarkX,
		}

		assert.True(t, IsFull(board))
	})
}
