package match

import "github.com/rocketscienceinc/matchroom-backend/internal/entity"

// MoveResult describes one accepted move. It always carries the update-board
// payload; RoundOver is non-nil only when the move ended the round.
type MoveResult struct {
	Board [9]string `json:"board"`
	Turn  string    `json:"player_turn"`
	Cell  int       `json:"cell"`

	RoundOver *RoundResult `json:"-"`
}

// RoundResult is the round-over broadcast payload. Winner is empty and Line
// nil on a draw.
type RoundResult struct {
	RoomID  string              `json:"room_id"`
	Round   int                 `json:"round"`
	Winner  string              `json:"winner,omitempty"`
	Line    []int               `json:"line,omitempty"`
	Board   [9]string           `json:"board"`
	Cell    int                 `json:"cell"`
	Players []entity.PlayerView `json:"players"`
}

// RoundStart is the new-round broadcast payload.
type RoundStart struct {
	Round   int                 `json:"round"`
	Board   [9]string           `json:"board"`
	Turn    string              `json:"player_turn"`
	Players []entity.PlayerView `json:"players"`
}

// PlayerLeft is the broadcast payload for a seat losing its connection.
type PlayerLeft struct {
	PlayerID string `json:"player_id"`
	Nickname string `json:"nickname"`
	Mark     string `json:"mark"`
}
