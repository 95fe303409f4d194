package entity

// PlayerView is the outward projection of a seat. ConnectionID is nil for a
// disconnected seat so clients can render presence.
type PlayerView struct {
	PlayerID     string  `json:"player_id"`
	Nickname     string  `json:"nickname"`
	Mark         string  `json:"mark"`
	Points       int     `json:"points"`
	ConnectionID *string `json:"connection_id"`
}

// Snapshot is the full read-only projection of a room, used for the
// start-of-match broadcast, rejoin replies and the HTTP status query.
type Snapshot struct {
	RoomID  string       `json:"room_id"`
	Round   int          `json:"round"`
	Turn    string       `json:"player_turn"`
	Board   [9]string    `json:"board"`
	State   State        `json:"state"`
	Players []PlayerView `json:"players"`
}

// PlayerViews - projects every seat in assignment order. Caller must hold
// the room lock.
func (that *Room) PlayerViews() []PlayerView {
	views := make([]PlayerView, 0, len(that.Seats))
	for _, seat := range that.Seats {
		view := PlayerView{
			PlayerID: seat.PlayerID,
			Nickname: seat.Nickname,
			Mark:     seat.Mark,
			Points:   seat.Points,
		}
		if seat.IsConnected() {
			connID := seat.ConnID
			view.ConnectionID = &connID
		}
		views = append(views, view)
	}

	return views
}

// Snapshot - captures the room's current state. Caller must hold the room lock.
func (that *Room) Snapshot() *Snapshot {
	return &Snapshot{
		RoomID:  that.ID,
		Round:   that.Round,
		Turn:    that.Turn,
		Board:   that.Board,
		State:   that.State,
		Players: that.PlayerViews(),
	}
}
