package entity

import (
	"sync"
	"time"
)

const (
	MarkX = "X"
	MarkO = "O"

	EmptyCell = ""

	MaxSeats = 2
)

// State is the explicit lifecycle tag of a room. Moves are only accepted
// while the room is StateInProgress; ready-acks only while StateRoundOver.
type State string

const (
	StateWaiting    State = "waiting"
	StateInProgress State = "in_progress"
	StateRoundOver  State = "round_over"
)

// Seat is a slot in a room bound to a stable player identity. A seat is
// never removed once assigned; a disconnect only clears its connection id.
type Seat struct {
	PlayerID string `json:"player_id"`
	Nickname string `json:"nickname"`
	Mark     string `json:"mark"`
	Points   int    `json:"points"`
	ConnID   string `json:"connection_id,omitempty"`
}

func (that *Seat) IsConnected() bool {
	return that.ConnID != ""
}

// Room is one match between two seats. All field access after creation must
// happen while holding the room lock; operations on different rooms are
// fully independent.
type Room struct {
	mu sync.Mutex

	ID        string
	Seats     []*Seat
	Board     [9]string
	Turn      string
	Round     int
	State     State
	ReadyAcks map[string]struct{}

	cleanup *time.Timer
	expired bool
}

// NewRoom - creates a room with a single seat holding mark X, an empty
// board, turn X and round 1.
func NewRoom(id string, seat *Seat) *Room {
	seat.Mark = MarkX

	return &Room{
		ID:        id,
		Seats:     []*Seat{seat},
		Turn:      MarkX,
		Round:     1,
		State:     StateWaiting,
		ReadyAcks: make(map[string]struct{}),
	}
}

func (that *Room) Lock()   { that.mu.Lock() }
func (that *Room) Unlock() { that.mu.Unlock() }

// SeatByConn - finds the seat currently bound to the given connection.
func (that *Room) SeatByConn(connID string) *Seat {
	if connID == "" {
		return nil
	}

	for _, seat := range that.Seats {
		if seat.ConnID == connID {
			return seat
		}
	}

	return nil
}

// SeatByPlayer - finds the seat owned by the given player identity.
func (that *Room) SeatByPlayer(playerID string) *Seat {
	for _, seat := range that.Seats {
		if seat.PlayerID == playerID {
			return seat
		}
	}

	return nil
}

// ActiveConnections - counts seats with a live connection.
func (that *Room) ActiveConnections() int {
	count := 0
	for _, seat := range that.Seats {
		if seat.IsConnected() {
			count++
		}
	}

	return count
}

// ResetBoard - clears every cell.
func (that *Room) ResetBoard() {
	for i := range that.Board {
		that.Board[i] = EmptyCell
	}
}

// ScheduleCleanup - arms the idle-cleanup timer. Re-arming while a timer is
// already pending is a no-op and returns false. Caller must hold the room lock.
func (that *Room) ScheduleCleanup(grace time.Duration, fire func()) bool {
	if that.cleanup != nil {
		return false
	}

	that.cleanup = time.AfterFunc(grace, fire)

	return true
}

// CancelCleanup - disarms any pending cleanup timer. Safe to call when no
// timer is armed, and safe against a timer that already fired. Caller must
// hold the room lock.
func (that *Room) CancelCleanup() {
	if that.cleanup == nil {
		return
	}

	that.cleanup.Stop()
	that.cleanup = nil
}

// CleanupArmed - reports whether an idle-cleanup timer is pending.
// Caller must hold the room lock.
func (that *Room) CleanupArmed() bool {
	return that.cleanup != nil
}

// MarkExpired - tombstones a room removed by idle cleanup, so a caller that
// fetched the pointer before removal cannot operate on it. Caller must hold
// the room lock.
func (that *Room) MarkExpired() {
	that.expired = true
}

// Expired - reports whether the room has been tombstoned. Caller must hold
// the room lock.
func (that *Room) Expired() bool {
	return that.expired
}
