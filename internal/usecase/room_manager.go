package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/matchroom-backend/internal/apperror"
	"github.com/rocketscienceinc/matchroom-backend/internal/entity"
	"github.com/rocketscienceinc/matchroom-backend/internal/match"
	"github.com/rocketscienceinc/matchroom-backend/internal/repository"
)

type roomStore interface {
	Create(seat *entity.Seat) (*entity.Room, error)
	Get(id string) (*entity.Room, bool)
	Delete(id string)
}

type roundHistory interface {
	Record(ctx context.Context, record *repository.RoundRecord) error
	DeleteByRoom(ctx context.Context, roomID string) error
}

// RoomManager dispatches gateway events to the room state machine. It is the
// single logical owner of every room: each operation takes the room lock for
// its whole read-modify-write, so operations within one room never interleave
// while different rooms proceed concurrently.
type RoomManager struct {
	logger  *slog.Logger
	store   roomStore
	history roundHistory

	cleanupGrace time.Duration
}

func NewRoomManager(logger *slog.Logger, store roomStore, history roundHistory, cleanupGrace time.Duration) *RoomManager {
	return &RoomManager{
		logger:       logger,
		store:        store,
		history:      history,
		cleanupGrace: cleanupGrace,
	}
}

// CreateRoom - allocates a room with the caller seated as X and returns the
// initial snapshot.
func (that *RoomManager) CreateRoom(_ context.Context, playerID, nickname, connID string) (*entity.Snapshot, error) {
	log := that.logger.With("method", "CreateRoom")

	if playerID == "" || nickname == "" {
		return nil, apperror.ErrInvalidInput
	}

	seat := &entity.Seat{
		PlayerID: playerID,
		Nickname: nickname,
		ConnID:   connID,
	}

	room, err := that.store.Create(seat)
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	room.Lock()
	defer room.Unlock()

	log.Info("room created", "roomID", room.ID, "playerID", playerID)

	return room.Snapshot(), nil
}

// lockRoom - fetches and locks a room, treating a tombstoned room exactly
// like an absent one. The pointer lookup and the lock are not atomic, so a
// room expired between the two must not be operated on.
func (that *RoomManager) lockRoom(roomID string) (*entity.Room, bool) {
	room, ok := that.store.Get(roomID)
	if !ok {
		return nil, false
	}

	room.Lock()
	if room.Expired() {
		room.Unlock()
		return nil, false
	}

	return room, true
}

// JoinRoom - seats the caller as O and returns the start-of-match snapshot,
// which the gateway broadcasts to the whole room.
func (that *RoomManager) JoinRoom(_ context.Context, roomID, playerID, nickname, connID string) (*entity.Snapshot, error) {
	log := that.logger.With("method", "JoinRoom")

	room, ok := that.lockRoom(roomID)
	if !ok {
		return nil, apperror.ErrRoomNotFound
	}
	defer room.Unlock()

	if err := match.Join(room, playerID, nickname, connID); err != nil {
		return nil, fmt.Errorf("failed to join room %s: %w", roomID, err)
	}

	// The creator may have dropped while waiting; the joiner's live
	// connection keeps the room occupied.
	room.CancelCleanup()

	log.Info("player joined", "roomID", roomID, "playerID", playerID)

	return room.Snapshot(), nil
}

// RejoinRoom - rebinds an existing seat to a new connection, cancels any
// pending cleanup and returns a snapshot for the rejoining caller only.
func (that *RoomManager) RejoinRoom(_ context.Context, roomID, playerID, connID string) (*entity.Snapshot, error) {
	log := that.logger.With("method", "RejoinRoom")

	room, ok := that.lockRoom(roomID)
	if !ok {
		return nil, apperror.ErrRoomNotFound
	}
	defer room.Unlock()

	seat, err := match.Rejoin(room, playerID, connID)
	if err != nil {
		return nil, fmt.Errorf("failed to rejoin room %s: %w", roomID, err)
	}

	log.Info("player rejoined", "roomID", roomID, "playerID", playerID, "mark", seat.Mark)

	return room.Snapshot(), nil
}

// MakeMove - applies a move. Rejections are fail-silent towards the client:
// the transport is trusted to reflect legal-move affordances, so stale or
// duplicate events are dropped here with only a debug log entry.
func (that *RoomManager) MakeMove(ctx context.Context, roomID, connID string, cell int) (*match.MoveResult, bool) {
	log := that.logger.With("method", "MakeMove")

	room, ok := that.lockRoom(roomID)
	if !ok {
		log.Debug("move dropped", "roomID", roomID, "reason", apperror.ErrRoomNotFound)
		return nil, false
	}
	defer room.Unlock()

	result, err := match.ApplyMove(room, connID, cell)
	if err != nil {
		log.Debug("move dropped", "roomID", roomID, "cell", cell, "reason", err)
		return nil, false
	}

	if result.RoundOver != nil {
		that.archiveRound(ctx, result.RoundOver)
	}

	return result, true
}

// ReadyNextRound - records a ready-ack. The new-round payload is returned
// only on the ack that advances the round; earlier acks accumulate silently.
func (that *RoomManager) ReadyNextRound(_ context.Context, roomID, connID string) (*match.RoundStart, bool) {
	log := that.logger.With("method", "ReadyNextRound")

	room, ok := that.lockRoom(roomID)
	if !ok {
		log.Debug("ready dropped", "roomID", roomID, "reason", apperror.ErrRoomNotFound)
		return nil, false
	}
	defer room.Unlock()

	start, err := match.Ready(room, connID)
	if err != nil {
		log.Debug("ready dropped", "roomID", roomID, "reason", err)
		return nil, false
	}

	if start == nil {
		return nil, false
	}

	log.Info("round advanced", "roomID", roomID, "round", start.Round, "turn", start.Turn)

	return start, true
}

// ResetScores - zeroes every seat's points and returns the updated player list.
func (that *RoomManager) ResetScores(_ context.Context, roomID string) ([]entity.PlayerView, bool) {
	room, ok := that.lockRoom(roomID)
	if !ok {
		return nil, false
	}
	defer room.Unlock()

	return match.ResetScores(room), true
}

// Disconnect - marks the seat bound to connID as disconnected. When the last
// live connection goes, the idle-cleanup timer is armed; the room survives
// until the grace window elapses with no rejoin.
func (that *RoomManager) Disconnect(_ context.Context, roomID, connID string) (*match.PlayerLeft, bool) {
	log := that.logger.With("method", "Disconnect")

	room, ok := that.lockRoom(roomID)
	if !ok {
		return nil, false
	}
	defer room.Unlock()

	left, vacated := match.Disconnect(room, connID)
	if left == nil {
		return nil, false
	}

	log.Info("player disconnected", "roomID", roomID, "playerID", left.PlayerID)

	if vacated {
		if room.ScheduleCleanup(that.cleanupGrace, func() { that.expireRoom(room.ID) }) {
			log.Info("idle cleanup armed", "roomID", roomID, "grace", that.cleanupGrace)
		}
	}

	return left, true
}

// Snapshot - read-only projection for the HTTP status query. Mutates nothing.
func (that *RoomManager) Snapshot(_ context.Context, roomID string) (*entity.Snapshot, error) {
	room, ok := that.lockRoom(roomID)
	if !ok {
		return nil, apperror.ErrRoomNotFound
	}
	defer room.Unlock()

	return room.Snapshot(), nil
}

// expireRoom - fires when the idle grace window elapses. Deleting is skipped
// if anyone reconnected in the meantime; firing after a cancel or firing
// twice are both safe no-ops since the occupancy re-check decides.
func (that *RoomManager) expireRoom(roomID string) {
	log := that.logger.With("method", "expireRoom")

	room, ok := that.store.Get(roomID)
	if !ok {
		return
	}

	room.Lock()
	room.CancelCleanup()
	if room.ActiveConnections() > 0 {
		room.Unlock()
		return
	}

	// Tombstone and delete under the room lock, so a caller holding a stale
	// pointer fetched before the delete finds the room expired, not revivable.
	room.MarkExpired()
	that.store.Delete(roomID)
	room.Unlock()

	if err := that.history.DeleteByRoom(context.Background(), roomID); err != nil {
		log.Error("failed to delete round history", "roomID", roomID, "error", err)
	}

	log.Info("idle room deleted", "roomID", roomID)
}

// archiveRound - best-effort write to the history archive; a failure is
// logged and never surfaced to players.
func (that *RoomManager) archiveRound(ctx context.Context, result *match.RoundResult) {
	log := that.logger.With("method", "archiveRound")

	record := &repository.RoundRecord{
		RoomID:   result.RoomID,
		Round:    result.Round,
		Winner:   result.Winner,
		Line:     result.Line,
		Board:    result.Board,
		Players:  result.Players,
		PlayedAt: time.Now().UTC(),
	}

	if err := that.history.Record(ctx, record); err != nil {
		log.Error("failed to archive round", "round", result.Round, "error", err)
	}
}
