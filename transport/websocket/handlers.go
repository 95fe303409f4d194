package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/matchroom-backend/internal/apperror"
)

func (that *Server) handleCreateRoom(ctx context.Context, c *client, payload json.RawMessage) error {
	log := that.logger.With("method", "handleCreateRoom")

	var req createRoomRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	snapshot, err := that.manager.CreateRoom(ctx, req.PlayerID, req.Nickname, c.id)
	if err != nil {
		log.Error("failed to create room", "error", err)
		that.sendFailure(c, ActionRoomCreated, failureMessage(err))
		return nil
	}

	that.detachFromRoom(ctx, c, snapshot.RoomID)
	c.setRoomID(snapshot.RoomID)
	that.hub.Add(snapshot.RoomID, c)

	return c.Send(newMessage(ActionRoomCreated, resultPayload{
		Success:  true,
		RoomID:   snapshot.RoomID,
		Snapshot: snapshot,
	}))
}

func (that *Server) handleJoinRoom(ctx context.Context, c *client, payload json.RawMessage) error {
	log := that.logger.With("method", "handleJoinRoom")

	var req joinRoomRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	snapshot, err := that.manager.JoinRoom(ctx, req.RoomID, req.PlayerID, req.Nickname, c.id)
	if err != nil {
		log.Error("failed to join room", "roomID", req.RoomID, "error", err)
		that.sendFailure(c, ActionJoinResult, failureMessage(err))
		return nil
	}

	that.detachFromRoom(ctx, c, snapshot.RoomID)
	c.setRoomID(snapshot.RoomID)
	that.hub.Add(snapshot.RoomID, c)

	if err = c.Send(newMessage(ActionJoinResult, resultPayload{Success: true, RoomID: snapshot.RoomID})); err != nil {
		return err
	}

	// Both seats are now taken: the start-of-match snapshot goes to everyone.
	that.hub.Broadcast(snapshot.RoomID, newMessage(ActionStartGame, snapshot))

	return nil
}

func (that *Server) handleRejoinRoom(ctx context.Context, c *client, payload json.RawMessage) error {
	log := that.logger.With("method", "handleRejoinRoom")

	var req rejoinRoomRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	snapshot, err := that.manager.RejoinRoom(ctx, req.RoomID, req.PlayerID, c.id)
	if err != nil {
		log.Error("failed to rejoin room", "roomID", req.RoomID, "error", err)
		that.sendFailure(c, ActionRejoinResult, failureMessage(err))
		return nil
	}

	that.detachFromRoom(ctx, c, snapshot.RoomID)
	c.setRoomID(snapshot.RoomID)
	that.hub.Add(snapshot.RoomID, c)

	// Rejoin replies to the caller only; the room is not notified.
	return c.Send(newMessage(ActionRejoinResult, resultPayload{
		Success:  true,
		RoomID:   snapshot.RoomID,
		Snapshot: snapshot,
	}))
}

func (that *Server) handleMakeMove(ctx context.Context, c *client, payload json.RawMessage) error {
	var req makeMoveRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	result, ok := that.manager.MakeMove(ctx, req.RoomID, c.id, req.Index)
	if !ok {
		// Rejected moves are dropped without a reply.
		return nil
	}

	that.hub.Broadcast(req.RoomID, newMessage(ActionUpdateBoard, result))

	if result.RoundOver != nil {
		that.hub.Broadcast(req.RoomID, newMessage(ActionRoundOver, result.RoundOver))
	}

	return nil
}

func (that *Server) handleReadyNextRound(ctx context.Context, c *client, payload json.RawMessage) error {
	var req roomRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	start, ok := that.manager.ReadyNextRound(ctx, req.RoomID, c.id)
	if !ok {
		// Either the ack is still accumulating or it was dropped; silent
		// in both cases.
		return nil
	}

	that.hub.Broadcast(req.RoomID, newMessage(ActionNewRound, start))

	return nil
}

func (that *Server) handleResetScores(ctx context.Context, c *client, payload json.RawMessage) error {
	var req roomRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	players, ok := that.manager.ResetScores(ctx, req.RoomID)
	if !ok {
		return nil
	}

	that.hub.Broadcast(req.RoomID, newMessage(ActionScoreReset, scoreResetPayload{Players: players}))

	return nil
}

// failureMessage - maps state machine rejections to the human-readable
// reasons clients display.
func failureMessage(err error) string {
	switch {
	case errors.Is(err, apperror.ErrRoomNotFound):
		return "Room not found"
	case errors.Is(err, apperror.ErrRoomFull):
		return "Room is full"
	case errors.Is(err, apperror.ErrSeatNotFound):
		return "Seat not found"
	case errors.Is(err, apperror.ErrInvalidInput):
		return "Nickname and player id are required"
	default:
		return "Request failed"
	}
}
