package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/matchroom-backend/internal/entity"
)

// Message is the wire envelope for every inbound request and outbound event.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound actions.
const (
	ActionCreateRoom     = "create-room"
	ActionJoinRoom       = "join-room"
	ActionRejoinRoom     = "rejoin-room"
	ActionMakeMove       = "make-move"
	ActionReadyNextRound = "ready-next-round"
	ActionResetScores    = "reset-scores"
)

// Outbound actions: direct replies and room-wide broadcasts.
const (
	ActionConnected    = "connected"
	ActionRoomCreated  = "room-created"
	ActionJoinResult   = "join-result"
	ActionRejoinResult = "rejoin-result"
	ActionError        = "error"

	ActionStartGame   = "start-game"
	ActionUpdateBoard = "update-board"
	ActionRoundOver   = "round-over"
	ActionNewRound    = "new-round"
	ActionScoreReset  = "score-reset"
	ActionPlayerLeft  = "player-left"
)

type createRoomRequest struct {
	PlayerID string `json:"player_id"`
	Nickname string `json:"nickname"`
}

type joinRoomRequest struct {
	RoomID   string `json:"room_id"`
	PlayerID string `json:"player_id"`
	Nickname string `json:"nickname"`
}

type rejoinRoomRequest struct {
	RoomID   string `json:"room_id"`
	PlayerID string `json:"player_id"`
}

type makeMoveRequest struct {
	RoomID string `json:"room_id"`
	Index  int    `json:"index"`
}

type roomRequest struct {
	RoomID string `json:"room_id"`
}

// resultPayload is the reply shape for requests with an explicit
// success/failure outcome (create/join/rejoin).
type resultPayload struct {
	Success  bool             `json:"success"`
	Message  string           `json:"message,omitempty"`
	RoomID   string           `json:"room_id,omitempty"`
	Snapshot *entity.Snapshot `json:"snapshot,omitempty"`
}

type connectedPayload struct {
	ConnectionID string `json:"connection_id"`
}

type scoreResetPayload struct {
	Players []entity.PlayerView `json:"players"`
}

func mustMarshal(v interface{}) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}

	return b
}

func newMessage(action string, payload interface{}) Message {
	return Message{
		Action:  action,
		Payload: mustMarshal(payload),
	}
}
