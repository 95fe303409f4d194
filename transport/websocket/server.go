package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/matchroom-backend/internal/entity"
	"github.com/rocketscienceinc/matchroom-backend/internal/match"
)

const writeTimeout = 5 * time.Second

type roomManager interface {
	CreateRoom(ctx context.Context, playerID, nickname, connID string) (*entity.Snapshot, error)
	JoinRoom(ctx context.Context, roomID, playerID, nickname, connID string) (*entity.Snapshot, error)
	RejoinRoom(ctx context.Context, roomID, playerID, connID string) (*entity.Snapshot, error)
	MakeMove(ctx context.Context, roomID, connID string, cell int) (*match.MoveResult, bool)
	ReadyNextRound(ctx context.Context, roomID, connID string) (*match.RoundStart, bool)
	ResetScores(ctx context.Context, roomID string) ([]entity.PlayerView, bool)
	Disconnect(ctx context.Context, roomID, connID string) (*match.PlayerLeft, bool)
}

// Server is the session gateway: it owns the websocket endpoint, maps each
// inbound request to exactly one RoomManager call and pushes the resulting
// payloads to the requesting connection and/or the whole room.
type Server struct {
	logger   *slog.Logger
	manager  roomManager
	hub      *Hub
	upgrader websocket.Upgrader

	handlers map[string]func(ctx context.Context, c *client, payload json.RawMessage) error
}

func New(logger *slog.Logger, manager roomManager) *Server {
	server := &Server{
		logger:  logger,
		manager: manager,
		hub:     NewHub(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},
		handlers: make(map[string]func(context.Context, *client, json.RawMessage) error),
	}

	server.handlers[ActionCreateRoom] = server.handleCreateRoom
	server.handlers[ActionJoinRoom] = server.handleJoinRoom
	server.handlers[ActionRejoinRoom] = server.handleRejoinRoom
	server.handlers[ActionMakeMove] = server.handleMakeMove
	server.handlers[ActionReadyNextRound] = server.handleReadyNextRound
	server.handlers[ActionResetScores] = server.handleResetScores

	return server
}

// Start - starts the websocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveConnection(ctx, w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) serveConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveConnection")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := newClient(conn, uuid.NewString())
	defer func() {
		that.handleConnectionClosed(ctx, c)
		_ = conn.Close()
	}()

	log.Info("connection established", "connID", c.id)

	if err = c.Send(newMessage(ActionConnected, connectedPayload{ConnectionID: c.id})); err != nil {
		log.Error("failed to send connected message", "connID", c.id, "error", err)
		return
	}

	that.readLoop(ctx, c)
}

// readLoop - processes messages from the client until the connection drops.
func (that *Server) readLoop(ctx context.Context, c *client) {
	log := that.logger.With("method", "readLoop", "connID", c.id)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			log.Info("connection closed", "error", err)
			return
		}

		var msg Message
		if err = json.Unmarshal(data, &msg); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			that.sendFailure(c, ActionError, "malformed message")
			continue
		}

		handler, ok := that.handlers[msg.Action]
		if !ok {
			log.Error("unknown action", "action", msg.Action)
			that.sendFailure(c, ActionError, "unknown action: "+msg.Action)
			continue
		}

		if err = handler(ctx, c, msg.Payload); err != nil {
			log.Error("failed to process message", "action", msg.Action, "error", err)
		}
	}
}

// handleConnectionClosed - the implicit disconnect event: unsubscribes the
// connection, marks its seat disconnected and notifies the room.
func (that *Server) handleConnectionClosed(ctx context.Context, c *client) {
	roomID := c.RoomID()
	if roomID == "" {
		return
	}

	that.hub.Remove(roomID, c.id)

	left, ok := that.manager.Disconnect(ctx, roomID, c.id)
	if !ok {
		return
	}

	that.hub.Broadcast(roomID, newMessage(ActionPlayerLeft, left))
}

// detachFromRoom - a connection holds at most one seat at a time; before it
// is bound to a different room, its current seat is released exactly as if
// the connection had dropped, so the old room sees player-left and can arm
// idle cleanup.
func (that *Server) detachFromRoom(ctx context.Context, c *client, nextRoomID string) {
	roomID := c.RoomID()
	if roomID == "" || roomID == nextRoomID {
		return
	}

	that.hub.Remove(roomID, c.id)
	c.setRoomID("")

	if left, ok := that.manager.Disconnect(ctx, roomID, c.id); ok {
		that.hub.Broadcast(roomID, newMessage(ActionPlayerLeft, left))
	}
}

func (that *Server) sendFailure(c *client, action, message string) {
	if err := c.Send(newMessage(action, resultPayload{Success: false, Message: message})); err != nil {
		that.logger.Error("failed to send failure reply", "connID", c.id, "error", err)
	}
}

// client is one websocket connection with its server-minted identifier and,
// once seated, the room it is subscribed to.
type client struct {
	conn *websocket.Conn
	id   string

	mu     sync.Mutex
	roomID string

	writeMu sync.Mutex
}

func newClient(conn *websocket.Conn, id string) *client {
	return &client{
		conn: conn,
		id:   id,
	}
}

func (that *client) ID() string {
	return that.id
}

func (that *client) RoomID() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.roomID
}

func (that *client) setRoomID(roomID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.roomID = roomID
}

// Send - writes one message; writes are serialized per connection.
func (that *client) Send(msg Message) error {
	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	_ = that.conn.SetWriteDeadline(time.Now().Add(writeTimeout))

	if err := that.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
