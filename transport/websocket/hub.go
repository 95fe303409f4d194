package websocket

import "sync"

// Conn is what the hub needs from a connection.
type Conn interface {
	ID() string
	Send(msg Message) error
}

// Hub tracks which connections are subscribed to which room and fans
// broadcasts out to all of them. Sends are best-effort: a dead connection is
// reaped by its own read loop, not by the hub.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[string]Conn // roomID -> connID -> connection
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[string]Conn),
	}
}

func (that *Hub) Add(roomID string, conn Conn) {
	that.mu.Lock()
	defer that.mu.Unlock()

	conns, ok := that.rooms[roomID]
	if !ok {
		conns = make(map[string]Conn)
		that.rooms[roomID] = conns
	}

	conns[conn.ID()] = conn
}

func (that *Hub) Remove(roomID, connID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if conns, ok := that.rooms[roomID]; ok {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(that.rooms, roomID)
		}
	}
}

func (that *Hub) Broadcast(roomID string, msg Message) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for _, conn := range that.rooms[roomID] {
		_ = conn.Send(msg)
	}
}

// RoomSize - number of subscribed connections, for diagnostics.
func (that *Hub) RoomSize(roomID string) int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.rooms[roomID])
}
