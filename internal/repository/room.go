package repository

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rocketscienceinc/matchroom-backend/internal/entity"
	"github.com/rocketscienceinc/matchroom-backend/internal/pkg"
)

var ErrNoFreeRoomCode = errors.New("could not allocate a unique room code")

// maxCodeAttempts bounds the collision re-roll loop; with a 36^6 code space
// hitting it means something is wrong with the randomness source.
const maxCodeAttempts = 16

// RoomStore is the process-wide registry of live rooms. It guarantees atomic
// create/get/delete across concurrent callers; serializing operations within
// one room is the room lock's job.
type RoomStore interface {
	Create(seat *entity.Seat) (*entity.Room, error)
	Get(id string) (*entity.Room, bool)
	Delete(id string)
	Len() int
}

type memoryRoomStore struct {
	mu    sync.RWMutex
	rooms map[string]*entity.Room
}

func NewRoomStore() RoomStore {
	return &memoryRoomStore{
		rooms: make(map[string]*entity.Room),
	}
}

// Create - allocates a fresh room code, re-rolling on collision with a live
// room, and registers a new room with the given seat holding mark X.
func (that *memoryRoomStore) Create(seat *entity.Seat) (*entity.Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := pkg.GenerateRoomCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate room code: %w", err)
		}

		if _, taken := that.rooms[code]; taken {
			continue
		}

		room := entity.NewRoom(code, seat)
		that.rooms[code] = room

		return room, nil
	}

	return nil, ErrNoFreeRoomCode
}

func (that *memoryRoomStore) Get(id string) (*entity.Room, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	room, ok := that.rooms[id]

	return room, ok
}

// Delete - removes the room; no-op if absent.
func (that *memoryRoomStore) Delete(id string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.rooms, id)
}

func (that *memoryRoomStore) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.rooms)
}
