package pkg

import (
	"crypto/rand"
	"fmt"
)

// Alphabet for room codes. Codes are read aloud and typed by hand, so the
// set is uppercase alphanumeric only.
const roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const RoomCodeLength = 6

// GenerateRoomCode - generates a 6-character shareable room code.
// Uniqueness among live rooms is the store's job, not this function's.
func GenerateRoomCode() (string, error) {
	buf := make([]byte, RoomCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	for i := range buf {
		buf[i] = roomCodeAlphabet[int(buf[i])%len(roomCodeAlphabet)]
	}

	return string(buf), nil
}
