package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/matchroom-backend/internal/entity"
)

var ErrHistoryNotFound = errors.New("round history not found")

// RoundRecord is one finished round as archived for the history endpoint.
type RoundRecord struct {
	RoomID   string              `json:"room_id"`
	Round    int                 `json:"round"`
	Winner   string              `json:"winner,omitempty"`
	Line     []int               `json:"line,omitempty"`
	Board    [9]string           `json:"board"`
	Players  []entity.PlayerView `json:"players"`
	PlayedAt time.Time           `json:"played_at"`
}

// RoundHistory archives finished rounds. The live match never reads from it;
// records expire on their own after the configured TTL.
type RoundHistory interface {
	Record(ctx context.Context, record *RoundRecord) error
	ListByRoom(ctx context.Context, roomID string) ([]RoundRecord, error)
	DeleteByRoom(ctx context.Context, roomID string) error
}

type redisHistory struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRoundHistory(client *redis.Client, ttl time.Duration) RoundHistory {
	return &redisHistory{
		client: client,
		ttl:    ttl,
	}
}

func historyKey(roomID string) string {
	return "history:" + roomID
}

func (that *redisHistory) Record(ctx context.Context, record *RoundRecord) error {
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("could not marshal round record: %w", err)
	}

	key := historyKey(record.RoomID)
	if err = that.client.RPush(ctx, key, recordJSON).Err(); err != nil {
		return fmt.Errorf("failed to append round record: %w", err)
	}

	if err = that.client.Expire(ctx, key, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to refresh history ttl: %w", err)
	}

	return nil
}

func (that *redisHistory) ListByRoom(ctx context.Context, roomID string) ([]RoundRecord, error) {
	entries, err := that.client.LRange(ctx, historyKey(roomID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read round history: %w", err)
	}

	if len(entries) == 0 {
		return nil, ErrHistoryNotFound
	}

	records := make([]RoundRecord, 0, len(entries))
	for _, entry := range entries {
		var record RoundRecord
		if err = json.Unmarshal([]byte(entry), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal round record: %w", err)
		}

		records = append(records, record)
	}

	return records, nil
}

func (that *redisHistory) DeleteByRoom(ctx context.Context, roomID string) error {
	if err := that.client.Del(ctx, historyKey(roomID)).Err(); err != nil {
		return fmt.Errorf("failed to delete round history: %w", err)
	}

	return nil
}
