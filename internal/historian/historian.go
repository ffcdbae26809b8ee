// Package historian publishes game action records to an external stream so
// games can be audited and replayed outside the process.
package historian

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultStream is the Redis stream key used when none is configured.
const DefaultStream = "coup:actions"

// ActionRecord is one published entry. ActionIndex is sequential per game.
type ActionRecord struct {
	GameID        uuid.UUID              `json:"gameId"`
	ActionIndex   int                    `json:"actionIndex"`
	ActorUserID   uuid.UUID              `json:"actorUserId"` // uuid.Nil for game events
	ActionType    string                 `json:"actionType"`
	ActionPayload map[string]interface{} `json:"actionPayload,omitempty"`
	Timestamp     int64                  `json:"timestamp"` // unix millis
}

// Publisher delivers action records somewhere durable.
type Publisher interface {
	Publish(ctx context.Context, rec ActionRecord) error
}

// NopPublisher drops every record.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ActionRecord) error { return nil }

// streamAdder is the subset of *redis.Client used by RedisPublisher.
type streamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// RedisPublisher appends records to a Redis stream, one entry per action.
type RedisPublisher struct {
	rdb    streamAdder
	stream string
	maxLen int64
}

// NewRedisPublisher wraps a client. An empty stream selects DefaultStream; a
// positive maxLen caps the stream approximately.
func NewRedisPublisher(rdb *redis.Client, stream string, maxLen int64) *RedisPublisher {
	return newRedisPublisher(rdb, stream, maxLen)
}

func newRedisPublisher(rdb streamAdder, stream string, maxLen int64) *RedisPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisPublisher{rdb: rdb, stream: stream, maxLen: maxLen}
}

// Stream returns the stream key records are written to.
func (p *RedisPublisher) Stream() string { return p.stream }

// Publish XADDs rec. The payload is stored JSON encoded under "payload".
func (p *RedisPublisher) Publish(ctx context.Context, rec ActionRecord) error {
	payload, err := json.Marshal(rec.ActionPayload)
	if err != nil {
		return fmt.Errorf("encode payload for action %d: %w", rec.ActionIndex, err)
	}
	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"game_id":      rec.GameID.String(),
			"action_index": rec.ActionIndex,
			"actor":        rec.ActorUserID.String(),
			"action_type":  rec.ActionType,
			"payload":      string(payload),
			"ts":           rec.Timestamp,
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}
	if err := p.rdb.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return nil
}
