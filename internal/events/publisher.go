package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// payloadField is the stream entry field carrying the JSON envelope. The
// subscriber reads the same field, so the two sides never drift apart.
const payloadField = "event"

// Publisher appends events to Redis streams. Each stream entry carries one
// encoded Event envelope; delivery and retry are the consumer group's
// concern, not the publisher's.
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish stamps data into an envelope and appends it to the stream. The
// returned error covers encoding and the append only; callers decide whether
// a failed publish matters (command services warn, the ledger notifier
// swallows).
func (p *Publisher) Publish(ctx context.Context, stream, eventType string, data any) error {
	envelope, err := encodeEvent(eventType, data)
	if err != nil {
		return err
	}
	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{payloadField: envelope},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to append %s event to %s: %w", eventType, stream, err)
	}
	return nil
}

// encodeEvent builds the wire envelope the subscriber decodes.
func encodeEvent(eventType string, data any) ([]byte, error) {
	envelope, err := json.Marshal(Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s event: %w", eventType, err)
	}
	return envelope, nil
}
