package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/simonkvalheim/bankist/internal/model"
)

const (
	// QueueName is the Redis list key for appended movements
	QueueName = "bankist:movements"
)

// MovementMessage is the message published to the queue
type MovementMessage struct {
	Event       model.MovementEvent `json:"event"`
	PublishedAt time.Time           `json:"published_at"`
}

// Client is the part of the Redis API the queue uses. *redis.Client
// satisfies it.
type Client interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	LLen(ctx context.Context, key string) *redis.IntCmd
	BLPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
	LPop(ctx context.Context, key string) *redis.StringCmd
}

// Publisher handles publishing messages to Redis
type Publisher struct {
	client Client
	now    func() time.Time
}

// NewPublisher creates a new Publisher
func NewPublisher(client Client) *Publisher {
	return &Publisher{client: client, now: time.Now}
}

// PublishMovement publishes an appended movement to the feed
func (p *Publisher) PublishMovement(ctx context.Context, event model.MovementEvent) error {
	data, err := encode(event, p.now())
	if err != nil {
		return err
	}

	// Use RPUSH to add to the end of the list (FIFO queue)
	if err := p.client.RPush(ctx, QueueName, data).Err(); err != nil {
		return fmt.Errorf("failed to publish to queue: %w", err)
	}

	return nil
}

// QueueLength returns the current number of messages in the queue
func (p *Publisher) QueueLength(ctx context.Context) (int64, error) {
	return p.client.LLen(ctx, QueueName).Result()
}

func encode(event model.MovementEvent, at time.Time) ([]byte, error) {
	data, err := json.Marshal(MovementMessage{Event: event, PublishedAt: at})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}
	return data, nil
}

func decode(data string) (*MovementMessage, error) {
	var msg MovementMessage
	if err := json.Unmarshal([]byte(data), &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	return &msg, nil
}
