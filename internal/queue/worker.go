package queue

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/simonkvalheim/bankist/internal/model"
)

// Handler is called for every movement read from the queue
type Handler func(ctx context.Context, msg *MovementMessage) error

// Worker consumes movement messages from the queue
type Worker struct {
	client  Client
	handler Handler
	stopCh  chan struct{}
}

// NewWorker creates a new Worker. A nil handler logs each movement.
func NewWorker(client Client, handler Handler) *Worker {
	if handler == nil {
		handler = LogMovement
	}
	return &Worker{
		client:  client,
		handler: handler,
		stopCh:  make(chan struct{}),
	}
}

// Start begins consuming messages from the queue
// This runs in a loop until Stop() is called
func (w *Worker) Start(ctx context.Context) {
	log.Info().Str("queue", QueueName).Msg("Worker started, listening for movements...")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Worker stopping due to context cancellation")
			return
		case <-w.stopCh:
			log.Info().Msg("Worker stopping due to stop signal")
			return
		default:
			// Wait up to 5 seconds for a message, then loop to check for stop signal
			result, err := w.client.BLPop(ctx, 5*time.Second, QueueName).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					continue
				}
				if ctx.Err() != nil {
					return
				}
				log.Error().Err(err).Msg("Error reading from queue")
				time.Sleep(1 * time.Second) // Brief pause before retry
				continue
			}

			// result[0] is the queue name, result[1] is the message
			if len(result) < 2 {
				continue
			}

			w.processMessage(ctx, result[1])
		}
	}
}

// Stop signals the worker to stop processing
func (w *Worker) Stop() {
	close(w.stopCh)
}

// processMessage handles a single message from the queue
func (w *Worker) processMessage(ctx context.Context, data string) {
	msg, err := decode(data)
	if err != nil {
		log.Error().Err(err).Msg("Dropping malformed message")
		return
	}

	if err := w.handler(ctx, msg); err != nil {
		log.Error().Err(err).
			Str("movement_id", msg.Event.MovementID.String()).
			Msg("Failed to handle movement")
	}
}

// ProcessOne handles the message at the head of the queue without blocking.
// It reports false when the queue is empty.
func (w *Worker) ProcessOne(ctx context.Context) (bool, error) {
	result, err := w.client.LPop(ctx, QueueName).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}

	w.processMessage(ctx, result)
	return true, nil
}

// Drain handles every message already queued and returns how many it read
func (w *Worker) Drain(ctx context.Context) (int, error) {
	n := 0
	for {
		ok, err := w.ProcessOne(ctx)
		if err != nil {
			return n, err
		}
		if !ok {
			return n, nil
		}
		n++
	}
}

// LogMovement writes one structured log line per movement
func LogMovement(_ context.Context, msg *MovementMessage) error {
	ev := log.Info().
		Str("movement_id", msg.Event.MovementID.String()).
		Str("username", msg.Event.Username).
		Str("kind", string(msg.Event.Kind)).
		Str("amount", msg.Event.Amount.String()).
		Time("date", msg.Event.Date).
		Dur("lag", time.Since(msg.PublishedAt))
	if msg.Event.Counterparty != "" {
		ev = ev.Str("counterparty", msg.Event.Counterparty)
	}
	if msg.Event.Kind == model.MovementKindLoan {
		ev.Msg("Loan deposited")
		return nil
	}
	ev.Msg("Movement recorded")
	return nil
}
