// Package queue delivers summary log commands at least once over Redis
// lists. A dequeued message is moved atomically to a processing list and
// stays there until it is acknowledged, requeued or dead-lettered.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/iho/wasteledger/internal/domain"
)

// Message is the envelope stored on the queue.
type Message struct {
	ID         string          `json:"id"`
	Attempts   int             `json:"attempts"`
	EnqueuedAt time.Time       `json:"enqueuedAt"`
	Reason     string          `json:"reason,omitempty"`
	Body       json.RawMessage `json:"body"`
}

// Delivery is a dequeued message. Raw is the exact list element so that it
// can be removed from the processing list.
type Delivery struct {
	Message
	Raw string
}

// Command decodes the delivery body.
func (d *Delivery) Command() (domain.Command, error) {
	var cmd domain.Command
	if err := json.Unmarshal(d.Body, &cmd); err != nil {
		return domain.Command{}, fmt.Errorf("%w: malformed command: %w", domain.ErrValidation, err)
	}
	return cmd, nil
}

// RedisQueue implements a reliable queue on Redis lists.
type RedisQueue struct {
	client     *redis.Client
	name       string
	processing string
	dead       string
	now        func() time.Time
}

// NewRedisQueue creates a queue stored under name.
func NewRedisQueue(client *redis.Client, name string) *RedisQueue {
	return &RedisQueue{
		client:     client,
		name:       name,
		processing: name + ":processing",
		dead:       name + ":dead",
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Enqueue publishes a command and returns the message id.
func (q *RedisQueue) Enqueue(ctx context.Context, cmd domain.Command) (string, error) {
	body, err := json.Marshal(cmd)
	if err != nil {
		return "", err
	}

	msg := Message{
		ID:         uuid.NewString(),
		EnqueuedAt: q.now(),
		Body:       body,
	}

	raw, err := json.Marshal(msg)
	if err != nil {
		return "", err
	}

	if err := q.client.LPush(ctx, q.name, raw).Err(); err != nil {
		return "", domain.Transient(fmt.Errorf("enqueue: %w", err))
	}

	return msg.ID, nil
}

// Dequeue waits up to timeout for a message. It returns nil and no error
// when none arrived.
func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (*Delivery, error) {
	raw, err := q.client.BLMove(ctx, q.name, q.processing, "RIGHT", "LEFT", timeout).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	d := &Delivery{Raw: raw}
	if err := json.Unmarshal([]byte(raw), &d.Message); err != nil {
		// The delivery is still returned so it can be dead-lettered.
		d.Message = Message{}
		return d, fmt.Errorf("%w: malformed envelope: %w", domain.ErrValidation, err)
	}

	return d, nil
}

// Ack removes a processed delivery.
func (q *RedisQueue) Ack(ctx context.Context, d *Delivery) error {
	return q.client.LRem(ctx, q.processing, 1, d.Raw).Err()
}

// Requeue puts a delivery back at the tail of the queue with its attempt
// count incremented.
func (q *RedisQueue) Requeue(ctx context.Context, d *Delivery) error {
	next := d.Message
	next.Attempts++

	raw, err := json.Marshal(next)
	if err != nil {
		return err
	}

	_, err = q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, q.processing, 1, d.Raw)
		pipe.LPush(ctx, q.name, raw)
		return nil
	})
	return err
}

// DeadLetter moves a delivery to the dead-letter list with reason.
func (q *RedisQueue) DeadLetter(ctx context.Context, d *Delivery, reason string) error {
	dead := d.Message
	dead.Reason = reason
	if dead.ID == "" {
		dead.ID = uuid.NewString()
	}
	if dead.Body == nil {
		dead.Body, _ = json.Marshal(d.Raw)
	}

	raw, err := json.Marshal(dead)
	if err != nil {
		return err
	}

	_, err = q.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, q.processing, 1, d.Raw)
		pipe.LPush(ctx, q.dead, raw)
		return nil
	})
	return err
}

// RecoverInFlight moves messages left in the processing list by a previous
// worker back onto the queue. It must run before any worker starts.
func (q *RedisQueue) RecoverInFlight(ctx context.Context) (int, error) {
	moved := 0
	for {
		err := q.client.LMove(ctx, q.processing, q.name, "RIGHT", "RIGHT").Err()
		if errors.Is(err, redis.Nil) {
			return moved, nil
		}
		if err != nil {
			return moved, err
		}
		moved++
	}
}

// Len returns the number of waiting messages.
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.name).Result()
}

// DeadLetters returns the dead-lettered messages, newest first.
func (q *RedisQueue) DeadLetters(ctx context.Context) ([]Message, error) {
	raws, err := q.client.LRange(ctx, q.dead, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	out := make([]Message, 0, len(raws))
	for _, raw := range raws {
		var m Message
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
