// Package outbox hands exported elapsed times to an outbound channel.
package outbox

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

// ErrFull indicates the queue has no room for another message.
var ErrFull = errors.New("outbox full")

// ElapsedKey is the payload key carrying the elapsed milliseconds.
const ElapsedKey = 1

// Message is a single exported elapsed time.
type Message struct {
	ID        uuid.UUID
	ElapsedMS uint32
	At        time.Time
}

// NewMessage builds a message for elapsed, saturating at the 32-bit limit.
func NewMessage(elapsed time.Duration, at time.Time) Message {
	ms := elapsed.Milliseconds()
	switch {
	case ms < 0:
		ms = 0
	case ms > math.MaxUint32:
		ms = math.MaxUint32
	}
	return Message{
		ID:        uuid.New(),
		ElapsedMS: uint32(ms),
		At:        at,
	}
}

// Payload encodes the message body as a CBOR map keyed by ElapsedKey.
func (message Message) Payload() ([]byte, error) {
	payload, err := cbor.Marshal(map[int]uint32{ElapsedKey: message.ElapsedMS})
	if err != nil {
		return nil, fmt.Errorf("encode outbox payload: %w", err)
	}
	return payload, nil
}

// DecodePayload extracts the elapsed milliseconds from a payload.
func DecodePayload(payload []byte) (uint32, error) {
	var body map[int]uint32
	if err := cbor.Unmarshal(payload, &body); err != nil {
		return 0, fmt.Errorf("decode outbox payload: %w", err)
	}
	value, ok := body[ElapsedKey]
	if !ok {
		return 0, fmt.Errorf("decode outbox payload: missing key %d", ElapsedKey)
	}
	return value, nil
}

// Outbox accepts messages for delivery.
type Outbox interface {
	Send(ctx context.Context, message Message) error
}

// Queue is a bounded in-memory Outbox drained by a consumer.
type Queue struct {
	messages chan Message
}

// NewQueue creates a queue holding up to capacity messages.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	return &Queue{messages: make(chan Message, capacity)}
}

// Send enqueues message without blocking.
func (queue *Queue) Send(ctx context.Context, message Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case queue.messages <- message:
		return nil
	default:
		return ErrFull
	}
}

// Messages returns the channel consumers drain.
func (queue *Queue) Messages() <-chan Message {
	return queue.messages
}

// Len returns the number of queued messages.
func (queue *Queue) Len() int {
	return len(queue.messages)
}

var _ Outbox = (*Queue)(nil)
