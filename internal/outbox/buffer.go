// Package outbox queues participant events in memory and delivers them to Kafka.
package outbox

import (
	"context"
	"errors"

	"example.com/activityregistry/internal/events"
)

// ErrBufferFull is returned by Publish when the outbox cannot accept more events.
var ErrBufferFull = errors.New("outbox buffer full")

// Buffer is a bounded queue between request handlers and the Dispatcher.
// Publish never blocks.
type Buffer struct {
	queue chan events.Envelope
}

// NewBuffer creates a Buffer holding at most size events.
func NewBuffer(size int) *Buffer {
	if size <= 0 {
		size = 1
	}
	return &Buffer{queue: make(chan events.Envelope, size)}
}

// Publish implements domain.EventPublisher.
func (b *Buffer) Publish(ctx context.Context, event events.Envelope) error {
	select {
	case b.queue <- event:
		return nil
	default:
		droppedCounter.Inc()
		return ErrBufferFull
	}
}

// Len reports the number of queued events.
func (b *Buffer) Len() int {
	return len(b.queue)
}

// take removes up to max queued events without waiting.
func (b *Buffer) take(max int) []events.Envelope {
	out := make([]events.Envelope, 0, min(max, len(b.queue)))
	for len(out) < max {
		select {
		case event := <-b.queue:
			out = append(out, event)
		default:
			return out
		}
	}
	return out
}

// Discard drops every event. It is used when no broker is configured.
type Discard struct{}

// Publish implements domain.EventPublisher.
func (Discard) Publish(context.Context, events.Envelope) error {
	return nil
}
