package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"example.com/activityregistry/internal/events"
)

const flushTimeout = 5 * time.Second

type messageWriter interface {
	WriteMessages(context.Context, string, ...kafka.Message) error
}

// Dispatcher drains the Buffer and delivers events to a single Kafka topic.
type Dispatcher struct {
	buffer           *Buffer
	producer         messageWriter
	topic            string
	pollInterval     time.Duration
	batchSize        int
	logger           *zap.Logger
	shutdownComplete chan struct{}

	// pending holds an encoded batch whose write was interrupted by
	// cancellation. Only the Start goroutine touches it.
	pending []kafka.Message
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(buffer *Buffer, producer messageWriter, topic string, pollInterval time.Duration, batchSize int, logger *zap.Logger) *Dispatcher {
	if batchSize <= 0 {
		batchSize = 1
	}
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		buffer:           buffer,
		producer:         producer,
		topic:            topic,
		pollInterval:     pollInterval,
		batchSize:        batchSize,
		logger:           logger,
		shutdownComplete: make(chan struct{}),
	}
}

// Start launches the polling loop. It should be called in a goroutine. When
// ctx is cancelled the remaining buffered events are flushed before returning.
func (d *Dispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(d.pollInterval)
	defer func() {
		ticker.Stop()
		close(d.shutdownComplete)
	}()

	for {
		d.drain(ctx)

		select {
		case <-ctx.Done():
			d.flush()
			return
		case <-ticker.C:
		}
	}
}

// Wait waits until dispatcher stops.
func (d *Dispatcher) Wait() {
	<-d.shutdownComplete
}

func (d *Dispatcher) drain(ctx context.Context) {
	for len(d.pending) > 0 || d.buffer.Len() > 0 {
		if err := d.processBatch(ctx); err != nil {
			if !errors.Is(err, context.Canceled) {
				d.logger.Error("outbox delivery failed", zap.String("topic", d.topic), zap.Error(err))
			}
			return
		}
	}
}

func (d *Dispatcher) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	d.drain(ctx)
}

func (d *Dispatcher) processBatch(ctx context.Context) error {
	messages := d.pending
	d.pending = nil
	if len(messages) == 0 {
		batch := d.buffer.take(d.batchSize)
		if len(batch) == 0 {
			return nil
		}
		encoded, err := encode(batch)
		if err != nil {
			failedCounter.Add(float64(len(batch)))
			return err
		}
		messages = encoded
	}

	start := time.Now()
	defer func() { batchDuration.Observe(time.Since(start).Seconds()) }()

	if err := d.producer.WriteMessages(ctx, d.topic, messages...); err != nil {
		if ctx.Err() != nil {
			// Retried by flush under its own deadline.
			d.pending = messages
			return err
		}
		failedCounter.Add(float64(len(messages)))
		return err
	}

	deliveredCounter.Add(float64(len(messages)))
	return nil
}

func encode(batch []events.Envelope) ([]kafka.Message, error) {
	messages := make([]kafka.Message, 0, len(batch))
	for _, event := range batch {
		body, err := json.Marshal(event.Payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", event.Type, err)
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(event.Key),
			Value: body,
			Time:  time.Now().UTC(),
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(event.Type)},
			},
		})
	}
	return messages, nil
}
