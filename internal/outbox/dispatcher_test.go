package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"example.com/activityregistry/internal/events"
)

type fakeWriter struct {
	mu       sync.Mutex
	topics   []string
	messages []kafka.Message
	err      error
}

func (w *fakeWriter) WriteMessages(ctx context.Context, topic string, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.topics = append(w.topics, topic)
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) snapshot() []kafka.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]kafka.Message(nil), w.messages...)
}

func histogramSampleCount(t *testing.T) uint64 {
	t.Helper()

	metric := &dto.Metric{}
	require.NoError(t, batchDuration.Write(metric))
	hist := metric.GetHistogram()
	require.NotNil(t, hist)
	return hist.GetSampleCount()
}

func TestDispatcherDeliversInBatches(t *testing.T) {
	at := time.Date(2025, time.September, 1, 9, 0, 0, 0, time.UTC)
	buffer := NewBuffer(10)
	writer := &fakeWriter{}
	dispatcher := NewDispatcher(buffer, writer, "activity_participants", time.Hour, 2, zaptest.NewLogger(t))

	ctx := context.Background()
	require.NoError(t, buffer.Publish(ctx, events.SignedUp("Chess Club", "a@mergington.edu", at)))
	require.NoError(t, buffer.Publish(ctx, events.SignedUp("Chess Club", "b@mergington.edu", at)))
	require.NoError(t, buffer.Publish(ctx, events.Unregistered("Art Club", "mia@mergington.edu", at)))

	beforeDelivered := testutil.ToFloat64(deliveredCounter)
	beforeBatches := histogramSampleCount(t)

	dispatcher.drain(ctx)

	messages := writer.snapshot()
	require.Len(t, messages, 3)
	assert.Equal(t, []string{"activity_participants", "activity_participants"}, writer.topics)
	assert.Equal(t, 0, buffer.Len())
	assert.Equal(t, beforeDelivered+3, testutil.ToFloat64(deliveredCounter))
	assert.Equal(t, beforeBatches+2, histogramSampleCount(t))

	last := messages[2]
	assert.Equal(t, "Art Club", string(last.Key))
	require.Len(t, last.Headers, 1)
	assert.Equal(t, "event_type", last.Headers[0].Key)
	assert.Equal(t, events.TypeParticipantUnregistered, string(last.Headers[0].Value))

	var payload events.ParticipantUnregistered
	require.NoError(t, json.Unmarshal(last.Value, &payload))
	assert.Equal(t, "mia@mergington.edu", payload.Email)
	assert.Equal(t, "Art Club", payload.Activity)
	assert.True(t, payload.OccurredAt.Equal(at))
}

func TestDispatcherCountsFailures(t *testing.T) {
	buffer := NewBuffer(10)
	writer := &fakeWriter{err: errors.New("broker unavailable")}
	dispatcher := NewDispatcher(buffer, writer, "activity_participants", time.Hour, 10, zaptest.NewLogger(t))

	ctx := context.Background()
	require.NoError(t, buffer.Publish(ctx, events.SignedUp("Chess Club", "a@mergington.edu", time.Now())))
	beforeFailed := testutil.ToFloat64(failedCounter)

	dispatcher.drain(ctx)

	assert.Equal(t, beforeFailed+1, testutil.ToFloat64(failedCounter))
	assert.Equal(t, 0, buffer.Len())
}

func TestDispatcherFlushesOnShutdown(t *testing.T) {
	buffer := NewBuffer(10)
	writer := &fakeWriter{}
	dispatcher := NewDispatcher(buffer, writer, "activity_participants", time.Hour, 10, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		dispatcher.Start(ctx)
		close(done)
	}()

	require.NoError(t, buffer.Publish(ctx, events.SignedUp("Gym Class", "late@mergington.edu", time.Now())))
	cancel()
	dispatcher.Wait()
	<-done

	assert.Len(t, writer.snapshot(), 1)
}

// stallingWriter blocks its first write until the caller's context ends, then
// records every later write.
type stallingWriter struct {
	fakeWriter
	started chan struct{}
	once    sync.Once
	calls   int
}

func (w *stallingWriter) WriteMessages(ctx context.Context, topic string, msgs ...kafka.Message) error {
	w.mu.Lock()
	w.calls++
	first := w.calls == 1
	w.mu.Unlock()

	if first {
		w.once.Do(func() { close(w.started) })
		<-ctx.Done()
		return ctx.Err()
	}
	return w.fakeWriter.WriteMessages(ctx, topic, msgs...)
}

func TestDispatcherRetriesInFlightBatchOnShutdown(t *testing.T) {
	buffer := NewBuffer(10)
	writer := &stallingWriter{started: make(chan struct{})}
	dispatcher := NewDispatcher(buffer, writer, "activity_participants", time.Hour, 10, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, buffer.Publish(ctx, events.SignedUp("Gym Class", "inflight@mergington.edu", time.Now())))
	beforeFailed := testutil.ToFloat64(failedCounter)
	beforeDelivered := testutil.ToFloat64(deliveredCounter)

	go dispatcher.Start(ctx)

	select {
	case <-writer.started:
	case <-time.After(5 * time.Second):
		t.Fatal("dispatcher never attempted delivery")
	}
	cancel()
	dispatcher.Wait()

	messages := writer.snapshot()
	require.Len(t, messages, 1)
	assert.Equal(t, "Gym Class", string(messages[0].Key))
	assert.Equal(t, 2, writer.calls)
	assert.Equal(t, beforeFailed, testutil.ToFloat64(failedCounter))
	assert.Equal(t, beforeDelivered+1, testutil.ToFloat64(deliveredCounter))
	assert.Equal(t, 0, buffer.Len())
}

func TestBufferRejectsWhenFull(t *testing.T) {
	buffer := NewBuffer(1)
	ctx := context.Background()
	beforeDropped := testutil.ToFloat64(droppedCounter)

	require.NoError(t, buffer.Publish(ctx, events.SignedUp("Chess Club", "a@mergington.edu", time.Now())))
	err := buffer.Publish(ctx, events.SignedUp("Chess Club", "b@mergington.edu", time.Now()))

	assert.ErrorIs(t, err, ErrBufferFull)
	assert.Equal(t, 1, buffer.Len())
	assert.Equal(t, beforeDropped+1, testutil.ToFloat64(droppedCounter))
}

func TestDiscardAcceptsEverything(t *testing.T) {
	assert.NoError(t, Discard{}.Publish(context.Background(), events.SignedUp("Chess Club", "a@mergington.edu", time.Now())))
}
