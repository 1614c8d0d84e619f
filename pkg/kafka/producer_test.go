package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"doctortravel/pkg/logger"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestMessageBuilder(t *testing.T) {
	msg := NewMessage().
		WithKey("user-1").
		WithValue(map[string]string{"package_id": "7"}).
		WithEventType(EventFavoriteAdded).
		WithCorrelationID("").
		Build()

	assert.Equal(t, "user-1", msg.Key)
	assert.NotEmpty(t, msg.GetEventID())
	assert.Equal(t, EventFavoriteAdded, msg.GetEventType())
	assert.Empty(t, msg.GetCorrelationID(), "empty correlation ids are not set")

	var decoded map[string]string
	require.NoError(t, msg.DecodeValue(&decoded))
	assert.Equal(t, "7", decoded["package_id"])
}

func TestProducer_PublishRunsMiddlewareInOrder(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "travel-events")

	var order []string
	for _, name := range []string{"first", "second"} {
		name := name
		p.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
			order = append(order, name)
			return next(ctx, msg)
		})
	}

	msg := NewMessage().WithKey("k").WithValue("v").WithEventType(EventSignedIn).Build()
	require.NoError(t, p.Publish(context.Background(), msg))

	assert.Equal(t, []string{"first", "second"}, order)
	require.Len(t, w.messages, 1)
	assert.Equal(t, "k", string(w.messages[0].Key))
	assert.Equal(t, EventSignedIn, header(w.messages[0], HeaderEventType))
}

func TestProducer_RejectsInvalidMessages(t *testing.T) {
	p := newProducer(&fakeWriter{}, "travel-events")
	ctx := context.Background()

	assert.ErrorIs(t, p.Publish(ctx, NewMessage().WithValue("v").Build()), ErrEmptyKey)
	assert.ErrorIs(t, p.Publish(ctx, NewMessage().WithKey("k").Build()), ErrEmptyValue)
	assert.ErrorIs(t, p.Publish(ctx, NewMessage().WithKey("k").WithValue(make(chan int)).Build()), ErrEncodeValue)
}

func TestProducer_Closed(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "travel-events")

	require.NoError(t, p.Close())
	require.NoError(t, p.Close(), "close is idempotent")
	assert.True(t, w.closed)

	err := p.Publish(context.Background(), NewMessage().WithKey("k").WithValue("v").Build())
	assert.ErrorIs(t, err, ErrProducerClosed)
}

func TestEmitter_SwallowsPublishErrors(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	e := NewEmitter(newProducer(w, "travel-events"), "bff", time.Second, logger.Discard())

	assert.NotPanics(t, func() {
		e.Emit(context.Background(), EventBookingSubmitted, "user-1", map[string]any{"package_id": "3"})
	})
}

func TestEmitter_PublishesAfterRequestCancelled(t *testing.T) {
	w := &fakeWriter{}
	e := NewEmitter(newProducer(w, "travel-events"), "bff", time.Second, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e.Emit(ctx, EventSignedOut, "user-1", map[string]string{"user_id": "user-1"})

	require.Len(t, w.messages, 1)
	assert.Equal(t, "bff", header(w.messages[0], HeaderSource))
	assert.Equal(t, SchemaVersion, header(w.messages[0], HeaderSchemaVersion))
}

func TestNilEmitter(t *testing.T) {
	var e *Emitter
	assert.NotPanics(t, func() { e.Emit(context.Background(), EventSignedIn, "k", nil) })
}
