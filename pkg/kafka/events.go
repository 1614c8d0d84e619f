package kafka

import (
	"context"
	"time"

	"doctortravel/pkg/logger"
	"doctortravel/pkg/middleware"
)

const (
	EventSignedIn         = "auth.signed_in"
	EventSignedOut        = "auth.signed_out"
	EventCodeIssued       = "auth.code_issued"
	EventFavoriteAdded    = "favorite.added"
	EventFavoriteRemoved  = "favorite.removed"
	EventBookingSubmitted = "booking.submitted"

	SchemaVersion = "1"
)

// Emitter publishes domain events on a best-effort basis: failures are logged
// and never reach the caller. A nil Emitter is valid and drops everything.
type Emitter struct {
	publisher Publisher
	source    string
	timeout   time.Duration
	log       *logger.Logger
}

func NewEmitter(publisher Publisher, source string, timeout time.Duration, log *logger.Logger) *Emitter {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Emitter{
		publisher: publisher,
		source:    source,
		timeout:   timeout,
		log:       log,
	}
}

// Emit sends the event detached from ctx's cancellation so that a finished
// HTTP request does not abort the write.
func (e *Emitter) Emit(ctx context.Context, eventType, key string, payload any) {
	if e == nil {
		return
	}

	msg := NewMessage().
		WithKey(key).
		WithValue(payload).
		WithEventType(eventType).
		WithSchemaVersion(SchemaVersion).
		WithSource(e.source).
		WithCorrelationID(middleware.RequestIDFromContext(ctx)).
		Build()

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	defer cancel()

	if err := e.publisher.Publish(pubCtx, msg); err != nil {
		e.log.Warn("Failed to publish event",
			"event_type", eventType,
			"event_id", msg.GetEventID(),
			"key", key,
			"error", err,
		)
	}
}
