package bucket

import (
	"context"

	"github.com/tailored-agentic-units/bidon/observability"
)

// Bucket event types.
const (
	EventStart  observability.EventType = "bucket.start"
	EventStop   observability.EventType = "bucket.stop"
	EventSave   observability.EventType = "bucket.save"
	EventLoad   observability.EventType = "bucket.load"
	EventReject observability.EventType = "bucket.reject"
)

func (b *Bucket) emit(ctx context.Context, t observability.EventType, level observability.Level, requestID string, data map[string]any) {
	observability.Emit(ctx, b.observer, observability.Event{
		Type:      t,
		Level:     level,
		Source:    "bucket",
		Namespace: b.name,
		RequestID: requestID,
		Data:      data,
	})
}
