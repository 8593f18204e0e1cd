package registry

import (
	"context"

	"github.com/tailored-agentic-units/bidon/observability"
)

// Registry event types.
const (
	EventStart           observability.EventType = "registry.start"
	EventStop            observability.EventType = "registry.stop"
	EventNamespaceCreate observability.EventType = "namespace.create"
	EventNamespaceExists observability.EventType = "namespace.conflict"
	EventNamespaceMiss   observability.EventType = "namespace.miss"
	EventForwardFailed   observability.EventType = "registry.forward.failed"
	EventBucketBusy      observability.EventType = "registry.bucket.busy"
	EventBootstrap       observability.EventType = "registry.bootstrap"
)

func (r *Registry) emit(ctx context.Context, t observability.EventType, level observability.Level, req *Request, data map[string]any) {
	event := observability.Event{
		Type:   t,
		Level:  level,
		Source: r.name,
		Data:   data,
	}
	if req != nil {
		event.Namespace = req.Namespace
		event.RequestID = req.ID
	}
	observability.Emit(ctx, r.observer, event)
}
