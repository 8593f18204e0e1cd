package registry

import (
	"errors"

	"github.com/tailored-agentic-units/bidon/bucket"
	"github.com/tailored-agentic-units/bidon/mailbox"
	"github.com/tailored-agentic-units/bidon/messaging"
	"github.com/tailored-agentic-units/bidon/observability"
)

func (r *Registry) handle(req Request) {
	switch req.Op {
	case messaging.OpCreate:
		r.createNamespace(req)
	case messaging.OpGet, messaging.OpPut, messaging.OpDelete:
		r.route(req)
	case messaging.OpSave:
		if r.snapshots == nil {
			r.reject(req, messaging.KindFailure)
			return
		}
		r.route(req)
	case messaging.OpLoad:
		if r.snapshots == nil {
			r.reject(req, messaging.KindNotFound)
			return
		}
		r.route(req)
	default:
		r.reject(req, messaging.KindFailure)
	}
}

// createNamespace relies on the loop processing one request at a time: the
// existence check and the insert cannot interleave with another create.
func (r *Registry) createNamespace(req Request) {
	if req.Namespace == "" {
		r.reject(req, messaging.KindFailure)
		return
	}
	if _, exists := r.buckets[req.Namespace]; exists {
		r.metrics.RecordConflict(1)
		r.emit(r.ctx, EventNamespaceExists, observability.LevelVerbose, &req, nil)
		messaging.Deliver(req.ReplyTo, messaging.Failed(messaging.KindConflict))
		return
	}

	opts := []bucket.Option{
		bucket.WithObserver(r.observer),
		bucket.WithMailboxSize(r.bucketMailboxSize),
	}
	if r.snapshots != nil {
		opts = append(opts, bucket.WithStore(r.snapshots))
	}

	r.buckets[req.Namespace] = bucket.Start(r.ctx, req.Namespace, opts...)
	r.metrics.RecordNamespace(1)
	r.emit(r.ctx, EventNamespaceCreate, observability.LevelInfo, &req, map[string]any{
		"namespaces": len(r.buckets),
	})

	messaging.Deliver(req.ReplyTo, messaging.Success(nil))
}

// route hands req to the namespace's bucket without waiting. From then on
// the bucket owns the reply destination; the registry only replies when
// routing fails. A bucket with a full mailbox gets KindFailure rather than
// stalling the loop that serves every other namespace.
func (r *Registry) route(req Request) {
	b, exists := r.buckets[req.Namespace]
	if !exists {
		r.emit(r.ctx, EventNamespaceMiss, observability.LevelVerbose, &req, map[string]any{"op": string(req.Op)})
		r.reject(req, messaging.KindNotFound)
		return
	}

	err := b.TrySend(bucket.Request{
		ID:      req.ID,
		Op:      req.Op,
		Key:     req.Key,
		Value:   req.Value,
		ReplyTo: req.ReplyTo,
	})
	if err != nil {
		event := EventForwardFailed
		if errors.Is(err, mailbox.ErrFull) {
			event = EventBucketBusy
		}
		r.emit(r.ctx, event, observability.LevelWarning, &req, map[string]any{"error": err.Error()})
		r.reject(req, messaging.KindFailure)
		return
	}
	r.metrics.RecordForwarded(1)
}

func (r *Registry) reject(req Request, kind messaging.Kind) {
	r.metrics.RecordRejected(1)
	messaging.Deliver(req.ReplyTo, messaging.Failed(kind))
}
