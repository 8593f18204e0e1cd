package bucket

import (
	"context"
	"errors"

	"github.com/tailored-agentic-units/bidon/messaging"
	"github.com/tailored-agentic-units/bidon/observability"
	"github.com/tailored-agentic-units/bidon/snapshot"
)

func (b *Bucket) handle(ctx context.Context, req Request) {
	var r messaging.Reply

	switch req.Op {
	case messaging.OpGet:
		r = b.get(req)
	case messaging.OpPut:
		r = b.put(req)
	case messaging.OpDelete:
		r = b.delete(req)
	case messaging.OpSave:
		r = b.save(ctx, req)
	case messaging.OpLoad:
		r = b.load(ctx, req)
	default:
		b.emit(ctx, EventReject, observability.LevelWarning, req.ID, map[string]any{"op": string(req.Op)})
		r = messaging.Failed(messaging.KindFailure)
	}

	messaging.Deliver(req.ReplyTo, r)
}

func (b *Bucket) get(req Request) messaging.Reply {
	v, ok := b.data[req.Key]
	if !ok {
		return messaging.Failed(messaging.KindNotFound)
	}
	return messaging.Success(clone(v))
}

// put replies with the value it replaced, if any.
func (b *Bucket) put(req Request) messaging.Reply {
	if req.Value == nil {
		return messaging.Failed(messaging.KindFailure)
	}
	previous := b.data[req.Key]
	b.data[req.Key] = clone(req.Value)
	return messaging.Success(previous)
}

func (b *Bucket) delete(req Request) messaging.Reply {
	v, ok := b.data[req.Key]
	if !ok {
		return messaging.Failed(messaging.KindNotFound)
	}
	delete(b.data, req.Key)
	return messaging.Success(v)
}

func (b *Bucket) save(ctx context.Context, req Request) messaging.Reply {
	if b.snapshots == nil {
		return messaging.Failed(messaging.KindFailure)
	}

	snap := snapshot.FromMap(b.name, b.data)
	if err := b.snapshots.Save(ctx, snap); err != nil {
		b.emit(ctx, EventSave, observability.LevelError, req.ID, map[string]any{"error": err.Error()})
		return messaging.Failed(messaging.KindFailure)
	}

	b.emit(ctx, EventSave, observability.LevelInfo, req.ID, map[string]any{"keys": snap.Len()})
	return messaging.Success(nil)
}

// load replaces the whole map with the stored snapshot.
func (b *Bucket) load(ctx context.Context, req Request) messaging.Reply {
	if b.snapshots == nil {
		return messaging.Failed(messaging.KindNotFound)
	}

	snap, err := b.snapshots.Load(ctx, b.name)
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			return messaging.Failed(messaging.KindNotFound)
		}
		b.emit(ctx, EventLoad, observability.LevelError, req.ID, map[string]any{"error": err.Error()})
		return messaging.Failed(messaging.KindFailure)
	}

	b.data = snap.Map()
	b.emit(ctx, EventLoad, observability.LevelInfo, req.ID, map[string]any{"keys": snap.Len()})
	return messaging.Success(nil)
}

func clone(v []byte) []byte {
	return append(make([]byte, 0, len(v)), v...)
}
