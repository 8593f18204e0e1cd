// Package bucket implements the actor that exclusively owns one namespace's
// key/value map.
//
// A Bucket drains its mailbox on a single goroutine, handling one request at
// a time in arrival order. No other goroutine touches the map, so the actor
// needs no locks:
//
//	b := bucket.Start(ctx, "users")
//	reply := messaging.NewReplyTo()
//	b.Send(ctx, bucket.Request{Op: messaging.OpPut, Key: "k", Value: v, ReplyTo: reply})
//	r := <-reply // r.Value holds the previous value, if any
//
// Every request receives exactly one reply, including requests still queued
// when the bucket stops; those are answered with KindFailure.
package bucket

import (
	"context"
	"fmt"

	"github.com/tailored-agentic-units/bidon/mailbox"
	"github.com/tailored-agentic-units/bidon/messaging"
	"github.com/tailored-agentic-units/bidon/observability"
	"github.com/tailored-agentic-units/bidon/snapshot"
)

// Request is a per-key operation addressed to a single bucket. A nil Value
// means no value was supplied; an empty slice is a valid empty value.
type Request struct {
	ID      string
	Op      messaging.Op
	Key     string
	Value   []byte
	ReplyTo messaging.ReplyTo
}

// Option configures a Bucket before its loop starts.
type Option func(*Bucket)

// WithStore enables OpSave and OpLoad against store.
func WithStore(store snapshot.Store) Option {
	return func(b *Bucket) { b.snapshots = store }
}

// WithObserver overrides the default no-op observer.
func WithObserver(obs observability.Observer) Option {
	return func(b *Bucket) { b.observer = obs }
}

// WithMailboxSize sets the mailbox capacity.
func WithMailboxSize(size int) Option {
	return func(b *Bucket) { b.mailboxSize = size }
}

type Bucket struct {
	name        string
	data        map[string][]byte
	mailbox     *mailbox.Mailbox[Request]
	mailboxSize int
	snapshots   snapshot.Store
	observer    observability.Observer
	done        chan struct{}
}

// Start launches a bucket with an empty map. The bucket stops when ctx is
// cancelled or Stop is called.
func Start(ctx context.Context, name string, opts ...Option) *Bucket {
	b := &Bucket{
		name:     name,
		data:     make(map[string][]byte),
		observer: observability.NoOpObserver{},
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.mailbox = mailbox.New[Request](ctx, b.mailboxSize)

	go b.run(ctx)
	return b
}

func (b *Bucket) Name() string {
	return b.name
}

// Send enqueues req, waiting while the mailbox is full. It fails only if
// the bucket has stopped or ctx ends first; the reply destination is then
// left untouched.
func (b *Bucket) Send(ctx context.Context, req Request) error {
	if err := b.mailbox.Send(ctx, req); err != nil {
		return fmt.Errorf("bucket %s: %w", b.name, err)
	}
	return nil
}

// TrySend enqueues req without waiting. A full mailbox fails with
// mailbox.ErrFull.
func (b *Bucket) TrySend(req Request) error {
	if err := b.mailbox.TrySend(req); err != nil {
		return fmt.Errorf("bucket %s: %w", b.name, err)
	}
	return nil
}

// Stop closes the mailbox and waits for the loop to exit.
func (b *Bucket) Stop() {
	b.mailbox.Close()
	<-b.done
}

// Done is closed after the loop has exited and drained its mailbox.
func (b *Bucket) Done() <-chan struct{} {
	return b.done
}

func (b *Bucket) run(ctx context.Context) {
	defer close(b.done)

	b.emit(ctx, EventStart, observability.LevelVerbose, "", nil)

	for {
		req, err := b.mailbox.Receive()
		if err != nil {
			break
		}
		b.handle(ctx, req)
	}

	b.mailbox.Close()
	drained := b.mailbox.Drain(func(req Request) {
		messaging.Deliver(req.ReplyTo, messaging.Failed(messaging.KindFailure))
	})
	b.emit(context.WithoutCancel(ctx), EventStop, observability.LevelVerbose, "", map[string]any{
		"keys":    len(b.data),
		"drained": drained,
	})
}
