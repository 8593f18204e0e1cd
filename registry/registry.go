// Package registry implements the supervising actor that owns the namespace
// table and routes per-key operations to bucket actors.
//
// The registry processes its own mailbox one request at a time. Namespace
// creation and lookup therefore never race, yet the registry never performs
// a data operation itself: once a namespace resolves, the request is handed
// to that namespace's bucket, which replies straight to the caller.
//
//	reg, err := registry.Start(ctx, registry.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err) // the default namespace could not be created
//	}
//	prev, err := reg.Put(ctx, "default", "foo", []byte("bar"))
//
// # Persistence
//
// Without a snapshot store SaveNamespace always fails and LoadNamespace
// always reports not found. WithStore enables both; each runs on the target
// bucket's loop, serialized with that namespace's other operations. Start
// then also recreates and loads every namespace the store holds.
package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/tailored-agentic-units/bidon/bucket"
	"github.com/tailored-agentic-units/bidon/mailbox"
	"github.com/tailored-agentic-units/bidon/messaging"
	"github.com/tailored-agentic-units/bidon/observability"
	"github.com/tailored-agentic-units/bidon/snapshot"
)

// Request is a registry-level operation. Key and Value are ignored by
// namespace operations; a nil Value on OpPut is a malformed request.
type Request struct {
	ID        string
	Op        messaging.Op
	Namespace string
	Key       string
	Value     []byte
	ReplyTo   messaging.ReplyTo
}

// Option configures a Registry before its loop starts.
type Option func(*Registry)

// WithStore enables SaveNamespace and LoadNamespace.
func WithStore(store snapshot.Store) Option {
	return func(r *Registry) { r.snapshots = store }
}

// WithObserver overrides the default no-op observer. Buckets share it.
func WithObserver(obs observability.Observer) Option {
	return func(r *Registry) { r.observer = obs }
}

type Registry struct {
	name              string
	mailbox           *mailbox.Mailbox[Request]
	bucketMailboxSize int
	bootstrapTimeout  time.Duration

	// Owned by the run loop; never touched from another goroutine.
	buckets map[string]*bucket.Bucket

	snapshots snapshot.Store
	observer  observability.Observer
	metrics   *Metrics

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// New starts a registry loop with an empty namespace table. Most callers
// want Start, which also bootstraps the default namespace.
func New(ctx context.Context, cfg Config, opts ...Option) *Registry {
	defaults := DefaultConfig()
	defaults.Merge(&cfg)

	regCtx, cancel := context.WithCancel(ctx)

	r := &Registry{
		name:              defaults.Name,
		bucketMailboxSize: defaults.BucketMailboxSize,
		bootstrapTimeout:  defaults.BootstrapTimeout,
		buckets:           make(map[string]*bucket.Bucket),
		observer:          observability.NoOpObserver{},
		metrics:           NewMetrics(),
		ctx:               regCtx,
		cancel:            cancel,
		done:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.mailbox = mailbox.New[Request](regCtx, defaults.MailboxSize)

	go r.run()

	return r
}

// Start creates a registry and bootstraps it. Any bootstrap failure stops
// the registry and returns an error wrapping ErrBootstrap.
func Start(ctx context.Context, cfg Config, opts ...Option) (*Registry, error) {
	r := New(ctx, cfg, opts...)
	if err := r.bootstrap(ctx); err != nil {
		r.Shutdown(r.bootstrapTimeout)
		return nil, err
	}
	return r, nil
}

func (r *Registry) Metrics() MetricsSnapshot {
	return r.metrics.Snapshot()
}

// Shutdown stops the registry and every bucket it owns. Requests still
// queued are answered with KindFailure.
func (r *Registry) Shutdown(timeout time.Duration) error {
	r.cancel()

	select {
	case <-r.done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("%w after %v", ErrShutdownTimeout, timeout)
	}
}

// Done is closed once the registry and all buckets have stopped.
func (r *Registry) Done() <-chan struct{} {
	return r.done
}

func (r *Registry) run() {
	defer close(r.done)

	r.emit(r.ctx, EventStart, observability.LevelVerbose, nil, nil)

	for {
		req, err := r.mailbox.Receive()
		if err != nil {
			break
		}
		r.handle(req)
	}

	r.mailbox.Close()
	drained := r.mailbox.Drain(func(req Request) {
		messaging.Deliver(req.ReplyTo, messaging.Failed(messaging.KindFailure))
	})
	// Buckets run on r.ctx and are already stopping; Stop waits until each
	// has answered its queued requests so done closes after the last reply.
	for _, b := range r.buckets {
		b.Stop()
	}

	r.emit(context.WithoutCancel(r.ctx), EventStop, observability.LevelVerbose, nil, map[string]any{
		"namespaces": len(r.buckets),
		"drained":    drained,
	})
}

// bootstrap creates the default namespace, then restores every namespace
// the snapshot store holds. A missing default snapshot is not an error.
func (r *Registry) bootstrap(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.bootstrapTimeout)
	defer cancel()

	if err := r.CreateNamespace(ctx, DefaultNamespace); err != nil {
		return fmt.Errorf("%w: create %q: %v", ErrBootstrap, DefaultNamespace, err)
	}

	names := []string{DefaultNamespace}
	if r.snapshots != nil {
		stored, err := r.snapshots.List(ctx)
		if err != nil {
			return fmt.Errorf("%w: list snapshots: %v", ErrBootstrap, err)
		}
		for _, name := range stored {
			if name == DefaultNamespace {
				continue
			}
			if err := r.CreateNamespace(ctx, name); err != nil {
				return fmt.Errorf("%w: create %q: %v", ErrBootstrap, name, err)
			}
			names = append(names, name)
		}
	}

	restored := 0
	for _, name := range names {
		err := r.LoadNamespace(ctx, name)
		switch {
		case err == nil:
			restored++
		case isNotFound(err) && name == DefaultNamespace:
		default:
			return fmt.Errorf("%w: load %q: %v", ErrBootstrap, name, err)
		}
	}

	r.emit(ctx, EventBootstrap, observability.LevelInfo, &Request{Namespace: DefaultNamespace}, map[string]any{
		"namespaces": len(names),
		"restored":   restored,
	})
	return nil
}
