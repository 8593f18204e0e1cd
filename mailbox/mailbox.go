// Package mailbox provides the private FIFO inbound queue of an actor.
//
// A Mailbox is a buffered channel bound to a context. Any number of
// producers may Send; exactly one consumer is expected to Receive. Once the
// mailbox is closed, or its parent context is cancelled, Send fails with
// ErrClosed and Receive stops returning messages.
//
// The consumer shuts down with Close followed by Drain. Close returns only
// after every in-flight Send has either enqueued or failed, so Drain sees
// every message a sender was told was accepted.
package mailbox

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrClosed is returned when sending to or receiving from a closed mailbox.
	ErrClosed = errors.New("mailbox closed")
	// ErrFull is returned by TrySend when the queue has no free slot.
	ErrFull = errors.New("mailbox full")
)

// DefaultSize is the capacity used when New is given a non-positive size.
const DefaultSize = 1024

type Mailbox[T any] struct {
	queue  chan T
	ctx    context.Context
	cancel context.CancelFunc

	// Senders hold the read lock while enqueueing; Close takes the write
	// lock to wait them out before marking the mailbox closed.
	mu     sync.RWMutex
	closed bool
}

func New[T any](ctx context.Context, size int) *Mailbox[T] {
	if size <= 0 {
		size = DefaultSize
	}
	mbCtx, cancel := context.WithCancel(ctx)
	return &Mailbox[T]{
		queue:  make(chan T, size),
		ctx:    mbCtx,
		cancel: cancel,
	}
}

// Send enqueues message, blocking while the mailbox is full.
func (m *Mailbox[T]) Send(ctx context.Context, message T) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed || m.ctx.Err() != nil {
		return ErrClosed
	}
	select {
	case m.queue <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-m.ctx.Done():
		return ErrClosed
	}
}

// TrySend enqueues message only if a slot is free right now.
func (m *Mailbox[T]) TrySend(message T) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed || m.ctx.Err() != nil {
		return ErrClosed
	}
	select {
	case m.queue <- message:
		return nil
	default:
		return ErrFull
	}
}

// Receive blocks until a message is available or the mailbox closes.
func (m *Mailbox[T]) Receive() (T, error) {
	select {
	case message := <-m.queue:
		return message, nil
	case <-m.ctx.Done():
		var zero T
		return zero, ErrClosed
	}
}

// Drain hands every message still queued to fn without blocking. Call it
// after Close to be sure no message arrives afterwards.
func (m *Mailbox[T]) Drain(fn func(T)) int {
	n := 0
	for {
		select {
		case message := <-m.queue:
			fn(message)
			n++
		default:
			return n
		}
	}
}

// Close stops the mailbox and waits for in-flight senders to finish.
// Queued messages remain available to Drain. Close is idempotent.
func (m *Mailbox[T]) Close() {
	m.cancel()

	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
}
