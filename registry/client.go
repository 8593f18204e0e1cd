package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/tailored-agentic-units/bidon/messaging"
)

// Do submits req and waits for its reply. A non-nil error means no reply
// was received: the registry was unreachable or ctx ended first. Operation
// outcomes are reported through the reply's Kind.
func (r *Registry) Do(ctx context.Context, req Request) (messaging.Reply, error) {
	if req.ID == "" {
		req.ID = messaging.NewID()
	}
	req.ReplyTo = messaging.NewReplyTo()

	if err := r.mailbox.Send(ctx, req); err != nil {
		return messaging.Reply{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	select {
	case reply := <-req.ReplyTo:
		return reply, nil
	case <-ctx.Done():
		return messaging.Reply{}, ctx.Err()
	case <-r.done:
		// Every reply the actors will ever write has been written by now.
		select {
		case reply := <-req.ReplyTo:
			return reply, nil
		default:
			return messaging.Reply{}, ErrUnavailable
		}
	}
}

func (r *Registry) call(ctx context.Context, req Request) ([]byte, error) {
	reply, err := r.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := reply.Err(); err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Op, target(req), err)
	}
	return reply.Value, nil
}

// CreateNamespace fails with messaging.ErrConflict if name already exists.
func (r *Registry) CreateNamespace(ctx context.Context, name string) error {
	_, err := r.call(ctx, Request{Op: messaging.OpCreate, Namespace: name})
	return err
}

func (r *Registry) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	return r.call(ctx, Request{Op: messaging.OpGet, Namespace: namespace, Key: key})
}

// Put stores value and returns the value it replaced, or nil.
func (r *Registry) Put(ctx context.Context, namespace, key string, value []byte) ([]byte, error) {
	if value == nil {
		value = []byte{}
	}
	return r.call(ctx, Request{Op: messaging.OpPut, Namespace: namespace, Key: key, Value: value})
}

// Delete removes key and returns the removed value.
func (r *Registry) Delete(ctx context.Context, namespace, key string) ([]byte, error) {
	return r.call(ctx, Request{Op: messaging.OpDelete, Namespace: namespace, Key: key})
}

func (r *Registry) SaveNamespace(ctx context.Context, namespace string) error {
	_, err := r.call(ctx, Request{Op: messaging.OpSave, Namespace: namespace})
	return err
}

func (r *Registry) LoadNamespace(ctx context.Context, namespace string) error {
	_, err := r.call(ctx, Request{Op: messaging.OpLoad, Namespace: namespace})
	return err
}

func target(req Request) string {
	if req.Key == "" {
		return req.Namespace
	}
	return req.Namespace + "/" + req.Key
}

func isNotFound(err error) bool {
	return errors.Is(err, messaging.ErrNotFound)
}
