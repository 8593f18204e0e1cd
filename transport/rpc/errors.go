package rpc

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/tailored-agentic-units/bidon/messaging"
)

func toConnectError(err error) *connect.Error {
	switch {
	case errors.Is(err, messaging.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, messaging.ErrConflict):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// fromConnectError restores the messaging sentinel for codes that carry
// one, so callers on both sides of the wire can use errors.Is alike.
func fromConnectError(procedure string, err error) error {
	var sentinel error
	switch connect.CodeOf(err) {
	case connect.CodeNotFound:
		sentinel = messaging.ErrNotFound
	case connect.CodeAlreadyExists:
		sentinel = messaging.ErrConflict
	case connect.CodeInternal, connect.CodeInvalidArgument:
		sentinel = messaging.ErrFailure
	default:
		return fmt.Errorf("%s: %w", procedure, err)
	}
	return fmt.Errorf("%s: %w: %w", procedure, sentinel, err)
}
