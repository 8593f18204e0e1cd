package registry

import "errors"

var (
	// ErrBootstrap wraps any failure to create or load the default namespace.
	ErrBootstrap = errors.New("registry bootstrap failed")
	// ErrUnavailable reports that a request could not reach the registry or
	// that the registry stopped before replying.
	ErrUnavailable = errors.New("registry unavailable")
	// ErrShutdownTimeout is returned when actors do not stop in time.
	ErrShutdownTimeout = errors.New("registry shutdown timed out")
)
