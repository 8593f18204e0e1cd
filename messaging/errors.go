package messaging

import "errors"

// Sentinel errors corresponding to reply kinds.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
	ErrFailure  = errors.New("operation failed")
)
