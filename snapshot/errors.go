package snapshot

import "errors"

// Sentinel errors for store operations.
var (
	ErrNotFound        = errors.New("snapshot not found")
	ErrLoadFailed      = errors.New("load failed")
	ErrSaveFailed      = errors.New("save failed")
	ErrCorrupt         = errors.New("corrupt snapshot")
	ErrInvalidName     = errors.New("invalid namespace name")
	ErrUnknownDriver   = errors.New("unknown snapshot driver")
	ErrPathNotProvided = errors.New("snapshot path not provided")
)
