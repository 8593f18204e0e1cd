package server

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid server config")
	ErrServe         = errors.New("server failed")
)
