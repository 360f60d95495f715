// internal/types/errors.go
package types

import "errors"

// Error conditions reported by the assistant panel and the flight sequencer.
// Components wrap them with context; callers match with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidState    = errors.New("invalid state")
	ErrNotReady        = errors.New("not ready")
	ErrBusy            = errors.New("busy")
	ErrQueueFull       = errors.New("queue full")
)
