package queue

import "errors"

var (
	// ErrClosed is returned by consumers that need an error value when the
	// queue has shut down.
	ErrClosed = errors.New("queue closed")
)
