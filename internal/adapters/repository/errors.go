package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrGroupNotFound = errors.New("group not found")
	ErrShareNotFound = errors.New("share not found")
)
