package window

import "errors"

// Sentinel error kinds for this package.
var (
	ErrInvalidWindow = errors.New("invalid analysis window")
)
