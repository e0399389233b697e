package metrics

import "errors"

// Sentinel error kinds for this package.
var (
	ErrRegister = errors.New("metric registration failed")
	ErrGather   = errors.New("metric gathering failed")
)
