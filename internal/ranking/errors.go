package ranking

import "errors"

// ErrInvalidInput is returned when a ranking call is rejected before any scoring.
var ErrInvalidInput = errors.New("invalid input")
