package metrics

import "errors"

var (
	// ErrInvalidTimeframe indicates a timeframe other than day, week, or month.
	ErrInvalidTimeframe = errors.New("invalid timeframe")
	// ErrInvalidActor indicates a missing actor id.
	ErrInvalidActor = errors.New("invalid actor")
)
