package depthclust

import "errors"

// Pipeline error taxonomy. Stage errors wrap one of these sentinels so
// callers can test categories with errors.Is while still seeing a
// descriptive message.
var (
	// ErrInvalidInput marks a malformed or semantically invalid depth
	// matrix: wrong rank, ragged rows, non-finite entries, or non-positive
	// values under a scaling policy that forbids them.
	ErrInvalidInput = errors.New("depthclust: invalid input")

	// ErrDegenerateColumn marks a column that a scaling policy cannot
	// apply to, such as a constant column under min-max scaling.
	ErrDegenerateColumn = errors.New("depthclust: degenerate column")

	// ErrInsufficientData marks an input too small for the requested
	// computation after adaptive clamping, such as too few rows for any
	// usable neighborhood size.
	ErrInsufficientData = errors.New("depthclust: insufficient data")
)
