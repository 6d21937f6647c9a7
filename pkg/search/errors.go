package search

import (
	"errors"
	"fmt"
)

// ErrInvalidOptions is returned by Search before any graph is built
var ErrInvalidOptions = errors.New("invalid search options")

// PointError reports the grid point whose evaluation aborted the search.
// For a failed build or projection Point names the first resolution of
// the threshold.
type PointError struct {
	Point Point
	Stage string // "build", "project", "partition" or "modularity"
	Cause error
}

// Error implements the error interface.
func (e *PointError) Error() string {
	return fmt.Sprintf("grid point (threshold %d, resolution %v) failed at %s: %v",
		e.Point.Threshold, e.Point.Resolution, e.Stage, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *PointError) Unwrap() error {
	return e.Cause
}
