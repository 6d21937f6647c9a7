package bipartite

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrConflictingDegreeFilters is returned when both degree filters are
	// set. Filtering one side changes the other side's observed degree, so
	// only one filter may be applied per build.
	ErrConflictingDegreeFilters = errors.New("MinSideADegree and MinSideBDegree are mutually exclusive")
	ErrInvalidOptions           = errors.New("invalid build options")
	ErrUnknownSide              = errors.New("unknown side")
	ErrInvariantViolated        = errors.New("graph invariant violated")
)

// ConfigurationError reports options rejected before any graph is built.
type ConfigurationError struct {
	Op    string // Operation that failed (e.g., "build")
	Cause error  // Underlying error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}
