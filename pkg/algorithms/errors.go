package algorithms

import (
	"errors"
	"fmt"
	"strings"
)

// Common sentinel errors
var (
	ErrIncompletePartition = errors.New("partition does not cover every node")
	ErrInvalidResolution   = errors.New("resolution must be a positive finite number")
)

// PartitionError reports nodes of a graph that a partition does not assign
// to any community.
type PartitionError struct {
	Op      string   // Operation that rejected the partition
	Missing []string // Node IDs absent from the partition, sorted
}

// Error implements the error interface.
func (e *PartitionError) Error() string {
	const maxShown = 5
	shown := e.Missing
	suffix := ""
	if len(shown) > maxShown {
		shown = shown[:maxShown]
		suffix = fmt.Sprintf(" and %d more", len(e.Missing)-maxShown)
	}
	return fmt.Sprintf("%s: %v: missing %s%s", e.Op, ErrIncompletePartition, strings.Join(shown, ", "), suffix)
}

// Unwrap returns the underlying sentinel for error chain support.
func (e *PartitionError) Unwrap() error {
	return ErrIncompletePartition
}
