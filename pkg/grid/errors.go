package grid

import (
	"errors"
	"fmt"
)

// Grid errors.
var (
	ErrInvalidOperation   = errors.New("invalid operation for node kind")
	ErrSlotOccupied       = errors.New("outlet already occupied")
	ErrNotFound           = errors.New("child not found")
	ErrStructural         = errors.New("structural error")
	ErrCycleDetected      = errors.New("cycle detected")
	ErrAlreadyInitialized = errors.New("outlets already initialized")
	ErrInvalidOutletCount = errors.New("outlet count must be positive")
	ErrAlreadyAttached    = errors.New("already attached")
	ErrNoFreeOutlet       = errors.New("no free outlet")
	ErrNilNode            = errors.New("nil node")
)

// OpError records the operation and node that produced an error.
// It unwraps to the underlying sentinel so errors.Is keeps working.
type OpError struct {
	Op     string
	NodeID string
	Err    error
}

// Error implements the error interface.
func (e *OpError) Error() string {
	if e.NodeID == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, shortID(e.NodeID), e.Err)
}

// Unwrap returns the underlying error.
func (e *OpError) Unwrap() error {
	return e.Err
}

func opError(op, nodeID string, err error) error {
	return &OpError{Op: op, NodeID: nodeID, Err: err}
}

// shortID returns the first 8 characters of a node ID.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
