package persistence

import (
	"errors"
	"fmt"
)

var (
	// ErrCorruptState indicates the stored graph blob is malformed or fails the structural checks.
	ErrCorruptState = errors.New("corrupt saved state")
)

// StateError wraps a failure reading or writing the stored graph.
type StateError struct {
	Op  string // Operation being performed (e.g., "Load", "Save")
	Key string // Medium key
	Err error  // Underlying error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s operation failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *StateError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for state errors.
func (e *StateError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsCorruptState checks if an error indicates a malformed stored graph.
func IsCorruptState(err error) bool {
	return errors.Is(err, ErrCorruptState)
}
