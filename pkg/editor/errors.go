package editor

import (
	"errors"
)

var (
	// ErrDefinitionMissing indicates a definition id that the catalog cannot resolve.
	ErrDefinitionMissing = errors.New("node definition not found in catalog")

	// ErrNoCatalogDrag indicates a drop without a preceding catalog drag.
	ErrNoCatalogDrag = errors.New("no catalog entry is being dragged")

	// ErrNoPendingConnection indicates an accept while no connection was started.
	ErrNoPendingConnection = errors.New("no pending connection")

	// ErrReadOnlyField indicates an edit of a read-only field.
	ErrReadOnlyField = errors.New("field is read-only")

	// ErrUnknownField indicates a field id the definition does not declare.
	ErrUnknownField = errors.New("unknown field")

	// ErrInvalidOption indicates a select value outside the declared options.
	ErrInvalidOption = errors.New("value is not one of the field options")

	// ErrInvalidGraph indicates a loaded graph that violates the structural invariants.
	ErrInvalidGraph = errors.New("saved graph violates workflow rules")

	// ErrFormClosed indicates use of a form after it was saved, cancelled or replaced.
	ErrFormClosed = errors.New("form is closed")
)

// IsDefinitionMissing checks if an error indicates a dangling definition id.
func IsDefinitionMissing(err error) bool {
	return errors.Is(err, ErrDefinitionMissing)
}

// IsFieldError checks if an error is a rejected field edit.
func IsFieldError(err error) bool {
	return errors.Is(err, ErrReadOnlyField) ||
		errors.Is(err, ErrUnknownField) ||
		errors.Is(err, ErrInvalidOption)
}
