package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateDefinition indicates two definitions share the same id.
	ErrDuplicateDefinition = errors.New("duplicate node definition")

	// ErrDuplicateField indicates a definition declares the same field id twice.
	ErrDuplicateField = errors.New("duplicate field")

	// ErrInvalidSelect indicates a select field without options or with a default outside them.
	ErrInvalidSelect = errors.New("invalid select field")
)

// DefinitionError wraps a validation failure of a single definition.
type DefinitionError struct {
	DefinitionID string
	FieldID      string
	Err          error
}

func (e *DefinitionError) Error() string {
	if e.FieldID != "" {
		return fmt.Sprintf("definition %s, field %s: %v", e.DefinitionID, e.FieldID, e.Err)
	}

	return fmt.Sprintf("definition %s: %v", e.DefinitionID, e.Err)
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}
