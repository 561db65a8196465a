package analyzer

import (
	"errors"
	"fmt"
)

// ErrDefinition indicates a route definition file that could not be used.
var ErrDefinition = errors.New("invalid route definition")

// DefinitionError reports a malformed route definition. The file (or the
// single route, when Route is set) is skipped; other files still load.
type DefinitionError struct {
	// Path of the definition file
	Path string
	// Route is the method and URI of the offending route, if known
	Route string
	// Cause is the underlying error
	Cause error
}

// Error returns a human-readable error message.
func (e *DefinitionError) Error() string {
	msg := fmt.Sprintf("%s: %s", ErrDefinition, e.Path)
	if e.Route != "" {
		msg += " (" + e.Route + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *DefinitionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *DefinitionError) Is(target error) bool {
	return target == ErrDefinition
}
