package rules

import (
	"errors"
	"fmt"
)

// ErrNotIterable indicates a ruleset that is neither a rule string nor a list of rules.
var ErrNotIterable = errors.New("ruleset is not iterable")

// RulesetError reports a ruleset that could not be read at all.
// It is the only rule problem that aborts the resolution of a route.
type RulesetError struct {
	// Parameter is the name the ruleset was declared for, if known
	Parameter string
	// Value is the offending raw ruleset
	Value any
	// Cause is the underlying error
	Cause error
}

// Error returns a human-readable error message.
func (e *RulesetError) Error() string {
	msg := "invalid ruleset"
	if e.Parameter != "" {
		msg += " for parameter " + e.Parameter
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (got %T)", e.Value)
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *RulesetError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *RulesetError) Is(target error) bool {
	return target == ErrNotIterable
}
