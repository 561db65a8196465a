package model

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is an insertion-ordered example object.
type Object = orderedmap.OrderedMap[string, any]

// NewObject creates an empty example object.
func NewObject() *Object {
	return orderedmap.New[string, any]()
}

type exampleState uint8

const (
	exampleUnset exampleState = iota
	exampleNull
	exampleValue
)

// Example holds a parameter's example value.
// The zero value is the "missing" state, which is distinct from an explicit null.
type Example struct {
	state exampleState
	value any
}

// Missing returns an example that was never set.
func Missing() Example {
	return Example{}
}

// Null returns an explicitly null example.
func Null() Example {
	return Example{state: exampleNull}
}

// ValueOf wraps v. A nil v yields Null().
func ValueOf(v any) Example {
	if v == nil {
		return Null()
	}
	return Example{state: exampleValue, value: v}
}

// IsMissing reports whether no example was ever set.
func (e Example) IsMissing() bool {
	return e.state == exampleUnset
}

// IsNull reports whether the example is an explicit null.
func (e Example) IsNull() bool {
	return e.state == exampleNull
}

// HasValue reports whether the example carries a non-null value.
func (e Example) HasValue() bool {
	return e.state == exampleValue
}

// Value returns the wrapped value, or nil for missing and null examples.
func (e Example) Value() any {
	return e.value
}

// MarshalJSON encodes the wrapped value. Missing examples encode as null;
// owners omit them before reaching this point.
func (e Example) MarshalJSON() ([]byte, error) {
	if e.state != exampleValue {
		return []byte("null"), nil
	}
	return marshalUnescaped(e.value)
}
