package model

import (
	"bytes"
	"encoding/json"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Base parameter types
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeFile    = "file"
	TypeObject  = "object"
	TypeArray   = "array"
)

// RootArrayKey is the name of the synthesized parameter that stands for a
// request body which is itself an array ("[].name" style names).
const RootArrayKey = "[]"

// Params is an insertion-ordered set of parameters keyed by name.
type Params = orderedmap.OrderedMap[string, *Parameter]

// NewParams creates an empty ordered parameter set.
func NewParams() *Params {
	return orderedmap.New[string, *Parameter]()
}

// Parameter is the canonical, type-resolved description of one input or
// output field.
type Parameter struct {
	// Normalized path, e.g. "cars[].make"
	Name string

	// One of the base types, optionally suffixed with "[]" per array level
	Type string

	Required    bool
	Nullable    bool
	Description string
	Example     Example

	// Allowed values (from the "in" rule)
	Enum []any

	// True when the example came from user-supplied data rather than inference
	ExampleSpecified bool

	// Child fields keyed by leaf name, only populated for object types.
	// Spelled out because an alias may not refer to its own element type.
	Fields *orderedmap.OrderedMap[string, *Parameter]
}

// NewParameter creates a parameter with a missing example.
func NewParameter(name, typ string) *Parameter {
	return &Parameter{Name: name, Type: typ}
}

// Clone returns a deep copy of p, including its fields.
func (p *Parameter) Clone() *Parameter {
	if p == nil {
		return nil
	}
	c := *p
	if p.Enum != nil {
		c.Enum = append([]any(nil), p.Enum...)
	}
	c.Fields = nil
	if p.Fields != nil {
		c.Fields = NewParams()
		for pair := p.Fields.Oldest(); pair != nil; pair = pair.Next() {
			c.Fields.Set(pair.Key, pair.Value.Clone())
		}
	}
	return &c
}

// HasFields reports whether p owns at least one child field.
func (p *Parameter) HasFields() bool {
	return p.Fields != nil && p.Fields.Len() > 0
}

type parameterJSON struct {
	Name        string                                     `json:"name"`
	Type        string                                     `json:"type"`
	Required    bool                                       `json:"required"`
	Nullable    bool                                       `json:"nullable,omitempty"`
	Description string                                     `json:"description"`
	Example     json.RawMessage                            `json:"example,omitempty"`
	Enum        []any                                      `json:"enum,omitempty"`
	Fields      *orderedmap.OrderedMap[string, *Parameter] `json:"fields,omitempty"`
}

// MarshalJSON omits the example when it is missing and keeps explicit nulls.
func (p *Parameter) MarshalJSON() ([]byte, error) {
	out := parameterJSON{
		Name:        p.Name,
		Type:        p.Type,
		Required:    p.Required,
		Nullable:    p.Nullable,
		Description: p.Description,
		Enum:        p.Enum,
	}
	if p.HasFields() {
		out.Fields = p.Fields
	}
	if !p.Example.IsMissing() {
		raw, err := marshalUnescaped(p.Example)
		if err != nil {
			return nil, err
		}
		out.Example = raw
	}
	return marshalUnescaped(out)
}

// marshalUnescaped is json.Marshal without HTML escaping, so markup in
// descriptions and examples stays readable.
func marshalUnescaped(v any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// IsArrayType reports whether typ ends in "[]".
func IsArrayType(typ string) bool {
	return strings.HasSuffix(typ, "[]")
}

// BaseType strips every trailing "[]" from typ.
func BaseType(typ string) string {
	for strings.HasSuffix(typ, "[]") {
		typ = typ[:len(typ)-2]
	}
	return typ
}

// ArrayDepth counts the trailing "[]" suffixes of typ.
func ArrayDepth(typ string) int {
	depth := 0
	for strings.HasSuffix(typ, "[]") {
		typ = typ[:len(typ)-2]
		depth++
	}
	return depth
}

// WithArrayDepth returns base suffixed with depth "[]" levels.
func WithArrayDepth(base string, depth int) string {
	if depth <= 0 {
		return base
	}
	return base + strings.Repeat("[]", depth)
}

// IsObjectType reports whether typ is an object or an array of objects.
func IsObjectType(typ string) bool {
	return BaseType(typ) == TypeObject
}
