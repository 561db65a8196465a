package rules

import (
	"encoding/csv"
	"reflect"
	"strings"

	"github.com/spf13/cast"
)

// Object is a structured validation rule. Its rule name is derived from the
// last path segment of TypeName.
type Object interface {
	TypeName() string
}

// Docs is the documentation a rule object can carry about the values it accepts.
type Docs struct {
	Description string
	Type        string
	Example     any
	HasExample  bool
}

// Documented is implemented by rule objects that describe themselves.
type Documented interface {
	Docs() Docs
}

// Named is a rule object known only by its type name.
type Named string

// TypeName returns the rule's type name.
func (n Named) TypeName() string { return string(n) }

// DocumentedRule is a rule object that carries its own documentation.
type DocumentedRule struct {
	Class         string
	Documentation Docs
}

// TypeName returns the rule's type name.
func (r DocumentedRule) TypeName() string { return r.Class }

// Docs returns the rule's documentation.
func (r DocumentedRule) Docs() Docs { return r.Documentation }

// rules whose argument string may legitimately contain commas
var unsplitArguments = map[string]bool{
	"regex":       true,
	"date":        true,
	"date_format": true,
}

// Parse splits a rule into its lower-cased name and its arguments.
//
//	"max:3"             -> ("max", ["3"])
//	"in:1,2,3"          -> ("in", ["1", "2", "3"])
//	"regex:/^a,b$/"     -> ("regex", ["/^a,b$/"])
//	Named(`App\Rules\Uppercase`) -> ("uppercase", nil)
//
// Parse never fails; malformed input degrades to (input, nil). Numbers and
// booleans are read as their text, so 10 parses as the unknown rule "10".
func Parse(rule any) (string, []string) {
	switch r := rule.(type) {
	case nil:
		return "", nil
	case string:
		return parseString(r)
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		// a stray scalar in a rule list names no rule type
		return parseString(cast.ToString(r))
	case Object:
		return normalizeName(lastSegment(r.TypeName())), nil
	default:
		return normalizeName(typeName(rule)), nil
	}
}

func parseString(rule string) (string, []string) {
	name, argString, found := strings.Cut(rule, ":")
	name = normalizeName(name)
	if !found {
		return name, nil
	}
	if unsplitArguments[name] {
		return name, []string{argString}
	}
	return name, splitArguments(argString)
}

// splitArguments reads a comma-separated argument list, honoring double quotes.
func splitArguments(s string) []string {
	if s == "" {
		return nil
	}
	r := csv.NewReader(strings.NewReader(s))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	record, err := r.Read()
	if err != nil {
		return strings.Split(s, ",")
	}
	return record
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func lastSegment(name string) string {
	if i := strings.LastIndexAny(name, `\/.`); i >= 0 {
		return name[i+1:]
	}
	return name
}

func typeName(v any) string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

// SplitRuleset turns a raw ruleset into a list of rules.
// A ruleset is a "|" separated string, a list of strings and rule objects,
// or a single rule object. Anything else is not iterable and returns a
// *RulesetError.
func SplitRuleset(raw any) ([]any, error) {
	switch r := raw.(type) {
	case nil:
		return nil, nil
	case string:
		var out []any
		for _, part := range strings.Split(r, "|") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			out = append(out, part)
		}
		return out, nil
	case []string:
		out := make([]any, 0, len(r))
		for _, part := range r {
			out = append(out, part)
		}
		return out, nil
	case []any:
		return r, nil
	case Object, Documented:
		return []any{r}, nil
	default:
		return nil, &RulesetError{Value: raw, Cause: ErrNotIterable}
	}
}
