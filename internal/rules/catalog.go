package rules

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

//go:embed messages.en.yaml
var defaultMessages []byte

// Catalog holds the validation messages parameter descriptions are built from.
// A message is either a single text or one text per base type
// (numeric, file, string, array).
type Catalog struct {
	texts  map[string]string
	byType map[string]map[string]string
}

// DefaultCatalog returns the built-in English catalog.
func DefaultCatalog() *Catalog {
	c := newCatalog()
	if err := c.merge(defaultMessages); err != nil {
		panic(fmt.Sprintf("rules: embedded message catalog is invalid: %v", err))
	}
	return c
}

// LoadCatalog returns the built-in catalog overlaid with the messages found
// in the YAML file at path. An empty path yields the built-in catalog.
func LoadCatalog(path string) (*Catalog, error) {
	c := DefaultCatalog()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read message catalog: %w", err)
	}
	if err := c.merge(data); err != nil {
		return nil, fmt.Errorf("failed to parse message catalog %s: %w", path, err)
	}
	return c, nil
}

func newCatalog() *Catalog {
	return &Catalog{
		texts:  make(map[string]string),
		byType: make(map[string]map[string]string),
	}
}

func (c *Catalog) merge(data []byte) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}

	for rule, value := range raw {
		switch v := value.(type) {
		case string:
			c.texts[rule] = v
			delete(c.byType, rule)
		case map[string]any:
			typed := make(map[string]string, len(v))
			for baseType, text := range v {
				s, ok := text.(string)
				if !ok {
					return fmt.Errorf("message %s.%s is not a string", rule, baseType)
				}
				typed[baseType] = s
			}
			c.byType[rule] = typed
			delete(c.texts, rule)
		default:
			return fmt.Errorf("message %s has unsupported type %T", rule, value)
		}
	}
	return nil
}

// Raw returns the untransformed message for rule. baseType selects among
// per-type messages and is ignored for single-text messages.
func (c *Catalog) Raw(rule, baseType string) (string, bool) {
	if text, ok := c.texts[rule]; ok {
		return text, true
	}
	if typed, ok := c.byType[rule]; ok {
		text, ok := typed[baseType]
		return text, ok
	}
	return "", false
}

// Describe returns the message for rule rewritten into a description
// sentence, with placeholders (":min", ":values", ...) substituted from
// replacements. The second result is false when the catalog has no message.
func (c *Catalog) Describe(rule, baseType string, replacements map[string]string) (string, bool) {
	text, ok := c.Raw(rule, baseType)
	if !ok {
		return "", false
	}
	return Humanize(text, replacements), true
}

var phrasing = strings.NewReplacer(
	"is not", "must be",
	"does not", "must",
	"may not", "must not",
)

// Humanize turns a validation error message into a description sentence:
//
//	"The :attribute must be at least :min characters." -> "Must be at least 3 characters."
func Humanize(text string, replacements map[string]string) string {
	text = phrasing.Replace(text)
	text = strings.ReplaceAll(text, "The :attribute field", "This field")
	text = strings.ReplaceAll(text, "The :attribute", "The value")
	text = strings.ReplaceAll(text, ":attribute", "the value")

	keys := make([]string, 0, len(replacements))
	for k := range replacements {
		keys = append(keys, k)
	}
	// ":values" must be substituted before ":value"
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		text = strings.ReplaceAll(text, ":"+k, replacements[k])
	}

	text = strings.ReplaceAll(text, "The value must", "Must")
	return upperFirst(text)
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// DescriptionType maps a parameter type to the base type used to pick a
// type-dependent message.
func DescriptionType(typ string) string {
	switch {
	case strings.HasSuffix(typ, "[]"), typ == "array":
		return "array"
	case typ == "integer", typ == "number":
		return "numeric"
	case typ == "file":
		return "file"
	default:
		return "string"
	}
}
