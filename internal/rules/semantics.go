package rules

import (
	"regexp"
	"strconv"
	"strings"

	"paramdoc/internal/model"
)

// State is the part of a parameter that rules mutate while it is being resolved.
type State struct {
	Name        string
	Type        string
	Required    bool
	Nullable    bool
	Description string
	Enum        []any

	// Generator produces the rule-derived example; the last rule to set it wins
	Generator func() any
}

// Context gives rules access to everything outside the parameter itself.
type Context struct {
	Catalog *Catalog
	Values  *Generators

	// HasField reports whether a name refers to another declared parameter
	HasField func(name string) bool
}

func (c Context) isField(name string) bool {
	return c.HasField != nil && c.HasField(name)
}

func (c Context) describe(s *State, rule string, replacements map[string]string) {
	if c.Catalog == nil {
		return
	}
	if text, ok := c.Catalog.Describe(rule, DescriptionType(s.Type), replacements); ok {
		s.describe(text)
	}
}

func (c Context) bounded(s *State, lo, hi float64) {
	if c.Values == nil {
		return
	}
	s.generate(c.Values.Bounded(s.Type, s.Name, lo, hi))
}

func (s *State) describe(text string) {
	s.Description += " " + text
}

func (s *State) generate(gen func() any) {
	if gen != nil {
		s.Generator = gen
	}
}

// format rules only settle the type when no type rule did
func (s *State) defaultType(typ string) {
	if s.Type == "" {
		s.Type = typ
	}
}

// Entry describes how one rule mutates a parameter.
type Entry struct {
	// Independent rules can be applied before the parameter's type is known
	Independent bool
	Apply       func(s *State, args []string, ctx Context)
}

// Lookup returns the entry for a normalized rule name.
func Lookup(name string) (Entry, bool) {
	e, ok := table[name]
	return e, ok
}

// ApplyDocs applies the documentation of a self-describing rule object.
func ApplyDocs(s *State, docs Docs) {
	if docs.Type != "" {
		s.Type = docs.Type
	}
	if docs.Description != "" {
		s.describe(docs.Description)
	}
	if docs.HasExample {
		example := docs.Example
		s.Generator = func() any { return example }
	}
}

func independent(apply func(*State, []string, Context)) Entry {
	return Entry{Independent: true, Apply: apply}
}

func dependent(apply func(*State, []string, Context)) Entry {
	return Entry{Independent: false, Apply: apply}
}

var table = map[string]Entry{
	"required": independent(func(s *State, _ []string, _ Context) {
		s.Required = true
	}),
	"nullable": independent(func(s *State, _ []string, _ Context) {
		s.Nullable = true
	}),
	"accepted": independent(func(s *State, _ []string, ctx Context) {
		s.Type = model.TypeBoolean
		s.Required = true
		ctx.describe(s, "accepted", nil)
		s.Generator = func() any { return true }
	}),
	"accepted_if": independent(func(s *State, args []string, ctx Context) {
		if len(args) < 2 {
			return
		}
		s.Type = model.TypeBoolean
		ctx.describe(s, "accepted_if", map[string]string{
			"other": Code(args[0]),
			"value": Code(args[1]),
		})
		s.Generator = func() any { return true }
	}),
	"bool":    independent(applyBoolean),
	"boolean": independent(applyBoolean),
	"string": independent(func(s *State, _ []string, ctx Context) {
		s.Type = model.TypeString
		if g := ctx.Values; g != nil {
			name := s.Name
			s.Generator = func() any { return g.String(name) }
		}
	}),
	"int":     independent(applyInteger),
	"integer": independent(applyInteger),
	"numeric": independent(func(s *State, _ []string, ctx Context) {
		s.Type = model.TypeNumber
		if g := ctx.Values; g != nil {
			s.Generator = func() any { return g.Number() }
		}
	}),
	"array": independent(func(s *State, _ []string, ctx Context) {
		s.Type = model.TypeArray
		if g := ctx.Values; g != nil {
			s.Generator = func() any { return []any{g.Faker.Word()} }
		}
	}),
	"file": independent(func(s *State, _ []string, ctx Context) {
		s.Type = model.TypeFile
		s.describe("Must be a file.")
		if g := ctx.Values; g != nil {
			s.Generator = func() any { return g.File(".txt") }
		}
	}),
	"image": independent(func(s *State, _ []string, ctx Context) {
		s.Type = model.TypeFile
		ctx.describe(s, "image", nil)
		if g := ctx.Values; g != nil {
			s.Generator = func() any { return g.File(".png") }
		}
	}),
	"alpha":      independent(lexified("alpha", "??????")),
	"alpha_dash": independent(lexified("alpha_dash", "???-???_?")),
	"alpha_num":  independent(lexified("alpha_num", "#?#???#")),
	"timezone": independent(func(s *State, _ []string, ctx Context) {
		s.defaultType(model.TypeString)
		s.describe("Must be a valid time zone, such as " + Code("Africa/Accra") + ".")
		fake(s, ctx, func(f Faker) any { return f.TimeZoneRegion() })
	}),
	"email": independent(func(s *State, _ []string, ctx Context) {
		s.defaultType(model.TypeString)
		ctx.describe(s, "email", nil)
		fake(s, ctx, func(f Faker) any { return f.Email() })
	}),
	"url": independent(func(s *State, _ []string, ctx Context) {
		s.defaultType(model.TypeString)
		s.describe("Must be a valid URL.")
		fake(s, ctx, func(f Faker) any { return f.URL() })
	}),
	"ip": independent(func(s *State, _ []string, ctx Context) {
		s.defaultType(model.TypeString)
		ctx.describe(s, "ip", nil)
		fake(s, ctx, func(f Faker) any { return f.IPv4Address() })
	}),
	"uuid": independent(func(s *State, _ []string, ctx Context) {
		s.defaultType(model.TypeString)
		ctx.describe(s, "uuid", nil)
		fake(s, ctx, func(f Faker) any { return f.UUID() })
	}),
	"json": independent(func(s *State, _ []string, ctx Context) {
		s.defaultType(model.TypeString)
		ctx.describe(s, "json", nil)
		if g := ctx.Values; g != nil {
			s.Generator = func() any { return g.JSON() }
		}
	}),
	"date": independent(func(s *State, _ []string, ctx Context) {
		s.defaultType(model.TypeString)
		ctx.describe(s, "date", nil)
		if g := ctx.Values; g != nil {
			s.Generator = func() any { return g.Date() }
		}
	}),
	"date_format": independent(func(s *State, args []string, ctx Context) {
		if len(args) == 0 || args[0] == "" {
			return
		}
		format := args[0]
		s.defaultType(model.TypeString)
		s.describe("Must be a valid date in the format " + Code(format) + ".")
		if g := ctx.Values; g != nil {
			s.Generator = func() any { return FormatPHPDate(g.Now, format) }
		}
	}),
	"after":           dependent(dateRule("after", true, true)),
	"after_or_equal":  dependent(dateRule("after_or_equal", true, false)),
	"before":          dependent(dateRule("before", false, true)),
	"before_or_equal": dependent(dateRule("before_or_equal", false, false)),
	"starts_with": independent(func(s *State, args []string, ctx Context) {
		if len(args) == 0 {
			return
		}
		ctx.describe(s, "starts_with", map[string]string{"values": FriendlyList(args, "or")})
		prefix := args[0]
		fake(s, ctx, func(f Faker) any { return prefix + f.Lexify("????") })
	}),
	"ends_with": independent(func(s *State, args []string, ctx Context) {
		if len(args) == 0 {
			return
		}
		ctx.describe(s, "ends_with", map[string]string{"values": FriendlyList(args, "or")})
		suffix := args[0]
		fake(s, ctx, func(f Faker) any { return f.Lexify("????") + suffix })
	}),
	"regex": independent(func(s *State, args []string, ctx Context) {
		if len(args) == 0 || args[0] == "" {
			return
		}
		s.describe("Must match the regex " + args[0] + ".")
		pattern := stripDelimiters(args[0])
		if _, err := regexp.Compile(pattern); err != nil {
			return
		}
		fake(s, ctx, func(f Faker) any { return f.Regex(pattern) })
	}),
	"digits": independent(func(s *State, args []string, ctx Context) {
		n, ok := intArg(args, 0)
		if !ok || n < 1 {
			return
		}
		s.defaultType(model.TypeString)
		ctx.describe(s, "digits", map[string]string{"digits": args[0]})
		fake(s, ctx, func(f Faker) any { return f.Numerify(strings.Repeat("#", n)) })
	}),
	"digits_between": independent(func(s *State, args []string, ctx Context) {
		lo, ok1 := intArg(args, 0)
		hi, ok2 := intArg(args, 1)
		if !ok1 || !ok2 {
			return
		}
		s.defaultType(model.TypeString)
		ctx.describe(s, "digits_between", map[string]string{"min": args[0], "max": args[1]})
		if lo < 1 {
			lo = 1
		}
		if hi < lo {
			hi = lo
		}
		fake(s, ctx, func(f Faker) any { return f.Numerify(strings.Repeat("#", f.Number(lo, hi))) })
	}),
	"size": dependent(func(s *State, args []string, ctx Context) {
		n, ok := numberArg(args, 0)
		if !ok {
			return
		}
		ctx.describe(s, "size", map[string]string{"size": args[0]})
		ctx.bounded(s, n, n)
	}),
	"min": dependent(func(s *State, args []string, ctx Context) {
		x, ok := numberArg(args, 0)
		if !ok {
			return
		}
		ctx.describe(s, "min", map[string]string{"min": args[0]})
		lo, hi := minBounds(x)
		ctx.bounded(s, lo, hi)
	}),
	"max": dependent(func(s *State, args []string, ctx Context) {
		x, ok := numberArg(args, 0)
		if !ok {
			return
		}
		ctx.describe(s, "max", map[string]string{"max": args[0]})
		lo, hi := maxBounds(x)
		ctx.bounded(s, lo, hi)
	}),
	"between": dependent(func(s *State, args []string, ctx Context) {
		lo, ok1 := numberArg(args, 0)
		hi, ok2 := numberArg(args, 1)
		if !ok1 || !ok2 {
			return
		}
		ctx.describe(s, "between", map[string]string{"min": args[0], "max": args[1]})
		if hi > lo+25 {
			hi = lo + 25
		}
		ctx.bounded(s, lo, hi)
	}),
	"gt":  dependent(comparison("gt", true, true)),
	"gte": dependent(comparison("gte", true, false)),
	"lt":  dependent(comparison("lt", false, true)),
	"lte": dependent(comparison("lte", false, false)),
	"in": independent(func(s *State, args []string, ctx Context) {
		if len(args) == 0 {
			return
		}
		s.Enum = make([]any, len(args))
		for i, a := range args {
			s.Enum[i] = a
		}
		s.describe("Must be one of " + FriendlyList(args, "or") + ".")
		values := append([]string(nil), args...)
		fake(s, ctx, func(f Faker) any { return f.RandomString(values) })
	}),
	"not_in": independent(func(s *State, args []string, _ Context) {
		if len(args) == 0 {
			return
		}
		s.describe("Must not be one of " + FriendlyList(args, "or") + ".")
	}),
	"required_if":          independent(otherAndValues("required_if", "value")),
	"required_unless":      independent(otherAndValues("required_unless", "values")),
	"required_with":        independent(fieldList("required_with", "or")),
	"required_without":     independent(fieldList("required_without", "or")),
	"required_with_all":    independent(fieldList("required_with_all", "and")),
	"required_without_all": independent(fieldList("required_without_all", "or")),
	"same":                 independent(otherField("same")),
	"different":            independent(otherField("different")),
	"exists": independent(func(s *State, args []string, _ Context) {
		if len(args) == 0 || args[0] == "" {
			return
		}
		tableName := lastSegment(args[0])
		column := leafName(s.Name)
		if len(args) > 1 && args[1] != "" {
			column = args[1]
		}
		s.describe("The " + Code(column) + " of an existing record in the " + tableName + " table.")
	}),
}

func applyBoolean(s *State, _ []string, ctx Context) {
	s.Type = model.TypeBoolean
	fake(s, ctx, func(f Faker) any { return f.Bool() })
}

func applyInteger(s *State, _ []string, ctx Context) {
	s.Type = model.TypeInteger
	if g := ctx.Values; g != nil {
		s.Generator = func() any { return g.Integer() }
	}
}

func fake(s *State, ctx Context, gen func(f Faker) any) {
	if ctx.Values == nil || ctx.Values.Faker == nil {
		return
	}
	f := ctx.Values.Faker
	s.Generator = func() any { return gen(f) }
}

func lexified(rule, pattern string) func(*State, []string, Context) {
	return func(s *State, _ []string, ctx Context) {
		s.defaultType(model.TypeString)
		ctx.describe(s, rule, nil)
		fake(s, ctx, func(f Faker) any { return f.Lexify(f.Numerify(pattern)) })
	}
}

func dateRule(rule string, after, strict bool) func(*State, []string, Context) {
	return func(s *State, args []string, ctx Context) {
		if len(args) == 0 || args[0] == "" {
			return
		}
		s.defaultType(model.TypeString)
		ctx.describe(s, rule, map[string]string{"date": Code(args[0])})

		g := ctx.Values
		if g == nil {
			return
		}
		anchor := g.Now
		if !ctx.isField(args[0]) {
			t, ok := g.ParseDate(args[0])
			if !ok {
				return
			}
			anchor = t
		}

		var offset int
		if strict {
			offset = 1
		}
		if after {
			start := anchor.AddDate(0, 0, offset)
			s.Generator = func() any { return g.DateBetween(start, start.AddDate(100, 0, 0)) }
			return
		}
		end := anchor.AddDate(0, 0, -offset)
		s.Generator = func() any { return g.DateBetween(end.AddDate(-30, 0, 0), end) }
	}
}

func comparison(rule string, greater, strict bool) func(*State, []string, Context) {
	return func(s *State, args []string, ctx Context) {
		if len(args) == 0 || args[0] == "" {
			return
		}
		if ctx.isField(args[0]) {
			ctx.describe(s, rule, map[string]string{"value": Code(args[0])})
			return
		}
		x, ok := numberArg(args, 0)
		if !ok {
			return
		}
		ctx.describe(s, rule, map[string]string{"value": args[0]})

		var offset float64
		if strict {
			offset = 1
			if s.Type == model.TypeNumber {
				offset = 0.01
			}
		}
		if greater {
			lo, hi := minBounds(x + offset)
			ctx.bounded(s, lo, hi)
			return
		}
		lo, hi := maxBounds(x - offset)
		ctx.bounded(s, lo, hi)
	}
}

func otherAndValues(rule, placeholder string) func(*State, []string, Context) {
	return func(s *State, args []string, ctx Context) {
		if len(args) < 2 {
			return
		}
		ctx.describe(s, rule, map[string]string{
			"other":     Code(args[0]),
			placeholder: FriendlyList(args[1:], "or"),
		})
	}
}

func fieldList(rule, conjunction string) func(*State, []string, Context) {
	return func(s *State, args []string, ctx Context) {
		if len(args) == 0 {
			return
		}
		before := s.Description
		ctx.describe(s, rule, map[string]string{"values": FriendlyList(args, conjunction)})
		if rule == "required_without" && s.Description != before {
			// "is not present" went through the "is not" -> "must be" rewrite
			added := strings.TrimPrefix(s.Description, before)
			s.Description = before + strings.ReplaceAll(added, "must be present", "is not present")
		}
	}
}

func otherField(rule string) func(*State, []string, Context) {
	return func(s *State, args []string, ctx Context) {
		if len(args) == 0 || args[0] == "" {
			return
		}
		ctx.describe(s, rule, map[string]string{"other": Code(args[0])})
	}
}

// minBounds keeps generated values small while honoring a lower bound.
func minBounds(x float64) (float64, float64) {
	if x >= 90 {
		return x, x + 10
	}
	return x, 90
}

func maxBounds(x float64) (float64, float64) {
	hi := x
	if hi > 25 {
		hi = 25
	}
	lo := 1.0
	if lo > hi {
		lo = hi
	}
	return lo, hi
}

func numberArg(args []string, i int) (float64, bool) {
	if i >= len(args) {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(args[i]), 64)
	return f, err == nil
}

func intArg(args []string, i int) (int, bool) {
	if i >= len(args) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(args[i]))
	return n, err == nil
}

// stripDelimiters turns "/^a+$/i" into "^a+$".
func stripDelimiters(pattern string) string {
	if len(pattern) < 2 {
		return pattern
	}
	delim := pattern[0]
	if delim >= 'a' && delim <= 'z' || delim >= 'A' && delim <= 'Z' || delim >= '0' && delim <= '9' || delim == '\\' {
		return pattern
	}
	end := strings.LastIndexByte(pattern, delim)
	if end <= 0 {
		return pattern
	}
	return pattern[1:end]
}

func leafName(name string) string {
	if i := strings.LastIndexAny(name, ".]"); i >= 0 {
		return name[i+1:]
	}
	return name
}
