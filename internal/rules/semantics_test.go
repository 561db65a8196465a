package rules

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paramdoc/internal/model"
)

var testNow = time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

func testContext(seed uint64) Context {
	return Context{
		Catalog:  DefaultCatalog(),
		Values:   NewGenerators(NewFaker(seed), testNow),
		HasField: func(name string) bool { return name == "start_date" || name == "password" },
	}
}

// applyRules runs independent rules, defaults the type, then runs dependent rules.
func applyRules(name string, ruleset ...string) *State {
	ctx := testContext(42)
	s := &State{Name: name}
	var deferred []string
	for _, r := range ruleset {
		ruleName, args := Parse(r)
		entry, ok := Lookup(ruleName)
		if !ok {
			continue
		}
		if !entry.Independent {
			deferred = append(deferred, r)
			continue
		}
		entry.Apply(s, args, ctx)
	}
	if s.Type == "" {
		s.Type = model.TypeString
	}
	for _, r := range deferred {
		ruleName, args := Parse(r)
		entry, _ := Lookup(ruleName)
		entry.Apply(s, args, ctx)
	}
	return s
}

func description(s *State) string {
	return strings.TrimSpace(s.Description)
}

func TestDependentRules(t *testing.T) {
	dependentRules := []string{"between", "max", "min", "size", "gt", "gte", "lt", "lte",
		"before", "after", "before_or_equal", "after_or_equal"}
	for _, name := range dependentRules {
		entry, ok := Lookup(name)
		require.True(t, ok, name)
		assert.False(t, entry.Independent, name)
	}

	for _, name := range []string{"required", "string", "integer", "email", "in", "regex", "date", "same"} {
		entry, ok := Lookup(name)
		require.True(t, ok, name)
		assert.True(t, entry.Independent, name)
	}

	_, ok := Lookup("no_such_rule")
	assert.False(t, ok)
}

func TestTypeRules(t *testing.T) {
	tests := []struct {
		rule string
		want string
	}{
		{"string", model.TypeString},
		{"int", model.TypeInteger},
		{"integer", model.TypeInteger},
		{"numeric", model.TypeNumber},
		{"bool", model.TypeBoolean},
		{"boolean", model.TypeBoolean},
		{"array", model.TypeArray},
		{"file", model.TypeFile},
		{"image", model.TypeFile},
		{"accepted", model.TypeBoolean},
		{"email", model.TypeString},
	}
	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			s := applyRules("field", tt.rule)
			assert.Equal(t, tt.want, s.Type)
			require.NotNil(t, s.Generator)
		})
	}
}

func TestFormatRulesKeepDeclaredType(t *testing.T) {
	s := applyRules("code", "digits:4", "integer")
	assert.Equal(t, model.TypeInteger, s.Type)

	s = applyRules("code", "integer", "digits:4")
	assert.Equal(t, model.TypeInteger, s.Type)
}

func TestRuleDescriptions(t *testing.T) {
	tests := []struct {
		name    string
		ruleset []string
		want    string
	}{
		{"email", []string{"email"}, "Must be a valid email address."},
		{"url", []string{"url"}, "Must be a valid URL."},
		{"file", []string{"file"}, "Must be a file."},
		{"accepted", []string{"accepted"}, "Must be accepted."},
		{"timezone", []string{"timezone"}, "Must be a valid time zone, such as <code>Africa/Accra</code>."},
		{"date", []string{"date"}, "Must be a valid date."},
		{"date_format", []string{"date_format:Y-m-d"}, "Must be a valid date in the format <code>Y-m-d</code>."},
		{"string max", []string{"string", "max:3"}, "Must not be greater than 3 characters."},
		{"integer max", []string{"integer", "max:3"}, "Must not be greater than 3."},
		{"array min", []string{"array", "min:2"}, "Must have at least 2 items."},
		{"file size", []string{"file", "size:10"}, "Must be a file. Must be 10 kilobytes."},
		{"between", []string{"numeric", "between:1,5"}, "Must be between 1 and 5."},
		{"in", []string{"in:a,b,c"}, "Must be one of <code>a</code>, <code>b</code>, or <code>c</code>."},
		{"not_in", []string{"not_in:x,y"}, "Must not be one of <code>x</code> or <code>y</code>."},
		{"starts_with", []string{"starts_with:ab"}, "Must start with one of the following: <code>ab</code>."},
		{"regex", []string{"regex:/^abc$/"}, "Must match the regex /^abc$/."},
		{"digits", []string{"digits:4"}, "Must be 4 digits."},
		{"digits_between", []string{"digits_between:2,4"}, "Must be between 2 and 4 digits."},
		{"gt literal", []string{"integer", "gt:3"}, "Must be greater than 3."},
		{"lte field", []string{"integer", "lte:password"}, "Must be less than or equal <code>password</code>."},
		{"after field", []string{"after:start_date"}, "Must be a date after <code>start_date</code>."},
		{"required_if", []string{"required_if:type,admin,owner"}, "This field is required when <code>type</code> is <code>admin</code> or <code>owner</code>."},
		{"required_with", []string{"required_with:a,b"}, "This field is required when <code>a</code> or <code>b</code> is present."},
		{"required_without", []string{"required_without:email"}, "This field is required when <code>email</code> is not present."},
		{"required_with_all", []string{"required_with_all:a,b"}, "This field is required when <code>a</code> and <code>b</code> are present."},
		{"same", []string{"same:password"}, "The value and <code>password</code> must match."},
		{"exists", []string{"exists:users,email"}, "The <code>email</code> of an existing record in the users table."},
		{"exists default column", []string{`exists:App\Models\User`}, "The <code>id</code> of an existing record in the User table."},
		{"unknown rule", []string{"sometimes", "bail"}, ""},
		{"malformed max", []string{"max"}, ""},
		{"malformed between", []string{"between:1"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name := "field"
			if strings.HasPrefix(tt.name, "exists default") {
				name = "user.id"
			}
			s := applyRules(name, tt.ruleset...)
			assert.Equal(t, tt.want, description(s))
		})
	}
}

func TestRuleOrderIndependence(t *testing.T) {
	a := applyRules("name", "max:3", "string")
	b := applyRules("name", "string", "max:3")

	assert.Equal(t, a.Type, b.Type)
	assert.Equal(t, a.Description, b.Description)
	assert.Equal(t, a.Required, b.Required)
	require.NotNil(t, a.Generator)
	require.NotNil(t, b.Generator)
}

func TestRuleGenerators(t *testing.T) {
	t.Run("bounded string", func(t *testing.T) {
		s := applyRules("title", "string", "max:3")
		for i := 0; i < 20; i++ {
			v, ok := s.Generator().(string)
			require.True(t, ok)
			assert.GreaterOrEqual(t, len(v), 1)
			assert.LessOrEqual(t, len(v), 3)
		}
	})

	t.Run("exact size string", func(t *testing.T) {
		s := applyRules("code", "string", "size:4")
		v := s.Generator().(string)
		assert.Len(t, v, 4)
	})

	t.Run("bounded integer", func(t *testing.T) {
		s := applyRules("age", "integer", "min:18")
		for i := 0; i < 20; i++ {
			v := s.Generator().(int)
			assert.GreaterOrEqual(t, v, 18)
			assert.LessOrEqual(t, v, 90)
		}
	})

	t.Run("bounded array of integers", func(t *testing.T) {
		s := &State{Name: "ids", Type: "integer[]"}
		entry, _ := Lookup("min")
		entry.Apply(s, []string{"2"}, testContext(1))
		v := s.Generator().([]any)
		assert.GreaterOrEqual(t, len(v), 2)
		for _, item := range v {
			assert.IsType(t, 0, item)
		}
	})

	t.Run("in picks an allowed value", func(t *testing.T) {
		s := applyRules("role", "in:admin,user")
		assert.Equal(t, []any{"admin", "user"}, s.Enum)
		assert.Contains(t, []string{"admin", "user"}, s.Generator())
	})

	t.Run("regex", func(t *testing.T) {
		s := applyRules("code", "regex:/^abc$/")
		assert.Equal(t, "abc", s.Generator())
	})

	t.Run("invalid regex has no generator", func(t *testing.T) {
		s := applyRules("code", "regex:/[a-/")
		assert.Nil(t, s.Generator)
		assert.NotEmpty(t, s.Description)
	})

	t.Run("date_format", func(t *testing.T) {
		s := applyRules("day", "date_format:d/m/Y")
		assert.Equal(t, "05/03/2024", s.Generator())
	})

	t.Run("after a field reference uses today", func(t *testing.T) {
		s := applyRules("end_date", "date", "after:start_date")
		v, err := time.Parse(DateLayout, s.Generator().(string))
		require.NoError(t, err)
		assert.True(t, v.After(testNow), "%s should be after %s", v, testNow)
	})

	t.Run("before a literal date", func(t *testing.T) {
		s := applyRules("born", "before:2000-01-01")
		v, err := time.Parse(DateLayout, s.Generator().(string))
		require.NoError(t, err)
		limit := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
		assert.True(t, v.Before(limit))
		assert.True(t, v.After(limit.AddDate(-31, 0, 0)))
	})

	t.Run("unparseable literal date has no generator", func(t *testing.T) {
		s := applyRules("born", "before:whenever")
		assert.Nil(t, s.Generator)
	})

	t.Run("digits", func(t *testing.T) {
		s := applyRules("pin", "digits:6")
		v := s.Generator().(string)
		assert.Len(t, v, 6)
		assert.Regexp(t, `^[0-9]{6}$`, v)
	})

	t.Run("starts_with", func(t *testing.T) {
		s := applyRules("sku", "starts_with:SKU-")
		assert.True(t, strings.HasPrefix(s.Generator().(string), "SKU-"))
	})

	t.Run("last generator wins", func(t *testing.T) {
		s := applyRules("contact", "email", "uuid")
		assert.Regexp(t, `^[0-9a-f-]{36}$`, s.Generator())
	})
}

func TestRequiredAndNullable(t *testing.T) {
	s := applyRules("field", "required", "nullable")
	assert.True(t, s.Required)
	assert.True(t, s.Nullable)

	s = applyRules("terms", "accepted")
	assert.True(t, s.Required)
	assert.Equal(t, true, s.Generator())
}

func TestApplyDocs(t *testing.T) {
	s := &State{Name: "phone"}
	ApplyDocs(s, Docs{Description: "A phone number.", Type: "string", Example: "+1 555 0100", HasExample: true})

	assert.Equal(t, "string", s.Type)
	assert.Equal(t, "A phone number.", description(s))
	assert.Equal(t, "+1 555 0100", s.Generator())

	s = &State{Name: "x", Type: "integer"}
	ApplyDocs(s, Docs{})
	assert.Equal(t, "integer", s.Type)
	assert.Nil(t, s.Generator)
}
