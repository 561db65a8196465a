package rules

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uppercaseRule struct{}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		rule     any
		wantName string
		wantArgs []string
	}{
		{"plain rule", "required", "required", nil},
		{"single argument", "max:3", "max", []string{"3"}},
		{"argument list", "in:1,2,3", "in", []string{"1", "2", "3"}},
		{"quoted argument", `in:"a,b",c`, "in", []string{"a,b", "c"}},
		{"name is trimmed and lower-cased", "  Required_With :email", "required_with", []string{"email"}},
		{"regex keeps commas", "regex:/^[a-z]{1,3}$/", "regex", []string{"/^[a-z]{1,3}$/"}},
		{"date_format keeps commas", "date_format:D, d M Y", "date_format", []string{"D, d M Y"}},
		{"date_format keeps colons", "date_format:H:i", "date_format", []string{"H:i"}},
		{"empty argument list", "max:", "max", nil},
		{"named rule object", Named(`App\Rules\Uppercase`), "uppercase", nil},
		{"dotted rule object", DocumentedRule{Class: "app.rules.PhoneNumber"}, "phonenumber", nil},
		{"go value", uppercaseRule{}, "uppercaserule", nil},
		{"pointer value", &uppercaseRule{}, "uppercaserule", nil},
		{"nil", nil, "", nil},
		{"integer scalar", 10, "10", nil},
		{"float scalar", 1.5, "1.5", nil},
		{"boolean scalar", true, "true", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, args := Parse(tt.rule)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestSplitRuleset(t *testing.T) {
	t.Run("pipe separated string", func(t *testing.T) {
		got, err := SplitRuleset("required|max:3||string")
		require.NoError(t, err)
		assert.Equal(t, []any{"required", "max:3", "string"}, got)
	})

	t.Run("string list", func(t *testing.T) {
		got, err := SplitRuleset([]string{"required", "in:a,b"})
		require.NoError(t, err)
		assert.Equal(t, []any{"required", "in:a,b"}, got)
	})

	t.Run("mixed list", func(t *testing.T) {
		rule := Named("Uppercase")
		got, err := SplitRuleset([]any{"string", rule})
		require.NoError(t, err)
		assert.Equal(t, []any{"string", rule}, got)
	})

	t.Run("single rule object", func(t *testing.T) {
		got, err := SplitRuleset(Named("Uppercase"))
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("nil is empty", func(t *testing.T) {
		got, err := SplitRuleset(nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("not iterable", func(t *testing.T) {
		_, err := SplitRuleset(42)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotIterable))

		var rulesetErr *RulesetError
		require.True(t, errors.As(err, &rulesetErr))
		assert.Equal(t, 42, rulesetErr.Value)
		assert.Contains(t, err.Error(), "(got int)")
	})
}

func TestRulesetErrorMessage(t *testing.T) {
	err := &RulesetError{Parameter: "tags", Value: 3.5, Cause: ErrNotIterable}
	assert.Equal(t, "invalid ruleset for parameter tags: ruleset is not iterable (got float64)", err.Error())
}
