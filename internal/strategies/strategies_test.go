package strategies

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paramdoc/internal/merger"
	"paramdoc/internal/model"
	"paramdoc/internal/resolver"
	"paramdoc/internal/rules"
)

func newContext(route *model.Route, stage model.Stage) *merger.Context {
	return &merger.Context{
		Route:    route,
		Stage:    stage,
		Sofar:    &model.StageData{Parameters: model.NewParams(), Headers: model.NewHeaders()},
		Resolver: resolver.New(nil, rules.NewFaker(11), resolver.WithTracer(nil)),
	}
}

func toJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func keys(params *model.Params) []string {
	var out []string
	for pair := params.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

func TestNew(t *testing.T) {
	for stage, names := range DefaultPlanNames() {
		for _, name := range names {
			s, err := New(name, Options{})
			require.NoError(t, err, "stage %s", stage)
			assert.Equal(t, name, s.Name())
		}
	}

	_, err := New("psychic", Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownStrategy))
}

func TestBuildPlan(t *testing.T) {
	plan, err := BuildPlan(map[model.Stage][]string{
		model.StageBodyParameters: {NameValidationRules, NameParamTags},
	}, Options{})
	require.NoError(t, err)
	require.Len(t, plan[model.StageBodyParameters], 2)
	assert.Empty(t, plan[model.StageHeaders])

	_, err = BuildPlan(map[model.Stage][]string{
		model.StageResponses: {"nope"},
	}, Options{})
	require.ErrorIs(t, err, ErrUnknownStrategy)
	assert.Contains(t, err.Error(), "responses")
}

func TestValidationRules(t *testing.T) {
	route := model.NewRoute("POST", "/cars")
	rs := resolver.NewRulesets()
	rs.Set("cars.*.make", "string|required")
	rs.Set("tags.*", "integer")
	route.Rules[model.StageBodyParameters] = rs
	route.Custom[model.StageBodyParameters] = map[string]model.CustomData{
		"tags.*": {Description: "Tag ids", Example: model.ValueOf("4")},
	}

	data, err := ValidationRules{}.Extract(newContext(route, model.StageBodyParameters))
	require.NoError(t, err)
	assert.Equal(t, []string{"cars[].make", "tags"}, keys(data.Parameters))

	tags, _ := data.Parameters.Get("tags")
	assert.Equal(t, "integer[]", tags.Type)
	assert.Equal(t, "Tag ids.", tags.Description)
	assert.Equal(t, []any{4}, tags.Example.Value())

	none, err := ValidationRules{}.Extract(newContext(route, model.StageQueryParameters))
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestValidationRulesRejectsNonIterableRuleset(t *testing.T) {
	route := model.NewRoute("POST", "/broken")
	rs := resolver.NewRulesets()
	rs.Set("name", 42)
	route.Rules[model.StageBodyParameters] = rs

	_, err := ValidationRules{}.Extract(newContext(route, model.StageBodyParameters))
	require.ErrorIs(t, err, rules.ErrNotIterable)
}

func TestParamTags(t *testing.T) {
	route := model.NewRoute("GET", "/users")
	route.Tags[model.StageQueryParameters] = []model.ParamTag{
		{Name: "page", Type: "int", Description: "Page number.", Example: model.ValueOf("2")},
		{Name: "sort", Type: "string", NoExample: true},
		{Name: "ids", Type: "int[]", Required: true},
		{Name: "filter"},
	}

	ctx := newContext(route, model.StageQueryParameters)
	ctx.Sofar.Parameters.Set("filter", &model.Parameter{
		Name: "filter", Type: "boolean", Description: "From rules.", Example: model.ValueOf(true),
	})

	data, err := ParamTags{}.Extract(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"page", "sort", "ids", "filter"}, keys(data.Parameters))

	page, _ := data.Parameters.Get("page")
	assert.Equal(t, "integer", page.Type)
	assert.Equal(t, 2, page.Example.Value())
	assert.True(t, page.ExampleSpecified)

	sort, _ := data.Parameters.Get("sort")
	assert.True(t, sort.Example.IsMissing())

	ids, _ := data.Parameters.Get("ids")
	assert.Equal(t, "integer[]", ids.Type)
	require.IsType(t, []any{}, ids.Example.Value())
	assert.Len(t, ids.Example.Value(), 1)
	assert.IsType(t, 0, ids.Example.Value().([]any)[0])

	filter, _ := data.Parameters.Get("filter")
	assert.Equal(t, "boolean", filter.Type)
	assert.Equal(t, "From rules.", filter.Description)
	assert.Equal(t, true, filter.Example.Value())
}

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		raw, want string
	}{
		{"", ""},
		{"int", "integer"},
		{"Float", "number"},
		{"bool[]", "boolean[]"},
		{"object[][]", "object[][]"},
		{"mystery", "string"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeType(tt.raw), tt.raw)
	}
}

func TestURLPlaceholders(t *testing.T) {
	route := model.NewRoute("GET", "/users/{id}/posts/{post_slug}/comments/{comment_id}/{page?}")

	data, err := URLPlaceholders{}.Extract(newContext(route, model.StageURLParameters))
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "post_slug", "comment_id", "page"}, keys(data.Parameters))

	id, _ := data.Parameters.Get("id")
	assert.Equal(t, "integer", id.Type)
	assert.True(t, id.Required)
	assert.Equal(t, "The ID of the user.", id.Description)
	assert.IsType(t, 0, id.Example.Value())

	slug, _ := data.Parameters.Get("post_slug")
	assert.Equal(t, "string", slug.Type)
	assert.IsType(t, "", slug.Example.Value())

	comment, _ := data.Parameters.Get("comment_id")
	assert.Equal(t, "The ID of the comment.", comment.Description)

	page, _ := data.Parameters.Get("page")
	assert.False(t, page.Required)
	assert.Equal(t, "Optional.", page.Description)

	plain, err := URLPlaceholders{}.Extract(newContext(model.NewRoute("GET", "/health"), model.StageURLParameters))
	require.NoError(t, err)
	assert.Nil(t, plain)
}

func TestSingular(t *testing.T) {
	assert.Equal(t, "category", singular("categories"))
	assert.Equal(t, "address", singular("address"))
	assert.Equal(t, "user", singular("users"))
	assert.Equal(t, "data", singular("data"))
}

func TestHeaders(t *testing.T) {
	route := model.NewRoute("GET", "/")
	route.Headers.Set("Accept", "text/csv")

	defaults, err := DefaultHeaders{Headers: map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}}.Extract(newContext(route, model.StageHeaders))
	require.NoError(t, err)
	assert.Equal(t, `{"Accept":"application/json","Content-Type":"application/json"}`, toJSON(t, defaults.Headers))

	declared, err := RouteHeaders{}.Extract(newContext(route, model.StageHeaders))
	require.NoError(t, err)

	merged := merger.Merge(model.StageHeaders, []*model.StageData{defaults, declared})
	assert.Equal(t, `{"Accept":"text/csv","Content-Type":"application/json"}`, toJSON(t, merged.Headers))

	none, err := DefaultHeaders{}.Extract(newContext(route, model.StageHeaders))
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestResponses(t *testing.T) {
	route := model.NewRoute("POST", "/users")
	route.ResponseTags = []model.Response{{Status: 422}, {Status: 201, Source: "attribute"}}
	route.Captured = []model.Response{{Status: 200, Content: `{"id":1}`}}

	tags, err := ResponseTags{}.Extract(newContext(route, model.StageResponses))
	require.NoError(t, err)
	captured, err := CapturedResponses{}.Extract(newContext(route, model.StageResponses))
	require.NoError(t, err)

	merged := merger.Merge(model.StageResponses, []*model.StageData{tags, captured})
	require.Len(t, merged.Responses, 3)
	assert.Equal(t, 200, merged.Responses[0].Status)
	assert.Equal(t, NameCapturedResponses, merged.Responses[0].Source)
	assert.Equal(t, "attribute", merged.Responses[1].Source)
	assert.Equal(t, NameResponseTags, merged.Responses[2].Source)

	assert.Empty(t, route.ResponseTags[0].Source, "route data is not modified")
}

func TestDefaultPlanEndToEnd(t *testing.T) {
	plan, err := BuildPlan(DefaultPlanNames(), Options{DefaultHeaders: map[string]string{"Accept": "application/json"}})
	require.NoError(t, err)

	route := model.NewRoute("PUT", "/users/{id}")
	rs := resolver.NewRulesets()
	rs.Set("name", "string|required")
	rs.Set("address.city", "string|required")
	rs.Set("roles", "array")
	rs.Set("roles.*", "in:admin,editor")
	route.Rules[model.StageBodyParameters] = rs
	url := resolver.NewRulesets()
	url.Set("id", "integer|required|exists:users,id")
	route.Rules[model.StageURLParameters] = url
	route.Tags[model.StageBodyParameters] = []model.ParamTag{
		{Name: "name", Description: "The user's name.", Example: model.ValueOf("Ada")},
	}
	route.Tags[model.StageResponseFields] = []model.ParamTag{
		{Name: "id", Type: "int", Description: "The user id."},
	}
	route.Captured = []model.Response{{Status: 200, Content: `{"id": 1}`}}

	pipeline := merger.NewPipeline(plan, merger.WithResolverFactory(func() *resolver.Resolver {
		return resolver.New(nil, rules.NewFaker(5), resolver.WithTracer(nil))
	}))
	data, err := pipeline.Process(route)
	require.NoError(t, err)

	assert.Equal(t, `{"Accept":"application/json"}`, toJSON(t, data.Headers))

	id, ok := data.URLParameters.Get("id")
	require.True(t, ok)
	assert.Equal(t, "integer", id.Type)
	assert.True(t, id.Required)
	assert.Contains(t, id.Description, "existing record")

	assert.Equal(t, []string{"name", "address.city", "roles"}, keys(data.BodyParameters))
	roles, _ := data.BodyParameters.Get("roles")
	assert.Equal(t, "string[]", roles.Type)
	assert.Equal(t, []any{"admin", "editor"}, roles.Enum)

	name, _ := data.BodyParameters.Get("name")
	assert.Equal(t, "Ada", name.Example.Value())
	assert.Equal(t, "The user's name.", name.Description)

	var clean map[string]any
	require.NoError(t, json.Unmarshal([]byte(toJSON(t, data.CleanBodyParameters)), &clean))
	assert.Equal(t, "Ada", clean["name"])
	assert.Contains(t, clean, "address")
	assert.Contains(t, clean, "roles")

	field, _ := data.ResponseFields.Get("id")
	assert.Equal(t, "integer", field.Type)

	require.Len(t, data.Responses, 1)
	assert.Equal(t, NameCapturedResponses, data.Responses[0].Source)
}
