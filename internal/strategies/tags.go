package strategies

import (
	"strings"

	"paramdoc/internal/merger"
	"paramdoc/internal/model"
	"paramdoc/internal/resolver"
)

// ParamTags turns docblock and attribute parameter tags into parameters.
// A tag without an example gets a generated one unless it is marked
// no_example. Type, description and example fall back to what earlier
// strategies found for the same name.
type ParamTags struct{}

func (ParamTags) Name() string { return NameParamTags }

func (ParamTags) Extract(ctx *merger.Context) (*model.StageData, error) {
	tags := ctx.Route.Tags[ctx.Stage]
	if len(tags) == 0 || !ctx.Stage.IsParameterStage() {
		return nil, nil
	}

	values := ctx.Resolver.Generators()
	params := model.NewParams()
	for _, tag := range tags {
		if tag.Name == "" {
			continue
		}
		var prev *model.Parameter
		if ctx.Sofar != nil && ctx.Sofar.Parameters != nil {
			prev, _ = ctx.Sofar.Parameters.Get(tag.Name)
		}

		typ := NormalizeType(tag.Type)
		if typ == "" {
			typ = model.TypeString
			if prev != nil {
				typ = prev.Type
			}
		}

		p := model.NewParameter(tag.Name, typ)
		p.Required = tag.Required
		p.Description = strings.TrimSpace(tag.Description)
		if p.Description == "" && prev != nil {
			p.Description = prev.Description
		}

		switch {
		case !tag.Example.IsMissing():
			p.Example = tag.Example
			p.ExampleSpecified = true
		case tag.NoExample:
		case prev != nil && prev.Example.HasValue():
			p.Example = prev.Example
			p.ExampleSpecified = prev.ExampleSpecified
		default:
			p.Example = model.ValueOf(values.Dummy(typ, tag.Name))
		}

		if p.Example.HasValue() {
			if v, err := resolver.CastExample(p.Example.Value(), typ); err == nil {
				p.Example = model.ValueOf(v)
			}
		}
		params.Set(tag.Name, p)
	}
	return &model.StageData{Parameters: params}, nil
}

var typeAliases = map[string]string{
	"int":     model.TypeInteger,
	"integer": model.TypeInteger,
	"float":   model.TypeNumber,
	"double":  model.TypeNumber,
	"number":  model.TypeNumber,
	"numeric": model.TypeNumber,
	"bool":    model.TypeBoolean,
	"boolean": model.TypeBoolean,
	"str":     model.TypeString,
	"string":  model.TypeString,
	"object":  model.TypeObject,
	"array":   model.TypeArray,
	"file":    model.TypeFile,
}

// NormalizeType maps the loose type names found in tags ("int", "bool",
// "float[]") to parameter types. Unknown names become "string"; an empty
// name stays empty.
func NormalizeType(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return ""
	}
	depth := 0
	for strings.HasSuffix(raw, "[]") {
		raw = strings.TrimSuffix(raw, "[]")
		depth++
	}
	base, ok := typeAliases[raw]
	if !ok {
		base = model.TypeString
	}
	return model.WithArrayDepth(base, depth)
}
