package strategies

import (
	"regexp"
	"strings"

	"paramdoc/internal/merger"
	"paramdoc/internal/model"
)

// "{id}", "{slug?}"
var placeholderRegex = regexp.MustCompile(`\{(\w+)(\?)?\}`)

// URLPlaceholders documents the placeholders of the route URI.
// Optional placeholders ("{page?}") are not required; id-like names are
// integers described after the resource they identify.
type URLPlaceholders struct{}

func (URLPlaceholders) Name() string { return NameURLPlaceholders }

func (URLPlaceholders) Extract(ctx *merger.Context) (*model.StageData, error) {
	if ctx.Stage != model.StageURLParameters {
		return nil, nil
	}
	matches := placeholderRegex.FindAllStringSubmatchIndex(ctx.Route.URI, -1)
	if len(matches) == 0 {
		return nil, nil
	}

	values := ctx.Resolver.Generators()
	params := model.NewParams()
	for _, m := range matches {
		name := ctx.Route.URI[m[2]:m[3]]
		optional := m[4] >= 0

		p := model.NewParameter(name, model.TypeString)
		p.Required = !optional
		if isIDName(name) {
			p.Type = model.TypeInteger
			p.Example = model.ValueOf(values.Integer())
			if resource := resourceBefore(ctx.Route.URI[:m[0]], name); resource != "" {
				p.Description = "The ID of the " + resource + "."
			}
		} else {
			p.Example = model.ValueOf(values.String(name))
		}
		if optional {
			p.Description = strings.TrimSpace(p.Description + " Optional.")
		}
		params.Set(name, p)
	}
	return &model.StageData{Parameters: params}, nil
}

func isIDName(name string) bool {
	lower := strings.ToLower(name)
	return lower == "id" || strings.HasSuffix(lower, "_id") || strings.HasSuffix(name, "Id")
}

// resourceBefore names the resource an id placeholder refers to: the
// placeholder prefix ("user_id" -> "user") or the preceding path segment
// in singular ("/users/{id}" -> "user").
func resourceBefore(prefix, name string) string {
	lower := strings.ToLower(name)
	if lower != "id" {
		r := strings.TrimSuffix(strings.TrimSuffix(lower, "_id"), "id")
		return strings.ReplaceAll(r, "_", " ")
	}

	segments := strings.Split(strings.Trim(prefix, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		seg := segments[i]
		if seg == "" || strings.HasPrefix(seg, "{") {
			continue
		}
		return singular(strings.ReplaceAll(seg, "-", " "))
	}
	return ""
}

func singular(word string) string {
	switch {
	case strings.HasSuffix(word, "ies"):
		return strings.TrimSuffix(word, "ies") + "y"
	case strings.HasSuffix(word, "ss"):
		return word
	case strings.HasSuffix(word, "s"):
		return strings.TrimSuffix(word, "s")
	}
	return word
}
