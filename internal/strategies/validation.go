package strategies

import (
	"fmt"

	"paramdoc/internal/merger"
	"paramdoc/internal/model"
	"paramdoc/internal/normalizer"
)

// ValidationRules resolves the route's validation rulesets into parameters.
type ValidationRules struct{}

func (ValidationRules) Name() string { return NameValidationRules }

func (ValidationRules) Extract(ctx *merger.Context) (*model.StageData, error) {
	if !supports(ctx.Stage, model.StageURLParameters, model.StageQueryParameters, model.StageBodyParameters) {
		return nil, nil
	}
	rulesets := ctx.Route.Rules[ctx.Stage]
	if rulesets == nil || rulesets.Len() == 0 {
		return nil, nil
	}

	params, err := ctx.Resolver.ResolveAll(rulesets, ctx.Route.Custom[ctx.Stage])
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", ctx.Stage, err)
	}
	return &model.StageData{Parameters: normalizer.Canonicalize(params)}, nil
}
