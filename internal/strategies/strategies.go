// Package strategies holds the producers of endpoint data. Each strategy reads
// one kind of source (validation rules, parameter tags, the URI, headers,
// responses) and contributes to one or more stages.
package strategies

import (
	"errors"
	"fmt"
	"sort"

	"paramdoc/internal/merger"
	"paramdoc/internal/model"
)

// Strategy names used in configuration
const (
	NameValidationRules   = "validation_rules"
	NameParamTags         = "param_tags"
	NameURLPlaceholders   = "url_placeholders"
	NameDefaultHeaders    = "default_headers"
	NameRouteHeaders      = "route_headers"
	NameResponseTags      = "response_tags"
	NameCapturedResponses = "captured_responses"
)

// ErrUnknownStrategy is returned for a strategy name that is not registered
var ErrUnknownStrategy = errors.New("unknown strategy")

// Options carries settings some strategies need
type Options struct {
	// Headers every route sends unless a route overrides them
	DefaultHeaders map[string]string
}

// DefaultPlanNames returns the strategy names run for each stage when
// configuration names none.
func DefaultPlanNames() map[model.Stage][]string {
	return map[model.Stage][]string{
		model.StageHeaders:         {NameDefaultHeaders, NameRouteHeaders},
		model.StageURLParameters:   {NameURLPlaceholders, NameValidationRules, NameParamTags},
		model.StageQueryParameters: {NameValidationRules, NameParamTags},
		model.StageBodyParameters:  {NameValidationRules, NameParamTags},
		model.StageResponses:       {NameResponseTags, NameCapturedResponses},
		model.StageResponseFields:  {NameParamTags},
	}
}

// New creates the strategy registered under name
func New(name string, opts Options) (merger.Strategy, error) {
	switch name {
	case NameValidationRules:
		return ValidationRules{}, nil
	case NameParamTags:
		return ParamTags{}, nil
	case NameURLPlaceholders:
		return URLPlaceholders{}, nil
	case NameDefaultHeaders:
		return DefaultHeaders{Headers: opts.DefaultHeaders}, nil
	case NameRouteHeaders:
		return RouteHeaders{}, nil
	case NameResponseTags:
		return ResponseTags{}, nil
	case NameCapturedResponses:
		return CapturedResponses{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// BuildPlan turns configured strategy names into a plan. Stages missing
// from names run no strategy.
func BuildPlan(names map[model.Stage][]string, opts Options) (merger.Plan, error) {
	plan := make(merger.Plan, len(names))
	for stage, list := range names {
		for _, name := range list {
			s, err := New(name, opts)
			if err != nil {
				return nil, fmt.Errorf("stage %s: %w", stage, err)
			}
			plan[stage] = append(plan[stage], s)
		}
	}
	return plan, nil
}

// supports reports whether stage is one of stages
func supports(stage model.Stage, stages ...model.Stage) bool {
	for _, s := range stages {
		if s == stage {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
