package merger

import (
	"fmt"

	"paramdoc/internal/collapse"
	"paramdoc/internal/logger"
	"paramdoc/internal/model"
	"paramdoc/internal/normalizer"
	"paramdoc/internal/resolver"
	"paramdoc/internal/rules"
)

// Context is what a strategy sees while extracting one stage of a route
type Context struct {
	Route *model.Route
	Stage model.Stage

	// Data merged from the strategies declared earlier in the same stage.
	// Strategies may read it; changes to it are discarded.
	Sofar *model.StageData

	// Resolver shared by every strategy of the route
	Resolver *resolver.Resolver
}

// Strategy produces data for one or more stages of a route.
// Returning nil data means the strategy has nothing to contribute.
type Strategy interface {
	Name() string
	Extract(ctx *Context) (*model.StageData, error)
}

// Plan lists the strategies of each stage in declaration order
type Plan map[model.Stage][]Strategy

// Pipeline runs a plan over routes
type Pipeline struct {
	plan        Plan
	newResolver func() *resolver.Resolver
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithResolverFactory sets how the resolver of each route is built.
// The factory is called once per route.
func WithResolverFactory(factory func() *resolver.Resolver) Option {
	return func(p *Pipeline) { p.newResolver = factory }
}

// NewPipeline creates a pipeline for the given plan
func NewPipeline(plan Plan, opts ...Option) *Pipeline {
	p := &Pipeline{
		plan: plan,
		newResolver: func() *resolver.Resolver {
			return resolver.New(nil, rules.NewFaker(0))
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process extracts every stage of a route and derives the nested body tree
// and the collapsed examples. An error from any strategy aborts the route.
func (p *Pipeline) Process(route *model.Route) (*model.EndpointData, error) {
	res := p.newResolver()
	data := model.NewEndpointData(route)

	for _, stage := range model.Stages {
		merged, err := p.runStage(route, stage, res)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", stage, err)
		}
		if stage.IsParameterStage() {
			merged.Parameters = normalizer.Canonicalize(compact(merged.Parameters))
		}
		data.SetStage(stage, merged)
	}

	data.NestedBodyParameters = normalizer.Nest(data.BodyParameters)
	data.CleanURLParameters = collapse.Collapse(normalizer.Nest(data.URLParameters))
	data.CleanQueryParameters = collapse.Collapse(normalizer.Nest(data.QueryParameters))
	data.CleanBodyParameters = collapse.Collapse(data.NestedBodyParameters)
	return data, nil
}

func (p *Pipeline) runStage(route *model.Route, stage model.Stage, res *resolver.Resolver) (*model.StageData, error) {
	sofar := empty(stage)
	for _, s := range p.plan[stage] {
		ctx := &Context{
			Route:    route,
			Stage:    stage,
			Sofar:    clone(sofar),
			Resolver: res,
		}
		result, err := s.Extract(ctx)
		if err != nil {
			return nil, fmt.Errorf("strategy %s: %w", s.Name(), err)
		}
		if result == nil {
			logger.Debug("%s [%s] %s: no data", route.ID(), stage, s.Name())
			continue
		}
		mergeInto(stage, sofar, result)
	}
	return sofar, nil
}

// compact drops keys whose parameter is nil
func compact(params *model.Params) *model.Params {
	out := model.NewParams()
	for pair := params.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value != nil {
			out.Set(pair.Key, pair.Value)
		}
	}
	return out
}
