package resolver

import (
	"errors"
	"strings"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"paramdoc/internal/logger"
	"paramdoc/internal/model"
	"paramdoc/internal/rules"
)

// Rulesets maps parameter names to raw rulesets, in declaration order.
type Rulesets = orderedmap.OrderedMap[string, any]

// NewRulesets creates an empty ordered ruleset map.
func NewRulesets() *Rulesets {
	return orderedmap.New[string, any]()
}

// Resolver turns validation rulesets into parameter descriptors.
//
// Resolution is two-phase: rules that do not depend on the parameter's type
// run first for every parameter, then the type defaults to string, then the
// type-dependent rules (min, max, size, after, ...) run.
type Resolver struct {
	catalog      *rules.Catalog
	values       *rules.Generators
	castExamples bool
	trace        func(param, rule string)
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCastExamples controls whether examples are converted to the resolved type.
func WithCastExamples(enabled bool) Option {
	return func(r *Resolver) { r.castExamples = enabled }
}

// WithNow anchors generated dates.
func WithNow(now time.Time) Option {
	return func(r *Resolver) { r.values.Now = now }
}

// WithTracer receives rules that were ignored.
func WithTracer(trace func(param, rule string)) Option {
	return func(r *Resolver) { r.trace = trace }
}

// New creates a resolver drawing examples from faker. A nil catalog
// uses the built-in messages.
func New(catalog *rules.Catalog, faker rules.Faker, opts ...Option) *Resolver {
	if catalog == nil {
		catalog = rules.DefaultCatalog()
	}
	r := &Resolver{
		catalog:      catalog,
		values:       rules.NewGenerators(faker, time.Time{}),
		castExamples: true,
		trace:        logger.RuleIgnored,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Generators exposes the example generators the resolver uses.
func (r *Resolver) Generators() *rules.Generators {
	return r.values
}

type pending struct {
	state    *rules.State
	deferred []deferredRule
}

type deferredRule struct {
	entry rules.Entry
	args  []string
}

// Resolve resolves one parameter on its own.
func (r *Resolver) Resolve(name string, ruleset any, custom model.CustomData) (*model.Parameter, error) {
	rulesets := NewRulesets()
	rulesets.Set(name, ruleset)
	params, err := r.ResolveAll(rulesets, map[string]model.CustomData{name: custom})
	if err != nil {
		return nil, err
	}
	p, _ := params.Get(name)
	return p, nil
}

// ResolveAll resolves every parameter of a ruleset map. Cross-field rules
// see every declared parameter name. A ruleset that is not iterable aborts
// the whole call with a *rules.RulesetError.
func (r *Resolver) ResolveAll(rulesets *Rulesets, custom map[string]model.CustomData) (*model.Params, error) {
	ctx := rules.Context{
		Catalog: r.catalog,
		Values:  r.values,
		HasField: func(name string) bool {
			_, ok := rulesets.Get(name)
			return ok
		},
	}

	var work []*pending
	for pair := rulesets.Oldest(); pair != nil; pair = pair.Next() {
		list, err := rules.SplitRuleset(pair.Value)
		if err != nil {
			var rerr *rules.RulesetError
			if errors.As(err, &rerr) {
				rerr.Parameter = pair.Key
			}
			return nil, err
		}

		p := &pending{state: &rules.State{
			Name:        pair.Key,
			Description: withPeriod(custom[pair.Key].Description),
		}}
		for _, rule := range list {
			r.applyIndependent(p, rule, ctx)
		}
		work = append(work, p)
	}

	params := model.NewParams()
	for _, p := range work {
		if p.state.Type == "" {
			p.state.Type = model.TypeString
		}
		for _, d := range p.deferred {
			d.entry.Apply(p.state, d.args, ctx)
		}
		params.Set(p.state.Name, r.finalize(p.state, custom[p.state.Name]))
	}
	return params, nil
}

func (r *Resolver) applyIndependent(p *pending, rule any, ctx rules.Context) {
	if docs, ok := rule.(rules.Documented); ok {
		rules.ApplyDocs(p.state, docs.Docs())
		return
	}

	name, args := rules.Parse(rule)
	entry, ok := rules.Lookup(name)
	if !ok {
		if r.trace != nil {
			r.trace(p.state.Name, name)
		}
		return
	}
	if !entry.Independent {
		p.deferred = append(p.deferred, deferredRule{entry: entry, args: args})
		return
	}
	entry.Apply(p.state, args, ctx)
}

func (r *Resolver) finalize(s *rules.State, custom model.CustomData) *model.Parameter {
	param := &model.Parameter{
		Name:     s.Name,
		Type:     s.Type,
		Required: s.Required,
		Nullable: s.Nullable,
		Enum:     r.castEnum(s.Enum, s.Type),
	}

	switch {
	case !custom.Example.IsMissing():
		param.Example = custom.Example
		param.ExampleSpecified = true
	case s.Generator != nil:
		param.Example = model.ValueOf(s.Generator())
	}

	if param.Required && param.Example.IsMissing() {
		param.Example = model.ValueOf(r.values.Dummy(param.Type, param.Name))
	}

	if r.castExamples && param.Example.HasValue() {
		if v, err := CastExample(param.Example.Value(), param.Type); err == nil {
			param.Example = model.ValueOf(v)
		}
	}

	param.Description = withPeriod(collapseSpaces(s.Description))
	return param
}

func (r *Resolver) castEnum(values []any, typ string) []any {
	if !r.castExamples || len(values) == 0 {
		return values
	}
	out := make([]any, len(values))
	for i, v := range values {
		if casted, err := CastExample(v, typ); err == nil {
			out[i] = casted
		} else {
			out[i] = v
		}
	}
	return out
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func withPeriod(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasSuffix(s, ".") {
		return s
	}
	return s + "."
}
