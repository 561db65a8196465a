package strategies

import (
	"paramdoc/internal/merger"
	"paramdoc/internal/model"
)

// DefaultHeaders contributes the configured headers to every route
type DefaultHeaders struct {
	Headers map[string]string
}

func (DefaultHeaders) Name() string { return NameDefaultHeaders }

func (s DefaultHeaders) Extract(ctx *merger.Context) (*model.StageData, error) {
	if ctx.Stage != model.StageHeaders || len(s.Headers) == 0 {
		return nil, nil
	}
	headers := model.NewHeaders()
	for _, k := range sortedKeys(s.Headers) {
		headers.Set(k, s.Headers[k])
	}
	return &model.StageData{Headers: headers}, nil
}

// RouteHeaders contributes the headers declared on the route
type RouteHeaders struct{}

func (RouteHeaders) Name() string { return NameRouteHeaders }

func (RouteHeaders) Extract(ctx *merger.Context) (*model.StageData, error) {
	if ctx.Stage != model.StageHeaders || ctx.Route.Headers == nil || ctx.Route.Headers.Len() == 0 {
		return nil, nil
	}
	headers := model.NewHeaders()
	for pair := ctx.Route.Headers.Oldest(); pair != nil; pair = pair.Next() {
		headers.Set(pair.Key, pair.Value)
	}
	return &model.StageData{Headers: headers}, nil
}
