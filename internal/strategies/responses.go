package strategies

import (
	"paramdoc/internal/merger"
	"paramdoc/internal/model"
)

// ResponseTags contributes the responses declared in annotations
type ResponseTags struct{}

func (ResponseTags) Name() string { return NameResponseTags }

func (ResponseTags) Extract(ctx *merger.Context) (*model.StageData, error) {
	if ctx.Stage != model.StageResponses {
		return nil, nil
	}
	return responses(ctx.Route.ResponseTags, NameResponseTags), nil
}

// CapturedResponses contributes the responses recorded by replaying the route
type CapturedResponses struct{}

func (CapturedResponses) Name() string { return NameCapturedResponses }

func (CapturedResponses) Extract(ctx *merger.Context) (*model.StageData, error) {
	if ctx.Stage != model.StageResponses {
		return nil, nil
	}
	return responses(ctx.Route.Captured, NameCapturedResponses), nil
}

func responses(list []model.Response, source string) *model.StageData {
	if len(list) == 0 {
		return nil
	}
	out := make([]model.Response, len(list))
	for i, r := range list {
		if r.Source == "" {
			r.Source = source
		}
		out[i] = r
	}
	return &model.StageData{Responses: out}
}
