// Package merger combines the stage data of independently run extraction
// strategies into one endpoint description.
package merger

import (
	"sort"

	"paramdoc/internal/model"
)

// Merge combines the results of a stage's strategies, given in declaration
// order. Responses are concatenated and sorted by status; every other stage
// is merged key by key, later strategies winning unless their value is empty.
// Nil results contribute nothing.
func Merge(stage model.Stage, results []*model.StageData) *model.StageData {
	merged := empty(stage)
	for _, r := range results {
		mergeInto(stage, merged, r)
	}
	return merged
}

func empty(stage model.Stage) *model.StageData {
	switch stage {
	case model.StageHeaders:
		return &model.StageData{Headers: model.NewHeaders()}
	case model.StageResponses:
		return &model.StageData{Responses: []model.Response{}}
	default:
		return &model.StageData{Parameters: model.NewParams()}
	}
}

// mergeInto folds one strategy result into the data merged so far.
func mergeInto(stage model.Stage, sofar, next *model.StageData) {
	if next == nil {
		return
	}

	switch stage {
	case model.StageResponses:
		sofar.Responses = append(sofar.Responses, next.Responses...)
		sort.SliceStable(sofar.Responses, func(i, j int) bool {
			return sofar.Responses[i].Status < sofar.Responses[j].Status
		})
	case model.StageHeaders:
		if next.Headers == nil {
			return
		}
		for pair := next.Headers.Oldest(); pair != nil; pair = pair.Next() {
			if prev, ok := sofar.Headers.Get(pair.Key); ok && prev != "" && pair.Value == "" {
				continue
			}
			sofar.Headers.Set(pair.Key, pair.Value)
		}
	default:
		if next.Parameters == nil {
			return
		}
		for pair := next.Parameters.Oldest(); pair != nil; pair = pair.Next() {
			if prev, ok := sofar.Parameters.Get(pair.Key); ok && prev != nil && pair.Value == nil {
				continue
			}
			sofar.Parameters.Set(pair.Key, pair.Value)
		}
	}
}

// clone copies the top level of merged data so a strategy cannot change
// what was merged before it.
func clone(data *model.StageData) *model.StageData {
	out := &model.StageData{}
	if data.Headers != nil {
		out.Headers = model.NewHeaders()
		for pair := data.Headers.Oldest(); pair != nil; pair = pair.Next() {
			out.Headers.Set(pair.Key, pair.Value)
		}
	}
	if data.Parameters != nil {
		out.Parameters = model.NewParams()
		for pair := data.Parameters.Oldest(); pair != nil; pair = pair.Next() {
			out.Parameters.Set(pair.Key, pair.Value.Clone())
		}
	}
	if data.Responses != nil {
		out.Responses = append([]model.Response{}, data.Responses...)
	}
	return out
}
