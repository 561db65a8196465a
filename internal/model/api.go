package model

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Stage identifies one kind of endpoint data gathered by extraction strategies
type Stage string

const (
	StageHeaders         Stage = "headers"
	StageURLParameters   Stage = "urlParameters"
	StageQueryParameters Stage = "queryParameters"
	StageBodyParameters  Stage = "bodyParameters"
	StageResponses       Stage = "responses"
	StageResponseFields  Stage = "responseFields"
)

// Stages lists every stage in extraction order
var Stages = []Stage{
	StageHeaders,
	StageURLParameters,
	StageQueryParameters,
	StageBodyParameters,
	StageResponses,
	StageResponseFields,
}

// IsParameterStage reports whether the stage produces parameters
func (s Stage) IsParameterStage() bool {
	switch s {
	case StageURLParameters, StageQueryParameters, StageBodyParameters, StageResponseFields:
		return true
	}
	return false
}

var stageAliases = map[string]Stage{
	"headers":         StageHeaders,
	"url":             StageURLParameters,
	"urlparameters":   StageURLParameters,
	"query":           StageQueryParameters,
	"queryparameters": StageQueryParameters,
	"body":            StageBodyParameters,
	"bodyparameters":  StageBodyParameters,
	"responses":       StageResponses,
	"response_fields": StageResponseFields,
	"responsefields":  StageResponseFields,
}

// ParseStage maps a stage name or its short form ("url", "query", "body",
// "response_fields") to a Stage. Case is ignored.
func ParseStage(name string) (Stage, bool) {
	stage, ok := stageAliases[strings.ToLower(strings.TrimSpace(name))]
	return stage, ok
}

// Headers is an insertion-ordered header set
type Headers = orderedmap.OrderedMap[string, string]

// NewHeaders creates an empty header set
func NewHeaders() *Headers {
	return orderedmap.New[string, string]()
}

// Route describes one application route and every raw source of truth
// known about it
type Route struct {
	// HTTP method (GET, POST, PUT, DELETE, etc.)
	Method string

	// URI template (e.g., "/api/users/{id}")
	URI string

	// Optional route name
	Name string

	// File the route definition was loaded from
	Source string

	// Headers declared on the route
	Headers *Headers

	// Validation rulesets per stage: parameter name -> raw ruleset
	// (a "|" separated string or a list of rules)
	Rules map[Stage]*orderedmap.OrderedMap[string, any]

	// Docblock/attribute overrides per stage: parameter name -> custom data
	Custom map[Stage]map[string]CustomData

	// Parameter tags per stage from docblocks/attributes
	Tags map[Stage][]ParamTag

	// Responses declared in annotations
	ResponseTags []Response

	// Responses captured by replaying the route
	Captured []Response
}

// NewRoute creates a route with initialized stage maps
func NewRoute(method, uri string) *Route {
	return &Route{
		Method:  method,
		URI:     uri,
		Headers: NewHeaders(),
		Rules:   make(map[Stage]*orderedmap.OrderedMap[string, any]),
		Custom:  make(map[Stage]map[string]CustomData),
		Tags:    make(map[Stage][]ParamTag),
	}
}

// ID returns a readable identifier for logs
func (r *Route) ID() string {
	if r.Name != "" {
		return r.Method + " " + r.URI + " (" + r.Name + ")"
	}
	return r.Method + " " + r.URI
}

// CustomData is a caller-supplied override for a validated parameter
type CustomData struct {
	Description string
	Example     Example
}

// ParamTag is a raw parameter tuple produced by a docblock or attribute parser
type ParamTag struct {
	Name        string  `mapstructure:"name"`
	Type        string  `mapstructure:"type"`
	Description string  `mapstructure:"description"`
	Required    bool    `mapstructure:"required"`
	NoExample   bool    `mapstructure:"no_example"`
	Example     Example `mapstructure:"-"`
}

// Response is one example response for a route
type Response struct {
	// HTTP status code
	Status int `json:"status"`

	// Response headers
	Headers *Headers `json:"headers,omitempty"`

	// Raw response body
	Content string `json:"content"`

	// Response description
	Description string `json:"description,omitempty"`

	// Name of the strategy that produced the response
	Source string `json:"source,omitempty"`
}

// StageData is what a strategy contributes to one stage.
// Parameter stages use Parameters, the headers stage uses Headers and the
// responses stage uses Responses.
type StageData struct {
	Headers    *Headers
	Parameters *Params
	Responses  []Response
}

// EndpointData is the merged, normalized documentation data for a route
type EndpointData struct {
	Method string `json:"method"`
	URI    string `json:"uri"`
	Name   string `json:"name,omitempty"`

	Headers         *Headers `json:"headers"`
	URLParameters   *Params  `json:"urlParameters"`
	QueryParameters *Params  `json:"queryParameters"`
	BodyParameters  *Params  `json:"bodyParameters"`

	// Body parameters nested into a tree
	NestedBodyParameters *Params `json:"nestedBodyParameters"`

	// Collapsed example values, ready for JSON encoding
	CleanURLParameters   any `json:"cleanUrlParameters"`
	CleanQueryParameters any `json:"cleanQueryParameters"`
	CleanBodyParameters  any `json:"cleanBodyParameters"`

	Responses      []Response `json:"responses"`
	ResponseFields *Params    `json:"responseFields"`
}

// NewEndpointData creates empty endpoint data for a route
func NewEndpointData(route *Route) *EndpointData {
	return &EndpointData{
		Method:               route.Method,
		URI:                  route.URI,
		Name:                 route.Name,
		Headers:              NewHeaders(),
		URLParameters:        NewParams(),
		QueryParameters:      NewParams(),
		BodyParameters:       NewParams(),
		NestedBodyParameters: NewParams(),
		Responses:            make([]Response, 0),
		ResponseFields:       NewParams(),
	}
}

// SetStage stores merged stage data on the endpoint
func (e *EndpointData) SetStage(stage Stage, data *StageData) {
	if data == nil {
		return
	}
	switch stage {
	case StageHeaders:
		if data.Headers != nil {
			e.Headers = data.Headers
		}
	case StageURLParameters:
		if data.Parameters != nil {
			e.URLParameters = data.Parameters
		}
	case StageQueryParameters:
		if data.Parameters != nil {
			e.QueryParameters = data.Parameters
		}
	case StageBodyParameters:
		if data.Parameters != nil {
			e.BodyParameters = data.Parameters
		}
	case StageResponses:
		if data.Responses != nil {
			e.Responses = data.Responses
		}
	case StageResponseFields:
		if data.Parameters != nil {
			e.ResponseFields = data.Parameters
		}
	}
}
