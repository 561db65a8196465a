package analyzer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"

	"paramdoc/internal/model"
	"paramdoc/internal/rules"
)

// YAMLParser reads route definition files of the form
//
//	routes:
//	  - method: POST
//	    uri: /users/{id}
//	    rules:
//	      body:
//	        name: string|required
//	        roles: [array, "in:admin,editor"]
//	    custom:
//	      body:
//	        name: {description: The user's name, example: Ada}
//	    tags:
//	      query:
//	        - {name: page, type: int, example: 2}
//	    responses:
//	      - {status: 200, content: {id: 1}}
//
// Mappings keep their order, so parameters are documented in the order
// they are declared.
type YAMLParser struct{}

type definitionFile struct {
	Routes []yaml.Node `yaml:"routes"`
}

type routeDoc struct {
	Method    string               `yaml:"method"`
	URI       string               `yaml:"uri"`
	Name      string               `yaml:"name"`
	Headers   yaml.Node            `yaml:"headers"`
	Rules     map[string]yaml.Node `yaml:"rules"`
	Custom    map[string]yaml.Node `yaml:"custom"`
	Tags      map[string]yaml.Node `yaml:"tags"`
	Responses []yaml.Node          `yaml:"responses"`
	Captured  []yaml.Node          `yaml:"captured"`
}

type responseDoc struct {
	Status      int       `yaml:"status"`
	Description string    `yaml:"description"`
	Content     yaml.Node `yaml:"content"`
	Headers     yaml.Node `yaml:"headers"`
}

type ruleObjectDoc struct {
	Class       string    `yaml:"class"`
	Description string    `yaml:"description"`
	Type        string    `yaml:"type"`
	Example     yaml.Node `yaml:"example"`
}

// CanParse checks if this parser can handle the given file
func (YAMLParser) CanParse(filePath string) bool {
	return IsRouteFile(filePath)
}

// Parse extracts the routes of one definition file
func (YAMLParser) Parse(filePath, content string) ([]*model.Route, error) {
	var file definitionFile
	if err := yaml.Unmarshal([]byte(content), &file); err != nil {
		return nil, &DefinitionError{Path: filePath, Cause: err}
	}

	var routes []*model.Route
	var errs []error
	for i := range file.Routes {
		route, err := parseRoute(&file.Routes[i])
		if err != nil {
			id := "#" + strconv.Itoa(i+1)
			if route != nil {
				id = route.ID()
			}
			errs = append(errs, &DefinitionError{Path: filePath, Route: id, Cause: err})
			continue
		}
		route.Source = filePath
		routes = append(routes, route)
	}
	return routes, errors.Join(errs...)
}

func parseRoute(node *yaml.Node) (*model.Route, error) {
	var doc routeDoc
	if err := node.Decode(&doc); err != nil {
		return nil, err
	}

	method := strings.ToUpper(strings.TrimSpace(doc.Method))
	uri := strings.TrimSpace(doc.URI)
	if method == "" || uri == "" {
		return nil, errors.New("method and uri are required")
	}
	route := model.NewRoute(method, uri)
	route.Name = doc.Name

	headers, err := parseHeaders(&doc.Headers)
	if err != nil {
		return route, fmt.Errorf("headers: %w", err)
	}
	route.Headers = headers

	for key, n := range doc.Rules {
		stage, err := inputStage(key)
		if err != nil {
			return route, fmt.Errorf("rules: %w", err)
		}
		rulesets, err := parseRulesets(&n)
		if err != nil {
			return route, fmt.Errorf("rules.%s: %w", key, err)
		}
		route.Rules[stage] = rulesets
	}

	for key, n := range doc.Custom {
		stage, err := inputStage(key)
		if err != nil {
			return route, fmt.Errorf("custom: %w", err)
		}
		custom, err := parseCustom(&n)
		if err != nil {
			return route, fmt.Errorf("custom.%s: %w", key, err)
		}
		route.Custom[stage] = custom
	}

	for key, n := range doc.Tags {
		stage, ok := model.ParseStage(key)
		if !ok || !stage.IsParameterStage() {
			return route, fmt.Errorf("tags: unknown stage %q", key)
		}
		tags, err := parseTags(&n)
		if err != nil {
			return route, fmt.Errorf("tags.%s: %w", key, err)
		}
		route.Tags[stage] = tags
	}

	if route.ResponseTags, err = parseResponses(doc.Responses); err != nil {
		return route, fmt.Errorf("responses: %w", err)
	}
	if route.Captured, err = parseResponses(doc.Captured); err != nil {
		return route, fmt.Errorf("captured: %w", err)
	}
	return route, nil
}

// inputStage accepts the stages that carry request input
func inputStage(key string) (model.Stage, error) {
	stage, ok := model.ParseStage(key)
	if !ok || !stage.IsParameterStage() || stage == model.StageResponseFields {
		return "", fmt.Errorf("unknown stage %q", key)
	}
	return stage, nil
}

// pairs returns the key and value nodes of a mapping. An absent node has
// no pairs.
func pairs(n *yaml.Node) ([][2]*yaml.Node, error) {
	n = resolve(n)
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil, nil
		}
	case yaml.MappingNode:
		out := make([][2]*yaml.Node, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			out = append(out, [2]*yaml.Node{n.Content[i], n.Content[i+1]})
		}
		return out, nil
	}
	return nil, fmt.Errorf("line %d: expected a mapping", n.Line)
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// nodeValue converts a node into plain values. Mappings become ordered
// objects so examples keep their key order.
func nodeValue(n *yaml.Node) (any, error) {
	n = resolve(n)
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.MappingNode:
		obj := model.NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := nodeValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj.Set(n.Content[i].Value, v)
		}
		return obj, nil
	case yaml.SequenceNode:
		list := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := nodeValue(item)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

func parseHeaders(n *yaml.Node) (*model.Headers, error) {
	kv, err := pairs(n)
	if err != nil {
		return nil, err
	}
	headers := model.NewHeaders()
	for _, p := range kv {
		headers.Set(p[0].Value, resolve(p[1]).Value)
	}
	return headers, nil
}

func parseRulesets(n *yaml.Node) (*orderedmap.OrderedMap[string, any], error) {
	kv, err := pairs(n)
	if err != nil {
		return nil, err
	}
	out := orderedmap.New[string, any]()
	for _, p := range kv {
		ruleset, err := parseRuleset(p[1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p[0].Value, err)
		}
		out.Set(p[0].Value, ruleset)
	}
	return out, nil
}

// parseRuleset keeps the raw shape of a ruleset: a "|" string, a list of
// rules, or a single rule object. Scalars of other kinds are passed through
// so the resolver can reject them.
func parseRuleset(n *yaml.Node) (any, error) {
	n = resolve(n)
	switch n.Kind {
	case yaml.SequenceNode:
		list := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			item = resolve(item)
			if item.Kind == yaml.MappingNode {
				obj, err := parseRuleObject(item)
				if err != nil {
					return nil, err
				}
				list = append(list, obj)
				continue
			}
			v, err := nodeValue(item)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case yaml.MappingNode:
		return parseRuleObject(n)
	default:
		return nodeValue(n)
	}
}

func parseRuleObject(n *yaml.Node) (any, error) {
	var doc ruleObjectDoc
	if err := n.Decode(&doc); err != nil {
		return nil, err
	}
	if doc.Class == "" {
		return nil, fmt.Errorf("line %d: rule object without class", n.Line)
	}
	if doc.Description == "" && doc.Type == "" && doc.Example.Kind == 0 {
		return rules.Named(doc.Class), nil
	}

	docs := rules.Docs{Description: doc.Description, Type: doc.Type}
	if doc.Example.Kind != 0 {
		v, err := nodeValue(&doc.Example)
		if err != nil {
			return nil, err
		}
		docs.Example = v
		docs.HasExample = true
	}
	return rules.DocumentedRule{Class: doc.Class, Documentation: docs}, nil
}

// exampleOf returns the example declared under key "example", telling an
// explicit null from an absent key.
func exampleOf(kv [][2]*yaml.Node) (model.Example, error) {
	for _, p := range kv {
		if p[0].Value != "example" {
			continue
		}
		v, err := nodeValue(p[1])
		if err != nil {
			return model.Missing(), err
		}
		if v == nil {
			return model.Null(), nil
		}
		return model.ValueOf(v), nil
	}
	return model.Missing(), nil
}

func parseCustom(n *yaml.Node) (map[string]model.CustomData, error) {
	kv, err := pairs(n)
	if err != nil {
		return nil, err
	}
	out := make(map[string]model.CustomData, len(kv))
	for _, p := range kv {
		fields, err := pairs(p[1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p[0].Value, err)
		}
		var data model.CustomData
		for _, f := range fields {
			if f[0].Value == "description" {
				data.Description = resolve(f[1]).Value
			}
		}
		if data.Example, err = exampleOf(fields); err != nil {
			return nil, fmt.Errorf("%s: %w", p[0].Value, err)
		}
		out[p[0].Value] = data
	}
	return out, nil
}

func parseTags(n *yaml.Node) ([]model.ParamTag, error) {
	n = resolve(n)
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: expected a list of tags", n.Line)
	}

	tags := make([]model.ParamTag, 0, len(n.Content))
	for _, item := range n.Content {
		fields, err := pairs(item)
		if err != nil {
			return nil, err
		}

		raw := make(map[string]any, len(fields))
		for _, f := range fields {
			if f[0].Value == "example" {
				continue
			}
			if raw[f[0].Value], err = nodeValue(f[1]); err != nil {
				return nil, err
			}
		}

		var tag model.ParamTag
		if err := decodeTag(raw, &tag); err != nil {
			return nil, fmt.Errorf("line %d: %w", item.Line, err)
		}
		if tag.Name == "" {
			return nil, fmt.Errorf("line %d: tag without name", item.Line)
		}
		if tag.Example, err = exampleOf(fields); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// decodeTag fills a tag from loosely typed input ("required: 'true'").
// Unknown keys are rejected.
func decodeTag(raw map[string]any, tag *model.ParamTag) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           tag,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

func parseResponses(nodes []yaml.Node) ([]model.Response, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	out := make([]model.Response, 0, len(nodes))
	for i := range nodes {
		var doc responseDoc
		if err := nodes[i].Decode(&doc); err != nil {
			return nil, err
		}
		if doc.Status == 0 {
			doc.Status = 200
		}

		content, err := responseContent(&doc.Content)
		if err != nil {
			return nil, err
		}
		resp := model.Response{Status: doc.Status, Content: content, Description: doc.Description}
		if doc.Headers.Kind != 0 {
			if resp.Headers, err = parseHeaders(&doc.Headers); err != nil {
				return nil, err
			}
		}
		out = append(out, resp)
	}
	return out, nil
}

// responseContent keeps scalar bodies verbatim and encodes structured ones
// as JSON.
func responseContent(n *yaml.Node) (string, error) {
	n = resolve(n)
	switch n.Kind {
	case 0:
		return "", nil
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return "", nil
		}
		return n.Value, nil
	}
	v, err := nodeValue(n)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
