package exporter

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"paramdoc/internal/config"
	"paramdoc/internal/model"
)

// YAMLExporter writes endpoint data as YAML. The document is built from the
// JSON encoding so both outputs share field names and key order.
type YAMLExporter struct{}

func NewYAMLExporter() *YAMLExporter {
	return &YAMLExporter{}
}

func (e *YAMLExporter) Format() string { return "yaml" }

func (e *YAMLExporter) Export(endpoints []*model.EndpointData, cfg *config.Config) error {
	data, err := encodeYAML(endpoints)
	if err != nil {
		return err
	}
	return writeOutput(cfg.GetOutputPath(e.Format()), data)
}

func encodeYAML(endpoints []*model.EndpointData) ([]byte, error) {
	raw, err := encodeJSON(endpoints)
	if err != nil {
		return nil, err
	}

	// JSON is YAML; decoding into a node keeps the key order
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to convert endpoints to YAML: %w", err)
	}
	plainStyle(&doc)

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return nil, fmt.Errorf("failed to encode endpoints: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// plainStyle drops the flow and quoting styles inherited from JSON
func plainStyle(n *yaml.Node) {
	n.Style &^= yaml.FlowStyle | yaml.DoubleQuotedStyle
	for _, c := range n.Content {
		plainStyle(c)
	}
}
