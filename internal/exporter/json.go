package exporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"paramdoc/internal/config"
	"paramdoc/internal/model"
)

// JSONExporter writes endpoint data as indented JSON
type JSONExporter struct{}

func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

func (e *JSONExporter) Format() string { return "json" }

func (e *JSONExporter) Export(endpoints []*model.EndpointData, cfg *config.Config) error {
	data, err := encodeJSON(endpoints)
	if err != nil {
		return err
	}
	return writeOutput(cfg.GetOutputPath(e.Format()), data)
}

// encodeJSON keeps markup in descriptions ("<code>id</code>") readable
func encodeJSON(endpoints []*model.EndpointData) ([]byte, error) {
	if endpoints == nil {
		endpoints = []*model.EndpointData{}
	}
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(endpoints); err != nil {
		return nil, fmt.Errorf("failed to encode endpoints: %w", err)
	}
	return unescapeHTML(buf.Bytes()), nil
}

var htmlEscapes = map[string]byte{
	"u003c": '<',
	"u003e": '>',
	"u0026": '&',
}

// unescapeHTML undoes the \u003c style escapes that ordered maps leave
// behind: they encode their values with json.Marshal, which escapes HTML
// regardless of the outer encoder's setting. Escaped backslashes are
// copied through untouched.
func unescapeHTML(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' || i+1 >= len(data) {
			out = append(out, data[i])
			continue
		}
		if i+6 <= len(data) {
			if c, ok := htmlEscapes[string(data[i+1:i+6])]; ok {
				out = append(out, c)
				i += 5
				continue
			}
		}
		out = append(out, data[i], data[i+1])
		i++
	}
	return out
}

func writeOutput(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
