package exporter

import (
	"strings"
)

// GetExporters returns the exporters for the requested formats, once each.
// Unknown formats are ignored; config validation reports them.
func GetExporters(formats []string) []Exporter {
	exporters := []Exporter{}
	seen := make(map[string]bool)

	for _, fmtStr := range formats {
		var exp Exporter
		switch strings.ToLower(strings.TrimSpace(fmtStr)) {
		case "json":
			exp = NewJSONExporter()
		case "yaml", "yml":
			exp = NewYAMLExporter()
		default:
			continue
		}
		if seen[exp.Format()] {
			continue
		}
		seen[exp.Format()] = true
		exporters = append(exporters, exp)
	}
	return exporters
}
