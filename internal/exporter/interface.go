package exporter

import (
	"paramdoc/internal/config"
	"paramdoc/internal/model"
)

// Exporter writes extracted endpoint data in one format
type Exporter interface {
	// Format is the name and file extension of the output
	Format() string
	Export(endpoints []*model.EndpointData, cfg *config.Config) error
}
