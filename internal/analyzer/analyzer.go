// Package analyzer loads route definitions: the raw sources of truth
// (validation rules, parameter tags, custom overrides, responses) recorded
// for each route of an application.
package analyzer

import (
	"fmt"

	"paramdoc/internal/logger"
	"paramdoc/internal/model"
)

// Parser reads route definitions from one kind of file
type Parser interface {
	// CanParse checks if this parser can handle the given file
	CanParse(filePath string) bool

	// Parse extracts routes from the file content. Routes that could not be
	// read are reported in the error; the others are still returned.
	Parse(filePath, content string) ([]*model.Route, error)
}

// Config holds configuration for the loader
type Config struct {
	// Dir is the root directory holding route definition files
	Dir string

	// ExcludePatterns are glob patterns for directories to skip
	ExcludePatterns []string

	// EncodingHints lists the encodings tried for files that are not UTF-8
	// (e.g., "euc-kr", "windows-1252")
	EncodingHints []string
}

// DefaultConfig returns the default loader configuration
func DefaultConfig(dir string) *Config {
	return &Config{
		Dir: dir,
		ExcludePatterns: []string{
			"**/vendor/**",
			"**/node_modules/**",
		},
		EncodingHints: DefaultEncodingHints,
	}
}

// Result is the outcome of loading a directory
type Result struct {
	Routes []*model.Route

	// Problems holds one error per file or route that was skipped
	Problems []error

	// Files is the number of definition files found
	Files int
}

// Loader reads every route definition file below a directory
type Loader struct {
	cfg     *Config
	parsers []Parser
}

// NewLoader creates a loader reading YAML route definitions
func NewLoader(cfg *Config) *Loader {
	return &Loader{cfg: cfg, parsers: []Parser{YAMLParser{}}}
}

// Load scans the directory and parses every definition file.
// Only a failure to scan the directory is returned as an error; malformed
// files and routes are reported in Result.Problems.
func (l *Loader) Load() (*Result, error) {
	files, err := ScanDirectory(l.cfg.Dir, l.cfg.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to load routes from %s: %w", l.cfg.Dir, err)
	}

	result := &Result{Files: len(files)}
	for _, file := range files {
		routes, err := l.LoadFile(file)
		if err != nil {
			logger.Warn("Problems in %s: %v", file, err)
			result.Problems = append(result.Problems, err)
		}
		result.Routes = append(result.Routes, routes...)
	}
	logger.Info("Loaded %d routes from %d files", len(result.Routes), len(files))
	return result, nil
}

// LoadFile parses a single definition file
func (l *Loader) LoadFile(path string) ([]*model.Route, error) {
	for _, p := range l.parsers {
		if !p.CanParse(path) {
			continue
		}
		content, err := ReadFile(path, l.cfg.EncodingHints)
		if err != nil {
			return nil, &DefinitionError{Path: path, Cause: err}
		}
		return p.Parse(path, content)
	}
	return nil, &DefinitionError{Path: path, Cause: fmt.Errorf("no parser for file")}
}
