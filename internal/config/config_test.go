package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paramdoc/internal/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "paramdoc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Empty(t, cfg.File)
	assert.True(t, filepath.IsAbs(cfg.Input.Dir))
	assert.Equal(t, "routes", filepath.Base(cfg.Input.Dir))
	assert.Equal(t, []string{"utf-8", "euc-kr"}, cfg.Input.Encoding)
	assert.Equal(t, []string{"json"}, cfg.Output.Formats)
	assert.Equal(t, "endpoints", cfg.Output.FileName)
	assert.True(t, cfg.Extraction.CastExamples)
	assert.Zero(t, cfg.Extraction.Seed)
	assert.Equal(t, map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}, cfg.Headers())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
input:
  dir: ./defs
  encoding: [utf-8, windows-1252]
output:
  formats: [json, yaml]
extraction:
  seed: 42
  cast_examples: false
  default_headers:
    X-Api-Version: "2"
  strategies:
    body: [validation_rules]
    response_fields: [param_tags]
rules:
  catalog_path: messages.yaml
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "defs", filepath.Base(cfg.Input.Dir))
	assert.Equal(t, []string{"utf-8", "windows-1252"}, cfg.Input.Encoding)
	assert.Equal(t, []string{"json", "yaml"}, cfg.Output.Formats)
	assert.Equal(t, uint64(42), cfg.Extraction.Seed)
	assert.False(t, cfg.Extraction.CastExamples)
	assert.Equal(t, "2", cfg.Headers()["X-Api-Version"])
	assert.Equal(t, "messages.yaml", cfg.Rules.CatalogPath)

	names, err := cfg.StrategyNames()
	require.NoError(t, err)
	assert.Equal(t, map[model.Stage][]string{
		model.StageBodyParameters: {"validation_rules"},
		model.StageResponseFields: {"param_tags"},
	}, names)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("PARAMDOC_EXTRACTION_SEED", "7")
	t.Setenv("PARAMDOC_OUTPUT_FILE_NAME", "api")

	cfg, err := Load(writeConfig(t, "extraction:\n  seed: 1\n"))
	require.NoError(t, err)
	assert.Equal(t, uint64(7), cfg.Extraction.Seed)
	assert.Equal(t, "api", cfg.Output.FileName)
}

func TestValidate(t *testing.T) {
	valid := func(t *testing.T) *Config {
		return &Config{
			Input:  InputConfig{Dir: t.TempDir(), Encoding: []string{"utf-8"}},
			Output: OutputConfig{Dir: t.TempDir(), FileName: "endpoints", Formats: []string{"json"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing input", func(c *Config) { c.Input.Dir = filepath.Join(c.Input.Dir, "gone") }, "input.dir does not exist"},
		{"no encoding", func(c *Config) { c.Input.Encoding = nil }, "input.encoding"},
		{"no file name", func(c *Config) { c.Output.FileName = "" }, "output.file_name"},
		{"no formats", func(c *Config) { c.Output.Formats = nil }, "output.formats"},
		{"bad format", func(c *Config) { c.Output.Formats = []string{"xlsx"} }, `unsupported output format "xlsx"`},
		{"bad stage", func(c *Config) {
			c.Extraction.Strategies = map[string][]string{"cookies": {"x"}}
		}, `unknown stage "cookies"`},
		{"missing catalog", func(c *Config) { c.Rules.CatalogPath = "/definitely/not/here.yaml" }, "rules.catalog_path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOutputPaths(t *testing.T) {
	cfg := &Config{Output: OutputConfig{Dir: filepath.Join(t.TempDir(), "out"), FileName: "endpoints"}}
	require.NoError(t, cfg.EnsureOutputDir())
	assert.DirExists(t, cfg.Output.Dir)
	assert.Equal(t, filepath.Join(cfg.Output.Dir, "endpoints.yaml"), cfg.GetOutputPath("yaml"))
}

func TestPrint(t *testing.T) {
	cfg := &Config{Extraction: ExtractionConfig{DefaultHeaders: map[string]string{"accept": "text/plain"}}}
	var buf bytes.Buffer
	cfg.Print(&buf)
	assert.Contains(t, buf.String(), "(defaults)")
	assert.Contains(t, buf.String(), "Accept: text/plain")
}
