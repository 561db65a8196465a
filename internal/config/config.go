package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/textproto"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"paramdoc/internal/model"
)

// DefaultConfigFile is read when no config path is given
const DefaultConfigFile = "paramdoc.yaml"

// EnvPrefix prefixes environment overrides (PARAMDOC_OUTPUT_DIR, ...)
const EnvPrefix = "PARAMDOC"

// SupportedFormats lists the output formats
var SupportedFormats = []string{"json", "yaml"}

// Config represents the application configuration
type Config struct {
	Input      InputConfig      `mapstructure:"input"`
	Output     OutputConfig     `mapstructure:"output"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
	Rules      RulesConfig      `mapstructure:"rules"`

	// File the configuration was read from, empty when only defaults apply
	File string `mapstructure:"-"`
}

// InputConfig holds where route definitions are read from
type InputConfig struct {
	Dir         string   `mapstructure:"dir"`          // Directory holding route definition files
	Encoding    []string `mapstructure:"encoding"`     // Encoding hints (e.g., ["utf-8", "euc-kr"])
	ExcludeDirs []string `mapstructure:"exclude_dirs"` // Directories to skip
}

// OutputConfig holds output settings
type OutputConfig struct {
	Dir      string   `mapstructure:"dir"`       // Output directory
	FileName string   `mapstructure:"file_name"` // Output file name (without extension)
	Formats  []string `mapstructure:"formats"`   // Output formats (json, yaml)
}

// ExtractionConfig holds how endpoint data is extracted
type ExtractionConfig struct {
	Seed           uint64              `mapstructure:"seed"`            // Faker seed, 0 for random examples
	CastExamples   bool                `mapstructure:"cast_examples"`   // Convert examples to their parameter type
	DefaultHeaders map[string]string   `mapstructure:"default_headers"` // Headers every route sends
	Strategies     map[string][]string `mapstructure:"strategies"`      // Strategy names per stage
}

// RulesConfig holds validation rule settings
type RulesConfig struct {
	CatalogPath string `mapstructure:"catalog_path"` // YAML file overriding rule messages
}

// Load reads the configuration from a file or uses defaults.
// If configPath is empty, DefaultConfigFile is used when it exists.
// Environment variables prefixed with PARAMDOC_ override both.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set sensible defaults
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := configPath != ""
	if !explicit {
		configPath = DefaultConfigFile
	}
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if _, err := os.Stat(v.ConfigFileUsed()); err == nil {
		cfg.File = v.ConfigFileUsed()
	}

	if err := cfg.normalizePaths(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults configures sensible default values
func setDefaults(v *viper.Viper) {
	v.SetDefault("input.dir", "./routes")
	v.SetDefault("input.encoding", []string{"utf-8", "euc-kr"})
	v.SetDefault("input.exclude_dirs", []string{
		"**/vendor/**",
		"**/node_modules/**",
	})

	v.SetDefault("output.dir", "./output")
	v.SetDefault("output.file_name", "endpoints")
	v.SetDefault("output.formats", []string{"json"})

	v.SetDefault("extraction.seed", 0)
	v.SetDefault("extraction.cast_examples", true)
	v.SetDefault("extraction.default_headers", map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	})
	v.SetDefault("extraction.strategies", map[string][]string{})

	v.SetDefault("rules.catalog_path", "")
}

// normalizePaths converts relative paths to absolute paths
func (c *Config) normalizePaths() error {
	absInput, err := filepath.Abs(c.Input.Dir)
	if err != nil {
		return fmt.Errorf("failed to resolve input.dir: %w", err)
	}
	c.Input.Dir = absInput

	absOutput, err := filepath.Abs(c.Output.Dir)
	if err != nil {
		return fmt.Errorf("failed to resolve output.dir: %w", err)
	}
	c.Output.Dir = absOutput
	return nil
}

// EnsureOutputDir creates the output directory if it doesn't exist
func (c *Config) EnsureOutputDir() error {
	if err := os.MkdirAll(c.Output.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// GetOutputPath returns the full path of the output file for a format
func (c *Config) GetOutputPath(format string) string {
	return filepath.Join(c.Output.Dir, c.Output.FileName+"."+format)
}

// Headers returns the default headers with canonical names. Config keys
// are case-insensitive, so "content-type" comes back as "Content-Type".
func (c *Config) Headers() map[string]string {
	out := make(map[string]string, len(c.Extraction.DefaultHeaders))
	for k, v := range c.Extraction.DefaultHeaders {
		out[textproto.CanonicalMIMEHeaderKey(k)] = v
	}
	return out
}

// StrategyNames returns the configured strategy names per stage. Stages
// not configured are absent.
func (c *Config) StrategyNames() (map[model.Stage][]string, error) {
	out := make(map[model.Stage][]string, len(c.Extraction.Strategies))
	for key, names := range c.Extraction.Strategies {
		stage, ok := model.ParseStage(key)
		if !ok {
			return nil, fmt.Errorf("extraction.strategies: unknown stage %q", key)
		}
		out[stage] = names
	}
	return out, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := os.Stat(c.Input.Dir); os.IsNotExist(err) {
		return fmt.Errorf("input.dir does not exist: %s", c.Input.Dir)
	}

	if len(c.Input.Encoding) == 0 {
		return fmt.Errorf("input.encoding must contain at least one encoding")
	}

	if c.Output.FileName == "" {
		return fmt.Errorf("output.file_name cannot be empty")
	}

	if len(c.Output.Formats) == 0 {
		return fmt.Errorf("output.formats must contain at least one format")
	}
	for _, f := range c.Output.Formats {
		if !isSupported(f) {
			return fmt.Errorf("unsupported output format %q (supported: %s)", f, strings.Join(SupportedFormats, ", "))
		}
	}

	if _, err := c.StrategyNames(); err != nil {
		return err
	}

	if c.Rules.CatalogPath != "" {
		if _, err := os.Stat(c.Rules.CatalogPath); err != nil {
			return fmt.Errorf("rules.catalog_path: %w", err)
		}
	}
	return nil
}

func isSupported(format string) bool {
	format = strings.ToLower(strings.TrimSpace(format))
	for _, f := range SupportedFormats {
		if f == format {
			return true
		}
	}
	return false
}

// Print displays the current configuration
func (c *Config) Print(w io.Writer) {
	source := c.File
	if source == "" {
		source = "(defaults)"
	}
	fmt.Fprintln(w, "=== paramdoc configuration ===")
	fmt.Fprintf(w, "Config File:      %s\n", source)
	fmt.Fprintf(w, "Input Directory:  %s\n", c.Input.Dir)
	fmt.Fprintf(w, "Encoding Hints:   %v\n", c.Input.Encoding)
	fmt.Fprintf(w, "Exclude Dirs:     %v\n", c.Input.ExcludeDirs)
	fmt.Fprintf(w, "Output Directory: %s\n", c.Output.Dir)
	fmt.Fprintf(w, "Output Formats:   %v\n", c.Output.Formats)
	fmt.Fprintf(w, "Seed:             %d\n", c.Extraction.Seed)

	headers := c.Headers()
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "Default Header:   %s: %s\n", k, headers[k])
	}
	fmt.Fprintln(w, "==============================")
}
