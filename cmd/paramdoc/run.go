package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"paramdoc/internal/analyzer"
	"paramdoc/internal/config"
	"paramdoc/internal/exporter"
	"paramdoc/internal/logger"
	"paramdoc/internal/merger"
	"paramdoc/internal/model"
	"paramdoc/internal/resolver"
	"paramdoc/internal/rules"
	"paramdoc/internal/strategies"
	"paramdoc/internal/ui"
)

func run(cmd *cobra.Command, opts *options, stdout io.Writer) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	applyOverrides(cmd, opts, cfg)

	if err := cfg.EnsureOutputDir(); err != nil {
		return err
	}
	if err := logger.Init(stdout, filepath.Join(cfg.Output.Dir, appName+".log"), opts.verbose); err != nil {
		return err
	}
	defer logger.Close()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if opts.verbose {
		cfg.Print(stdout)
	}

	pipeline, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	progress := ui.NewPipelineWithOutput(ui.DefaultPhases, stdout)
	if opts.quiet {
		progress.Disable()
	}
	return runExtraction(cfg, pipeline, progress)
}

func applyOverrides(cmd *cobra.Command, opts *options, cfg *config.Config) {
	if opts.inputDir != "" {
		cfg.Input.Dir, _ = filepath.Abs(opts.inputDir)
	}
	if opts.outputDir != "" {
		cfg.Output.Dir, _ = filepath.Abs(opts.outputDir)
	}
	if formats := splitFormats(opts.formats); len(formats) > 0 {
		cfg.Output.Formats = formats
	}
	if cmd.Flags().Changed("seed") {
		cfg.Extraction.Seed = opts.seed
	}
}

// buildPipeline wires the configured strategies. Each route gets a resolver
// with a fresh faker so its examples do not depend on the routes before it.
func buildPipeline(cfg *config.Config) (*merger.Pipeline, error) {
	var catalog *rules.Catalog
	if cfg.Rules.CatalogPath != "" {
		c, err := rules.LoadCatalog(cfg.Rules.CatalogPath)
		if err != nil {
			return nil, err
		}
		catalog = c
	}

	names := strategies.DefaultPlanNames()
	configured, err := cfg.StrategyNames()
	if err != nil {
		return nil, err
	}
	for stage, list := range configured {
		names[stage] = list
	}
	plan, err := strategies.BuildPlan(names, strategies.Options{DefaultHeaders: cfg.Headers()})
	if err != nil {
		return nil, err
	}

	seed := cfg.Extraction.Seed
	cast := cfg.Extraction.CastExamples
	return merger.NewPipeline(plan, merger.WithResolverFactory(func() *resolver.Resolver {
		return resolver.New(catalog, rules.NewFaker(seed), resolver.WithCastExamples(cast))
	})), nil
}

func runExtraction(cfg *config.Config, pipeline *merger.Pipeline, progress *ui.Pipeline) error {
	// --- Phase 1: Loading ---
	logger.Info("Phase 1: Loading route definitions from %s", cfg.Input.Dir)
	bar := progress.NextPhase(1)
	loader := analyzer.NewLoader(&analyzer.Config{
		Dir:             cfg.Input.Dir,
		ExcludePatterns: cfg.Input.ExcludeDirs,
		EncodingHints:   cfg.Input.Encoding,
	})
	loaded, err := loader.Load()
	if err != nil {
		return err
	}
	bar.Increment()
	if len(loaded.Routes) == 0 {
		progress.Finish()
		return errors.New("no routes found")
	}

	// --- Phase 2: Resolving ---
	logger.Info("Phase 2: Resolving %d routes", len(loaded.Routes))
	bar = progress.NextPhase(len(loaded.Routes))
	endpoints := make([]*model.EndpointData, 0, len(loaded.Routes))
	for _, route := range loaded.Routes {
		bar.Describe(route.ID())
		data, err := pipeline.Process(route)
		if err != nil {
			logger.RouteSkipped(route.ID(), err)
		} else {
			endpoints = append(endpoints, data)
		}
		bar.Increment()
	}
	skipped := len(loaded.Routes) - len(endpoints)
	if len(endpoints) == 0 {
		progress.Finish()
		return fmt.Errorf("none of the %d routes could be processed", len(loaded.Routes))
	}

	// --- Phase 3: Exporting ---
	exporters := exporter.GetExporters(cfg.Output.Formats)
	logger.Info("Phase 3: Exporting %d endpoints", len(endpoints))
	bar = progress.NextPhase(len(exporters))
	var failed []error
	for _, exp := range exporters {
		bar.Describe(exp.Format())
		if err := exp.Export(endpoints, cfg); err != nil {
			logger.Error("%s export failed: %v", exp.Format(), err)
			failed = append(failed, err)
		} else {
			logger.Info("Wrote %s", cfg.GetOutputPath(exp.Format()))
		}
		bar.Increment()
	}
	progress.Finish()

	progress.PrintSummary("Documented %d routes (%d skipped, %d definition problems)",
		len(endpoints), skipped, len(loaded.Problems))
	return errors.Join(failed...)
}
