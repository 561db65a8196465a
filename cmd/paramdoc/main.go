package main

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

const (
	appName    = "paramdoc"
	appVersion = "1.0.0"
	appDesc    = "Extracts request parameters, examples and responses from route definitions"
)

type options struct {
	configPath string
	verbose    bool
	inputDir   string
	outputDir  string
	formats    string
	seed       uint64
	quiet      bool
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           appName,
		Short:         appDesc,
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := run(cmd, opts, stdout)
			if err != nil {
				cmd.PrintErrln("Error:", err)
			}
			return err
		},
	}
	cmd.SetOut(stdout)

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file (default paramdoc.yaml when present)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging (DEBUG level)")
	flags.StringVarP(&opts.inputDir, "input", "i", "", "Override the route definition directory")
	flags.StringVarP(&opts.outputDir, "output", "o", "", "Override output directory from config")
	flags.StringVarP(&opts.formats, "format", "f", "", "Comma-separated output formats (json,yaml)")
	flags.Uint64Var(&opts.seed, "seed", 0, "Seed for generated examples (0 for random)")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Hide progress bars")
	return cmd
}

func splitFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
