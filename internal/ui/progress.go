package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Phase represents a stage of a documentation run
type Phase string

const (
	PhaseLoading   Phase = "Loading"
	PhaseResolving Phase = "Resolving"
	PhaseExporting Phase = "Exporting"
)

// DefaultPhases lists the phases of a run in order
var DefaultPhases = []Phase{PhaseLoading, PhaseResolving, PhaseExporting}

// ProgressBar wraps the progressbar library with our styling
type ProgressBar struct {
	bar   *progressbar.ProgressBar
	phase Phase
}

// NewProgressBar creates a progress bar for a phase writing to output
func NewProgressBar(phase Phase, total int, output io.Writer) *ProgressBar {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(output),
		progressbar.OptionSetDescription(fmt.Sprintf("[%s]", phase)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
	)
	return &ProgressBar{bar: bar, phase: phase}
}

// Phase returns the phase the bar tracks
func (pb *ProgressBar) Phase() Phase {
	return pb.phase
}

// Increment advances the bar by one item
func (pb *ProgressBar) Increment() error {
	return pb.bar.Add(1)
}

// Describe shows what the phase is working on
func (pb *ProgressBar) Describe(description string) {
	pb.bar.Describe(fmt.Sprintf("[%s] %s", pb.phase, description))
}

// Finish completes the progress bar
func (pb *ProgressBar) Finish() error {
	return pb.bar.Finish()
}

// Pipeline tracks progress through consecutive phases
type Pipeline struct {
	phases  []Phase
	current int
	bar     *ProgressBar
	output  io.Writer
}

// NewPipeline creates a progress tracker writing to stdout
func NewPipeline(phases []Phase) *Pipeline {
	return NewPipelineWithOutput(phases, os.Stdout)
}

// NewPipelineWithOutput creates a progress tracker writing to output.
// A nil output disables all progress output.
func NewPipelineWithOutput(phases []Phase, output io.Writer) *Pipeline {
	if output == nil {
		output = io.Discard
	}
	return &Pipeline{phases: phases, current: -1, output: output}
}

// Disable discards all further progress output
func (p *Pipeline) Disable() {
	p.output = io.Discard
}

// NextPhase finishes the current phase and starts the next one with total
// items. It returns nil once every phase has run.
func (p *Pipeline) NextPhase(total int) *ProgressBar {
	p.Finish()

	p.current++
	if p.current >= len(p.phases) {
		return nil
	}
	p.bar = NewProgressBar(p.phases[p.current], total, p.output)
	return p.bar
}

// Finish completes the current phase
func (p *Pipeline) Finish() {
	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
	}
}

// PrintSummary prints a line after the progress bars
func (p *Pipeline) PrintSummary(format string, args ...interface{}) {
	fmt.Fprintf(p.output, format+"\n", args...)
}
