package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelinePhases(t *testing.T) {
	var buf bytes.Buffer
	p := NewPipelineWithOutput(DefaultPhases, &buf)

	var seen []Phase
	for bar := p.NextPhase(2); bar != nil; bar = p.NextPhase(1) {
		seen = append(seen, bar.Phase())
		bar.Describe("item")
		require.NoError(t, bar.Increment())
	}
	assert.Equal(t, DefaultPhases, seen)
	assert.Nil(t, p.NextPhase(1))

	p.PrintSummary("done: %d routes", 3)
	assert.Contains(t, buf.String(), "done: 3 routes")
}

func TestDisabledPipelineWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	p := NewPipelineWithOutput([]Phase{PhaseLoading}, &buf)
	p.Disable()

	bar := p.NextPhase(3)
	require.NotNil(t, bar)
	require.NoError(t, bar.Increment())
	p.Finish()
	p.PrintSummary("hidden")

	assert.Empty(t, buf.String())
}
