package pipeline

import (
	"time"

	"github.com/veedubyou/stem-splitter-be/src/worker/internal/separation/engine"
)

// Params is the whole tuning surface of a pipeline run. Everything has a
// documented default so tests can vary one knob at a time without touching
// the process environment.
type Params struct {
	// Overlap is the engine's blending overlap, in [0, 1).
	Overlap float64

	// Shifts is the engine-internal averaging pass count.
	Shifts int

	// CleanupEnabled gates the attenuation pass over the refined target stem.
	CleanupEnabled bool

	// CleanupAlpha is the attenuation coefficient for the cleanup pass.
	CleanupAlpha float64

	// MinDuration is the minimum input length; shorter inputs are zero-padded
	// before invocation to satisfy engine length constraints.
	MinDuration time.Duration
}

func DefaultParams() Params {
	return Params{
		Overlap:        0.25,
		Shifts:         2,
		CleanupEnabled: false,
		CleanupAlpha:   0.6,
		MinDuration:    10 * time.Second,
	}
}

func (p Params) EngineParams() engine.Params {
	return engine.Params{
		Overlap: p.Overlap,
		Shifts:  p.Shifts,
	}
}
