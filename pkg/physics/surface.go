package physics

import (
	"math"

	"github.com/opd-ai/go-floatsim/pkg/validation"
)

// Surface answers "where is the water" for a horizontal position at a given
// simulation time. phase is the caller's per-body phase offset, which lets
// bodies on the same water bob out of sync.
type Surface interface {
	Height(xz Vector2D, simTime, phase float64) float64
}

// SurfaceFunc adapts a plain function to Surface.
type SurfaceFunc func(xz Vector2D, simTime, phase float64) float64

// Height implements Surface.
func (f SurfaceFunc) Height(xz Vector2D, simTime, phase float64) float64 {
	return f(xz, simTime, phase)
}

// WaterSurface is a flat plane with an optional single sine wave:
//
//	height = base + amplitude * sin(t*frequency + phase + spatialPhase*x)
//
// SpatialPhase couples the wave to world X so neighbouring bodies ride
// different parts of the same swell.
type WaterSurface struct {
	BaseHeight   float64 `json:"baseHeight"`
	Amplitude    float64 `json:"waveAmplitude"`
	Frequency    float64 `json:"waveFrequency"`
	SpatialPhase float64 `json:"spatialPhase"`
}

// Height implements Surface.
func (w WaterSurface) Height(xz Vector2D, simTime, phase float64) float64 {
	if w.Amplitude == 0 {
		return w.BaseHeight
	}
	return w.BaseHeight + w.Amplitude*math.Sin(simTime*w.Frequency+phase+w.SpatialPhase*xz.X)
}

// Validate checks the wave parameters.
func (w WaterSurface) Validate() error {
	return validation.Collect(
		validation.Finite("baseHeight", w.BaseHeight),
		validation.NonNegative("waveAmplitude", w.Amplitude),
		validation.NonNegative("waveFrequency", w.Frequency),
		validation.Finite("spatialPhase", w.SpatialPhase),
	)
}
