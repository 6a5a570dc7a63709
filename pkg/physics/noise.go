package physics

import (
	"math"

	perlin "github.com/aquilax/go-perlin"
)

const (
	// Single octave keeps the field C1-smooth and band limited.
	noiseAlpha   = 2
	noiseBeta    = 2
	noiseOctaves = 1

	// Offset between the X and Z sample rows so the axes decorrelate.
	noiseAxisOffset = 123.4

	// 2D gradient noise peaks at sqrt(1/2); this maps it onto [-0.5, 0.5].
	noiseRangeScale = math.Sqrt2 / 2
)

// DriftNoise produces a smooth pseudo-random horizontal direction field over
// time. The same seed always yields the same sequence.
type DriftNoise struct {
	field *perlin.Perlin
	row   float64
}

// NewDriftNoise builds a noise source for one body.
func NewDriftNoise(seed int64) *DriftNoise {
	// Sample rows sit between lattice lines, where gradient noise is not pinned to zero.
	row := float64(uint64(seed)%1000) + 0.5
	return &DriftNoise{
		field: perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed),
		row:   row,
	}
}

// Sample returns one noise value per horizontal axis at time coordinate t,
// each in [-0.5, 0.5].
func (n *DriftNoise) Sample(t float64) Vector2D {
	return Vector2D{
		X: clampHalf(n.field.Noise2D(n.row, t) * noiseRangeScale),
		Z: clampHalf(n.field.Noise2D(n.row+noiseAxisOffset, t) * noiseRangeScale),
	}
}

func clampHalf(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return math.Max(-0.5, math.Min(0.5, v))
}
