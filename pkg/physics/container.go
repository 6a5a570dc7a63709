package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-floatsim/pkg/validation"
)

// Container is a bounded vessel (a bucket) with water inside it. It acts as
// the water surface for the bodies it holds and keeps them from escaping
// through its walls or out of its vertical band.
//
// All heights are relative to Center, which the owner may move every tick.
type Container struct {
	Center     mgl64.Vec3 `json:"center"`
	Radius     float64    `json:"radius"`
	WaterLevel float64    `json:"waterLevel"`
	MinY       float64    `json:"minY"`
	MaxY       float64    `json:"maxY"`
	// RadialCorrection is the velocity change applied toward the axis when a
	// body is outside Radius.
	RadialCorrection float64 `json:"radialCorrection"`
	// BandCorrection scales the velocity change toward Center when a body
	// leaves [MinY, MaxY].
	BandCorrection float64 `json:"bandCorrection"`
}

// DefaultContainer matches a hand-held bucket about 0.8 m across.
func DefaultContainer(center mgl64.Vec3) *Container {
	return &Container{
		Center:           center,
		Radius:           0.35,
		WaterLevel:       0.5,
		MinY:             -0.2,
		MaxY:             0.8,
		RadialCorrection: 3,
		BandCorrection:   1,
	}
}

// Height implements Surface. The water inside a container is always flat.
func (c *Container) Height(xz Vector2D, simTime, phase float64) float64 {
	return c.Center.Y() + c.WaterLevel
}

// Correction returns the velocity change that pushes a body at pos back
// inside the container. It is zero for bodies already in bounds.
func (c *Container) Correction(pos mgl64.Vec3) mgl64.Vec3 {
	var dv mgl64.Vec3

	offset := Horizontal(pos).Sub(Horizontal(c.Center))
	if offset.Length() > c.Radius {
		inward := offset.Scale(-1).Normalize().Scale(c.RadialCorrection)
		dv = dv.Add(inward.Vec3(0))
	}

	localY := pos.Y() - c.Center.Y()
	if localY < c.MinY || localY > c.MaxY {
		dv = dv.Add(c.Center.Sub(pos).Mul(c.BandCorrection))
	}

	return dv
}

// Wall returns the horizontal footprint of the container.
func (c *Container) Wall() Circle {
	return Circle{Center: Horizontal(c.Center), Radius: c.Radius}
}

// Validate checks the container geometry.
func (c *Container) Validate() error {
	return validation.Collect(
		validation.Positive("container.radius", c.Radius),
		validation.Finite("container.waterLevel", c.WaterLevel),
		validation.Ordered("container.minY", "container.maxY", c.MinY, c.MaxY),
		validation.NonNegative("container.radialCorrection", c.RadialCorrection),
		validation.NonNegative("container.bandCorrection", c.BandCorrection),
	)
}
