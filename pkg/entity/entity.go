// pkg/entity/entity.go
package entity

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-floatsim/pkg/physics"
)

// ID is a unique identifier for a floating body
type ID uint64

// Policy selects how a body is held on the water
type Policy int

const (
	// OpenWater bodies are pushed by buoyancy against a shared surface.
	OpenWater Policy = iota
	// Contained bodies float inside the pond's bounded container.
	Contained
	// SurfaceLocked bodies are placed on the surface each tick.
	SurfaceLocked
)

func (p Policy) String() string {
	switch p {
	case OpenWater:
		return "open"
	case Contained:
		return "contained"
	case SurfaceLocked:
		return "locked"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	switch p {
	case OpenWater, Contained, SurfaceLocked:
		return []byte(p.String()), nil
	}
	return nil, fmt.Errorf("unknown policy %d", int(p))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "open", "":
		*p = OpenWater
	case "contained":
		*p = Contained
	case "locked":
		*p = SurfaceLocked
	default:
		return fmt.Errorf("unknown policy %q", string(text))
	}
	return nil
}

// State is the settling state of a body
type State int

const (
	Floating State = iota
	Settled
)

func (s State) String() string {
	if s == Settled {
		return "settled"
	}
	return "floating"
}

// FloatingBody is the host-side record of one simulated body
type FloatingBody struct {
	ID   ID
	Kind string // profile name it was spawned from
	physics.RigidBody

	Profile physics.Profile
	Policy  Policy
	Seed    int64
	Phase   float64
	State   State

	// Drag the body was spawned with, restored by Reenable.
	BaseLinearDrag  float64
	BaseAngularDrag float64

	Anomalies int
}

// NewFloatingBody creates a floating body record
func NewFloatingBody(id ID, kind string, profile physics.Profile, policy Policy, rb physics.RigidBody) *FloatingBody {
	return &FloatingBody{
		ID:              id,
		Kind:            kind,
		RigidBody:       rb,
		Profile:         profile,
		Policy:          policy,
		State:           Floating,
		BaseLinearDrag:  rb.LinearDrag,
		BaseAngularDrag: rb.AngularDrag,
	}
}

// GetID returns the body's unique identifier
func (b *FloatingBody) GetID() ID {
	return b.ID
}

// GetPosition returns the body's position
func (b *FloatingBody) GetPosition() mgl64.Vec3 {
	return b.Position
}

// Active reports whether the body still receives buoyancy.
func (b *FloatingBody) Active() bool {
	return b.State == Floating
}

// Settle switches buoyancy off and raises the body's drag so it comes to
// rest. Settled is terminal until Reenable; Settle on a settled body does
// nothing and returns false.
func (b *FloatingBody) Settle(linearDrag, angularDrag float64) bool {
	if b.State == Settled {
		return false
	}
	b.State = Settled
	b.LinearDrag = linearDrag
	b.AngularDrag = angularDrag
	return true
}

// Reenable returns a settled body to Floating with its spawn-time drag.
func (b *FloatingBody) Reenable() bool {
	if b.State == Floating {
		return false
	}
	b.State = Floating
	b.LinearDrag = b.BaseLinearDrag
	b.AngularDrag = b.BaseAngularDrag
	return true
}

// Render draws the body through r
func (b *FloatingBody) Render(r Renderer) {
	r.RenderBody(b)
}
