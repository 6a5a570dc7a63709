package physics

import (
	"fmt"
	"strings"

	"github.com/opd-ai/go-floatsim/pkg/validation"
)

// DampingMode selects how a submerged body loses vertical energy.
type DampingMode int

const (
	// AdditiveDamping adds -velocity.y * Damping to the vertical force.
	AdditiveDamping DampingMode = iota
	// VelocityDecay asks the host to multiply the whole velocity by DragFactor
	// every submerged tick.
	VelocityDecay
)

func (m DampingMode) String() string {
	switch m {
	case AdditiveDamping:
		return "additive"
	case VelocityDecay:
		return "decay"
	default:
		return fmt.Sprintf("DampingMode(%d)", int(m))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m DampingMode) MarshalText() ([]byte, error) {
	switch m {
	case AdditiveDamping, VelocityDecay:
		return []byte(m.String()), nil
	}
	return nil, fmt.Errorf("unknown damping mode %d", int(m))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *DampingMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "additive", "":
		*m = AdditiveDamping
	case "decay":
		*m = VelocityDecay
	default:
		return fmt.Errorf("unknown damping mode %q", string(text))
	}
	return nil
}

// Drift configures the slow horizontal wander layered over buoyancy.
type Drift struct {
	Strength  float64 `json:"strength"`
	Frequency float64 `json:"frequency"`
}

// LockSettings configures surface-lock bodies, which are placed on the water
// each tick instead of being pushed there by forces.
type LockSettings struct {
	SurfaceOffset float64 `json:"surfaceOffset"`
	BobAmplitude  float64 `json:"bobAmplitude"`
	BobFrequency  float64 `json:"bobFrequency"`
	DriftSpeed    float64 `json:"driftSpeed"`
	// SpinSpeed is in degrees per second around the up axis.
	SpinSpeed float64 `json:"spinSpeed"`
	// FloorOnly keeps the body at or above the surface but never pulls it down.
	FloorOnly bool `json:"floorOnly"`
}

// Profile holds the per-body buoyancy tuning. It is fixed at spawn time.
type Profile struct {
	SubmersionOffset float64     `json:"submersionOffset"`
	BuoyancyStrength float64     `json:"buoyancyStrength"`
	DampingMode      DampingMode `json:"dampingMode"`
	Damping          float64     `json:"damping"`
	DragFactor       float64     `json:"dragFactor"`
	// AngularDragFactor of zero means angular velocity is left alone.
	AngularDragFactor float64 `json:"angularDragFactor"`
	// ClampDepth limits depth to 1, for small bodies in shallow containers.
	ClampDepth bool         `json:"clampDepth"`
	Drift      Drift        `json:"drift"`
	Lock       LockSettings `json:"lock"`
}

// Validate rejects profiles the simulator cannot honour.
func (p Profile) Validate() error {
	errs := []error{
		validation.Finite("submersionOffset", p.SubmersionOffset),
		validation.NonNegative("buoyancyStrength", p.BuoyancyStrength),
		validation.NonNegative("damping", p.Damping),
		validation.NonNegative("drift.strength", p.Drift.Strength),
		validation.NonNegative("drift.frequency", p.Drift.Frequency),
		validation.Finite("lock.surfaceOffset", p.Lock.SurfaceOffset),
		validation.NonNegative("lock.bobAmplitude", p.Lock.BobAmplitude),
		validation.NonNegative("lock.bobFrequency", p.Lock.BobFrequency),
		validation.NonNegative("lock.driftSpeed", p.Lock.DriftSpeed),
		validation.Finite("lock.spinSpeed", p.Lock.SpinSpeed),
	}
	switch p.DampingMode {
	case AdditiveDamping:
	case VelocityDecay:
		errs = append(errs, validation.Factor("dragFactor", p.DragFactor))
		if p.AngularDragFactor != 0 {
			errs = append(errs, validation.Factor("angularDragFactor", p.AngularDragFactor))
		}
	default:
		errs = append(errs, &validation.ParameterError{
			Field:  "dampingMode",
			Value:  float64(p.DampingMode),
			Reason: "unknown mode",
		})
	}
	return validation.Collect(errs...)
}

func (p Profile) angularScale() float64 {
	if p.AngularDragFactor == 0 {
		return 1
	}
	return p.AngularDragFactor
}

// Stock profiles, tuned for metre-scale scenes with 50 Hz physics.

// Orange is a small fruit bobbing on open water with additive damping and
// a gentle drift.
var Orange = Profile{
	SubmersionOffset: 0.3,
	BuoyancyStrength: 10,
	DampingMode:      AdditiveDamping,
	Damping:          2,
	Drift:            Drift{Strength: 0.3, Frequency: 0.4},
}

// Crate is a heavier floating object that bleeds energy through velocity decay.
var Crate = Profile{
	BuoyancyStrength:  15,
	DampingMode:       VelocityDecay,
	DragFactor:        0.99,
	AngularDragFactor: 0.5,
}

// BucketOrange floats in a carried container: clamped depth, strong decay.
var BucketOrange = Profile{
	BuoyancyStrength: 20,
	DampingMode:      VelocityDecay,
	DragFactor:       0.98,
	ClampDepth:       true,
}

// Capybara floats low with its head above water.
var Capybara = Profile{
	SubmersionOffset: -0.6,
	BuoyancyStrength: 12,
	DampingMode:      AdditiveDamping,
	Damping:          4,
}

// Decoration is locked to the surface: it bobs, drifts and spins without forces.
var Decoration = Profile{
	Lock: LockSettings{
		BobAmplitude: 0.08,
		BobFrequency: 1.2,
		DriftSpeed:   0.25,
		SpinSpeed:    15,
	},
}

// Wader is a floor-only lock that keeps a standing body from sinking below
// the surface.
var Wader = Profile{
	Lock: LockSettings{
		SurfaceOffset: 1.5,
		FloorOnly:     true,
	},
}
