package physics

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-floatsim/pkg/validation"
)

// Body is the kinematic state the simulator reads each tick.
type Body struct {
	Position        mgl64.Vec3
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3
}

// ForceUpdate is the simulator's answer for one force-driven tick.
//
// Force is an acceleration (mass independent). VelocityChange is applied
// directly to velocity. The scale factors are applied to the velocities
// before integration and are 1 when no decay is requested.
type ForceUpdate struct {
	Force                mgl64.Vec3
	VelocityChange       mgl64.Vec3
	VelocityScale        float64
	AngularVelocityScale float64
	Depth                float64
	Submerged            bool
	// Anomaly is set when a non-finite value was suppressed this tick.
	Anomaly bool
}

// LockUpdate is the simulator's answer for one surface-lock tick.
type LockUpdate struct {
	Target     mgl64.Vec3
	DriftDelta Vector2D
	// SpinDelta is in degrees around the up axis.
	SpinDelta float64
	Anomaly   bool
}

// Simulator computes buoyancy for a single body. Besides its configuration it
// holds only the per-body seed and phase assigned at construction, so Step
// has no side effects.
type Simulator struct {
	profile   Profile
	surface   Surface
	container *Container
	noise     *DriftNoise
	seed      int64
	phase     float64
	lockDir   Vector2D
}

// NewSimulator validates its inputs and returns a simulator for one body.
func NewSimulator(profile Profile, surface Surface, seed int64, phase float64) (*Simulator, error) {
	if surface == nil {
		return nil, fmt.Errorf("simulator: water surface: %w", ErrMissingReference)
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("simulator: %w", err)
	}
	if err := validation.Finite("phase", phase); err != nil {
		return nil, fmt.Errorf("simulator: %w", err)
	}

	rng := rand.New(rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15))
	s := &Simulator{
		profile: profile,
		surface: surface,
		seed:    seed,
		phase:   phase,
		lockDir: FromAngle(rng.Float64()*2*math.Pi, 1),
	}
	if profile.Drift.Strength > 0 {
		s.noise = NewDriftNoise(seed)
	}
	return s, nil
}

// NewContainerSimulator returns a simulator whose water is the inside of c
// and which adds wall and band corrections.
func NewContainerSimulator(profile Profile, c *Container, seed int64, phase float64) (*Simulator, error) {
	if c == nil {
		return nil, fmt.Errorf("simulator: container: %w", ErrMissingReference)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("simulator: %w", err)
	}
	s, err := NewSimulator(profile, c, seed, phase)
	if err != nil {
		return nil, err
	}
	s.container = c
	return s, nil
}

// Profile returns the tuning the simulator was built with.
func (s *Simulator) Profile() Profile { return s.profile }

// Seed returns the per-body noise seed.
func (s *Simulator) Seed() int64 { return s.seed }

// Phase returns the per-body wave phase.
func (s *Simulator) Phase() float64 { return s.phase }

// SurfaceHeight samples the water under xz for this body.
func (s *Simulator) SurfaceHeight(xz Vector2D, simTime float64) float64 {
	return s.surface.Height(xz, simTime, s.phase)
}

// Depth returns the signed depth of pos below the effective surface, with
// the submersion offset included. Positive means submerged.
func (s *Simulator) Depth(pos mgl64.Vec3, simTime float64) float64 {
	return s.SurfaceHeight(Horizontal(pos), simTime) - pos.Y() + s.profile.SubmersionOffset
}

// Step computes the force update for one fixed tick. dt must be positive;
// anything else is a programming error and panics.
func (s *Simulator) Step(body Body, simTime, dt float64) ForceUpdate {
	mustPositiveStep(dt)

	update := ForceUpdate{VelocityScale: 1, AngularVelocityScale: 1}

	depth := s.Depth(body.Position, simTime)
	if !validation.IsFinite(depth) {
		update.Anomaly = true
		return update
	}
	update.Depth = depth

	if depth > 0 {
		update.Submerged = true
		update.Force = s.buoyancy(body, depth, simTime)
		if s.profile.DampingMode == VelocityDecay {
			update.VelocityScale = s.profile.DragFactor
			update.AngularVelocityScale = s.profile.angularScale()
		}
	}

	if s.container != nil {
		update.VelocityChange = s.container.Correction(body.Position)
	}

	if !isFiniteVec3(update.Force) || !isFiniteVec3(update.VelocityChange) {
		return ForceUpdate{
			VelocityScale:        1,
			AngularVelocityScale: 1,
			Depth:                depth,
			Anomaly:              true,
		}
	}
	return update
}

func (s *Simulator) buoyancy(body Body, depth, simTime float64) mgl64.Vec3 {
	p := s.profile
	if p.ClampDepth && depth > 1 {
		depth = 1
	}

	lift := p.BuoyancyStrength * depth
	if p.DampingMode == AdditiveDamping && p.Damping != 0 {
		lift -= body.Velocity.Y() * p.Damping
	}
	force := Up.Mul(lift)

	if s.noise != nil {
		force = force.Add(s.DriftForce(simTime).Vec3(0))
	}
	return force
}

// DriftForce returns the horizontal drift force at simTime. Its magnitude
// never exceeds the profile's drift strength.
func (s *Simulator) DriftForce(simTime float64) Vector2D {
	if s.noise == nil {
		return Vector2D{}
	}
	d := s.profile.Drift
	return s.noise.Sample(simTime * d.Frequency).Scale(d.Strength)
}

// BobOffset is the decorative vertical bob for surface-lock bodies.
func (s *Simulator) BobOffset(simTime float64) float64 {
	l := s.profile.Lock
	if l.BobAmplitude == 0 {
		return 0
	}
	return l.BobAmplitude * math.Sin(simTime*l.BobFrequency+s.phase)
}

// Lock computes the absolute placement of a surface-lock body for one tick.
// Repeated calls with the same inputs return the same target.
func (s *Simulator) Lock(pos mgl64.Vec3, simTime, dt float64) LockUpdate {
	mustPositiveStep(dt)

	l := s.profile.Lock
	drift := s.lockDir.Scale(l.DriftSpeed * dt)
	xz := Horizontal(pos).Add(drift)

	floor := s.SurfaceHeight(xz, simTime) + l.SurfaceOffset
	y := floor + s.BobOffset(simTime)
	if l.FloorOnly {
		y = math.Max(pos.Y(), floor)
	}

	target := xz.Vec3(y)
	if !isFiniteVec3(target) {
		return LockUpdate{Target: pos, Anomaly: true}
	}
	return LockUpdate{
		Target:     target,
		DriftDelta: drift,
		SpinDelta:  l.SpinSpeed * dt,
	}
}

func mustPositiveStep(dt float64) {
	if !(dt > 0) || math.IsInf(dt, 1) {
		panic(fmt.Sprintf("physics: time step must be positive and finite, got %v", dt))
	}
}
