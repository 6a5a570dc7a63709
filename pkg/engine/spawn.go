package engine

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-floatsim/pkg/entity"
	"github.com/opd-ai/go-floatsim/pkg/physics"
	"github.com/opd-ai/go-floatsim/pkg/validation"
)

// Bodies dropped into a container land inside this share of its radius and
// at most this far above its water line.
const (
	containerSpawnShare = 0.85
	containerSpawnDrop  = 0.2
)

// SpecFor builds a body spec from a named profile. Position and velocity are
// left for the caller.
func (p *Pond) SpecFor(profileName string) (BodySpec, error) {
	pc, ok := p.profiles[profileName]
	if !ok {
		return BodySpec{}, fmt.Errorf("profile %q: %w", profileName, physics.ErrMissingReference)
	}
	return BodySpec{
		Kind:        profileName,
		Profile:     pc.Profile,
		Policy:      pc.Policy,
		Mass:        pc.Mass,
		LinearDrag:  pc.LinearDrag,
		AngularDrag: pc.AngularDrag,
	}, nil
}

// SpawnScatter drops n bodies of the named profile at random points of a
// disk around center. Each lands heightOffset above the water under it with
// a random heading. Contained profiles go into the container instead.
func (p *Pond) SpawnScatter(profileName string, n int, center mgl64.Vec3, radius, heightOffset float64) ([]entity.ID, error) {
	spec, err := p.SpecFor(profileName)
	if err != nil {
		return nil, err
	}
	if spec.Policy == entity.Contained {
		return p.SpawnInContainer(profileName, n)
	}
	if err := validation.Collect(
		validation.NonNegative("count", float64(n)),
		validation.NonNegative("radius", radius),
		validation.Finite("heightOffset", heightOffset),
	); err != nil {
		return nil, fmt.Errorf("scatter %q: %w", profileName, err)
	}

	p.mu.Lock()
	ids := make([]entity.ID, 0, n)
	var spawnErr error
	for i := 0; i < n; i++ {
		xz := physics.Horizontal(center).Add(p.pointInDisk(radius))
		y := p.surface.Height(xz, p.simTime, 0) + heightOffset

		s := spec
		s.Position = xz.Vec3(y)
		s.Yaw = p.rng.Float64() * 360

		id, err := p.spawnLocked(s)
		if err != nil {
			spawnErr = err
			break
		}
		ids = append(ids, id)
	}
	events := p.takePending()
	p.mu.Unlock()

	p.publish(events)
	return ids, spawnErr
}

// SpawnInContainer drops n bodies of the named profile into the container,
// just above its water line.
func (p *Pond) SpawnInContainer(profileName string, n int) ([]entity.ID, error) {
	spec, err := p.SpecFor(profileName)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("fill container with %q: %w", profileName, &validation.ParameterError{
			Field: "count", Value: float64(n), Reason: "must not be negative",
		})
	}
	spec.Policy = entity.Contained

	p.mu.Lock()
	if p.container == nil {
		p.mu.Unlock()
		return nil, fmt.Errorf("fill container with %q: %w", profileName, physics.ErrMissingReference)
	}
	c := *p.container
	ids := make([]entity.ID, 0, n)
	var spawnErr error
	for i := 0; i < n; i++ {
		xz := physics.Horizontal(c.Center).Add(p.pointInDisk(c.Radius * containerSpawnShare))
		y := c.Center.Y() + c.WaterLevel + p.rng.Float64()*containerSpawnDrop

		s := spec
		s.Position = xz.Vec3(y)
		s.Yaw = p.rng.Float64() * 360

		id, err := p.spawnLocked(s)
		if err != nil {
			spawnErr = err
			break
		}
		ids = append(ids, id)
	}
	events := p.takePending()
	p.mu.Unlock()

	p.publish(events)
	return ids, spawnErr
}

// pointInDisk returns a uniformly distributed offset within radius. Caller
// holds the lock.
func (p *Pond) pointInDisk(radius float64) physics.Vector2D {
	r := radius * math.Sqrt(p.rng.Float64())
	return physics.FromAngle(p.rng.Float64()*2*math.Pi, r)
}
