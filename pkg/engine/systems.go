package engine

import (
	"slices"

	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-floatsim/pkg/entity"
	"github.com/opd-ai/go-floatsim/pkg/event"
	"github.com/opd-ai/go-floatsim/pkg/physics"
)

// System priorities. The ecs world runs higher priorities first, so each
// tick handles zone entry, then buoyancy, then integration.
const (
	zonePriority        = 30
	buoyancyPriority    = 20
	integrationPriority = 10
)

// bodyList is the per-system entity list the pond systems share.
type bodyList struct {
	records []*bodyRecord
}

// Add satisfies the ecs.System pattern
func (l *bodyList) Add(basic *ecs.BasicEntity, rec *bodyRecord) {
	l.records = append(l.records, rec)
}

// Remove satisfies the ecs.System interface
func (l *bodyList) Remove(basic ecs.BasicEntity) {
	l.records = slices.DeleteFunc(l.records, func(rec *bodyRecord) bool {
		return rec.basic.ID() == basic.ID()
	})
}

// zoneSystem fires zone effects when a body crosses into a zone.
type zoneSystem struct {
	bodyList
	pond *Pond
}

// Priority implements ecs.Prioritizer
func (s *zoneSystem) Priority() int { return zonePriority }

// Update checks every body against every zone. Only the outside-to-inside
// edge triggers, so a body resting in a zone is not re-triggered each tick.
func (s *zoneSystem) Update(float32) {
	for _, rec := range s.records {
		pos := rec.body.Position
		for _, z := range s.pond.zones {
			inside := z.Contains(pos)
			if inside && !rec.inside[z.Name] {
				s.pond.enterZone(rec, z, false)
			}
			rec.inside[z.Name] = inside
		}
	}
}

// buoyancySystem asks each body's simulator for this tick's update.
type buoyancySystem struct {
	bodyList
	pond *Pond
}

// Priority implements ecs.Prioritizer
func (s *buoyancySystem) Priority() int { return buoyancyPriority }

// Update computes the tick for every body. The simulation time is the start
// of the tick being computed.
func (s *buoyancySystem) Update(float32) {
	p := s.pond
	dt := p.timeStep
	simTime := p.simTime

	for _, rec := range s.records {
		b := rec.body
		if !b.Active() {
			rec.force = neutralUpdate
			rec.lock = physics.LockUpdate{}
			continue
		}

		var anomaly bool
		if b.Policy == entity.SurfaceLocked {
			rec.lock = rec.sim.Lock(b.Position, simTime, dt)
			anomaly = rec.lock.Anomaly
		} else {
			rec.force = rec.sim.Step(b.Body, simTime, dt)
			anomaly = rec.force.Anomaly
		}

		if anomaly {
			b.Anomalies++
			p.anomalies++
			if ok, dropped := p.anomalyLog.Allow(b.ID, simTime); ok {
				p.logger.Warn(p.stepCtx, "non-finite value suppressed",
					"body_id", uint64(b.ID), "kind", b.Kind, "tick", p.tick, "sim_time", simTime,
					"unlogged_since_last", dropped)
			}
			p.pending = append(p.pending, event.NewAnomalyEvent(p, uint64(b.ID), p.tick, simTime))
		}
	}
}

// neutralUpdate leaves velocities alone and adds no force.
var neutralUpdate = physics.ForceUpdate{VelocityScale: 1, AngularVelocityScale: 1}

// integrationSystem applies the buoyancy results to the rigid bodies.
type integrationSystem struct {
	bodyList
	pond *Pond
}

// Priority implements ecs.Prioritizer
func (s *integrationSystem) Priority() int { return integrationPriority }

// Update moves every body. Locked bodies are placed on their target; a
// settled locked body stays where it is. Force bodies, settled or not, fall
// under gravity with their current drag.
func (s *integrationSystem) Update(float32) {
	p := s.pond
	for _, rec := range s.records {
		b := rec.body
		if b.Policy == entity.SurfaceLocked {
			if b.Active() {
				physics.Place(&b.RigidBody, rec.lock)
			}
			continue
		}
		physics.Integrate(&b.RigidBody, rec.force, p.gravity, p.timeStep)
	}
}
