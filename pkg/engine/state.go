package engine

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-floatsim/pkg/entity"
	"github.com/opd-ai/go-floatsim/pkg/physics"
)

// BodyState is the externally visible state of one body.
type BodyState struct {
	ID        entity.ID     `json:"id"`
	Kind      string        `json:"kind"`
	Policy    entity.Policy `json:"policy"`
	State     string        `json:"state"`
	Position  mgl64.Vec3    `json:"position"`
	Velocity  mgl64.Vec3    `json:"velocity"`
	Yaw       float64       `json:"yaw"`
	Depth     float64       `json:"depth"`
	Submerged bool          `json:"submerged"`
	Anomalies int           `json:"anomalies"`
}

// PondState is a consistent snapshot of the whole pond.
type PondState struct {
	Tick      uint64             `json:"tick"`
	SimTime   float64            `json:"simTime"`
	Bodies    []BodyState        `json:"bodies"`
	Container *physics.Container `json:"container,omitempty"`
	Anomalies uint64             `json:"anomalies"`
	Surface   string             `json:"surface"`
}

// State takes a snapshot of the pond between ticks.
func (p *Pond) State() PondState {
	p.mu.RLock()
	defer p.mu.RUnlock()

	st := PondState{
		Tick:      p.tick,
		SimTime:   p.simTime,
		Bodies:    make([]BodyState, 0, len(p.order)),
		Anomalies: p.anomalies,
		Surface:   p.surfaceState.String(),
	}
	if p.container != nil {
		c := *p.container
		st.Container = &c
	}

	for _, id := range p.order {
		rec := p.bodies[id]
		b := rec.body
		st.Bodies = append(st.Bodies, BodyState{
			ID:        b.ID,
			Kind:      b.Kind,
			Policy:    b.Policy,
			State:     b.State.String(),
			Position:  b.Position,
			Velocity:  b.Velocity,
			Yaw:       b.Yaw,
			Depth:     rec.force.Depth,
			Submerged: rec.force.Submerged,
			Anomalies: b.Anomalies,
		})
	}
	return st
}
