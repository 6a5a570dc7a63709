package entity

import (
	"testing"

	"github.com/opd-ai/go-floatsim/pkg/physics"
)

// MockRenderer records the calls made through the Renderer interface
type MockRenderer struct {
	Bodies           []*FloatingBody
	ClearCallCount   int
	PresentCallCount int
}

// RenderBody implements the Renderer interface
func (m *MockRenderer) RenderBody(body *FloatingBody) {
	m.Bodies = append(m.Bodies, body)
}

// Clear implements the Renderer interface
func (m *MockRenderer) Clear() {
	m.ClearCallCount++
}

// Present implements the Renderer interface
func (m *MockRenderer) Present() {
	m.PresentCallCount++
}

func TestFloatingBody_Render(t *testing.T) {
	var _ Renderer = (*MockRenderer)(nil)

	r := &MockRenderer{}
	a := NewFloatingBody(1, "orange", physics.Orange, OpenWater, physics.RigidBody{})
	b := NewFloatingBody(2, "decoration", physics.Decoration, SurfaceLocked, physics.RigidBody{})

	r.Clear()
	a.Render(r)
	b.Render(r)
	r.Present()

	if len(r.Bodies) != 2 || r.Bodies[0] != a || r.Bodies[1] != b {
		t.Fatalf("rendered %v, want [a b]", r.Bodies)
	}
	if r.ClearCallCount != 1 || r.PresentCallCount != 1 {
		t.Errorf("Clear/Present = %d/%d, want 1/1", r.ClearCallCount, r.PresentCallCount)
	}
}
