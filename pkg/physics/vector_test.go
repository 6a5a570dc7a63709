// pkg/physics/vector_test.go
package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestVector2D_Add(t *testing.T) {
	tests := []struct {
		name     string
		v1       Vector2D
		v2       Vector2D
		expected Vector2D
	}{
		{
			name:     "positive_vectors",
			v1:       Vector2D{X: 3, Z: 4},
			v2:       Vector2D{X: 1, Z: 2},
			expected: Vector2D{X: 4, Z: 6},
		},
		{
			name:     "mixed_signs",
			v1:       Vector2D{X: 5, Z: -3},
			v2:       Vector2D{X: -2, Z: 7},
			expected: Vector2D{X: 3, Z: 4},
		},
		{
			name:     "zero_vector",
			v1:       Vector2D{},
			v2:       Vector2D{X: 5, Z: -3},
			expected: Vector2D{X: 5, Z: -3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.v1.Add(tt.v2)
			if result != tt.expected {
				t.Errorf("Add() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestVector2D_SubAndScale(t *testing.T) {
	a := Vector2D{X: 5, Z: 7}
	b := Vector2D{X: 2, Z: 3}

	if got := a.Sub(b); got != (Vector2D{X: 3, Z: 4}) {
		t.Errorf("Sub() = %v, expected {3 4}", got)
	}
	if got := a.Scale(-0.5); got != (Vector2D{X: -2.5, Z: -3.5}) {
		t.Errorf("Scale() = %v, expected {-2.5 -3.5}", got)
	}
}

func TestVector2D_Length(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vector2D
		expected float64
	}{
		{"unit_vector_x", Vector2D{X: 1}, 1},
		{"unit_vector_z", Vector2D{Z: 1}, 1},
		{"zero_vector", Vector2D{}, 0},
		{"pythagorean_triple", Vector2D{X: 3, Z: 4}, 5},
		{"negative_components", Vector2D{X: -3, Z: -4}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.vector.Length(); math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("Length() = %v, expected %v", result, tt.expected)
			}
			if result := tt.vector.LengthSquared(); math.Abs(result-tt.expected*tt.expected) > 1e-9 {
				t.Errorf("LengthSquared() = %v, expected %v", result, tt.expected*tt.expected)
			}
		})
	}
}

func TestVector2D_Normalize(t *testing.T) {
	t.Run("regular_vector", func(t *testing.T) {
		result := Vector2D{X: 3, Z: 4}.Normalize()
		if math.Abs(result.X-0.6) > 1e-9 || math.Abs(result.Z-0.8) > 1e-9 {
			t.Errorf("Normalize() = %v, expected (0.6, 0.8)", result)
		}
	})

	t.Run("zero_vector_stays_zero", func(t *testing.T) {
		// Container corrections rely on a zero offset producing no push.
		if result := (Vector2D{}).Normalize(); result != (Vector2D{}) {
			t.Errorf("Normalize() on zero vector = %v, expected zero", result)
		}
	})
}

func TestVector2D_Distance(t *testing.T) {
	a := Vector2D{X: -1, Z: -1}
	b := Vector2D{X: 2, Z: 3}
	if d := a.Distance(b); math.Abs(d-5) > 1e-9 {
		t.Errorf("Distance() = %v, expected 5", d)
	}
}

func TestFromAngle(t *testing.T) {
	tests := []struct {
		name      string
		angle     float64
		magnitude float64
		expectedX float64
		expectedZ float64
	}{
		{"zero_angle_unit_magnitude", 0, 1, 1, 0},
		{"90_degrees_unit_magnitude", math.Pi / 2, 1, 0, 1},
		{"180_degrees_unit_magnitude", math.Pi, 1, -1, 0},
		{"45_degrees_magnitude_2", math.Pi / 4, 2, math.Sqrt2, math.Sqrt2},
		{"zero_magnitude", math.Pi / 4, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FromAngle(tt.angle, tt.magnitude)
			if math.Abs(result.X-tt.expectedX) > 1e-9 || math.Abs(result.Z-tt.expectedZ) > 1e-9 {
				t.Errorf("FromAngle() = %v, expected (%v, %v)", result, tt.expectedX, tt.expectedZ)
			}
		})
	}
}

func TestHorizontalRoundTrip(t *testing.T) {
	p := mgl64.Vec3{1.5, -2, 3.25}
	h := Horizontal(p)
	if h != (Vector2D{X: 1.5, Z: 3.25}) {
		t.Fatalf("Horizontal() = %v", h)
	}
	if back := h.Vec3(-2); back != p {
		t.Errorf("Vec3() = %v, expected %v", back, p)
	}
}

func TestCircle_Contains(t *testing.T) {
	c := Circle{Center: Vector2D{X: 1, Z: 1}, Radius: 2}

	tests := []struct {
		name     string
		point    Vector2D
		expected bool
	}{
		{"center", Vector2D{X: 1, Z: 1}, true},
		{"on_edge", Vector2D{X: 3, Z: 1}, true},
		{"outside", Vector2D{X: 3.1, Z: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Contains(tt.point); got != tt.expected {
				t.Errorf("Contains(%v) = %v, expected %v", tt.point, got, tt.expected)
			}
		})
	}
}
