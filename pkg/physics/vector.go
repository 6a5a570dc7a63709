// pkg/physics/vector.go
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Up is the world up axis. Water surfaces are horizontal planes normal to it.
var Up = mgl64.Vec3{0, 1, 0}

// Vector2D is a vector in the horizontal XZ plane. Drift, container radius and
// surface queries only care about horizontal position.
type Vector2D struct {
	X float64
	Z float64
}

// Horizontal projects a 3D point onto the XZ plane.
func Horizontal(v mgl64.Vec3) Vector2D {
	return Vector2D{X: v.X(), Z: v.Z()}
}

// Vec3 lifts the vector back into 3D at height y.
func (v Vector2D) Vec3(y float64) mgl64.Vec3 {
	return mgl64.Vec3{v.X, y, v.Z}
}

// Add returns the sum of two vectors
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{
		X: v.X + other.X,
		Z: v.Z + other.Z,
	}
}

// Sub returns the difference between two vectors
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{
		X: v.X - other.X,
		Z: v.Z - other.Z,
	}
}

// Scale multiplies the vector by a scalar value
func (v Vector2D) Scale(factor float64) Vector2D {
	return Vector2D{
		X: v.X * factor,
		Z: v.Z * factor,
	}
}

// Length returns the magnitude of the vector
func (v Vector2D) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Z*v.Z)
}

// LengthSquared returns magnitude squared (optimization for comparisons)
func (v Vector2D) LengthSquared() float64 {
	return v.X*v.X + v.Z*v.Z
}

// Normalize returns a unit vector in the same direction
func (v Vector2D) Normalize() Vector2D {
	length := v.Length()
	if length == 0 {
		return Vector2D{}
	}
	return Vector2D{
		X: v.X / length,
		Z: v.Z / length,
	}
}

// Distance returns the distance between two vectors
func (v Vector2D) Distance(other Vector2D) float64 {
	return v.Sub(other).Length()
}

// FromAngle creates a vector from an angle (radians, measured from +X toward +Z)
// and magnitude
func FromAngle(angle float64, magnitude float64) Vector2D {
	return Vector2D{
		X: magnitude * math.Cos(angle),
		Z: magnitude * math.Sin(angle),
	}
}

// Circle is a horizontal disc, used for container walls and spawn areas.
type Circle struct {
	Center Vector2D
	Radius float64
}

// Contains reports whether point lies inside or on the disc.
func (c Circle) Contains(point Vector2D) bool {
	return c.Center.Distance(point) <= c.Radius
}

// isFiniteVec3 reports whether every component is finite.
func isFiniteVec3(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
