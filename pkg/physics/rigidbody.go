package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultGravity is standard gravity along -Y in m/s².
var DefaultGravity = mgl64.Vec3{0, -9.81, 0}

// RigidBody is the host-side state of a simulated object. The simulator
// reads it; only the host integrator writes it.
type RigidBody struct {
	Body
	Mass        float64
	LinearDrag  float64
	AngularDrag float64
	// Yaw is the heading around the up axis, in degrees within [0, 360).
	Yaw float64
}

// Integrate advances rb by one semi-implicit Euler step using a force-mode
// update from the simulator. Decay scales apply first, then velocity
// changes, then accelerations, then the body's own drag.
func Integrate(rb *RigidBody, update ForceUpdate, gravity mgl64.Vec3, dt float64) {
	rb.Velocity = rb.Velocity.Mul(update.VelocityScale).Add(update.VelocityChange)
	rb.AngularVelocity = rb.AngularVelocity.Mul(update.AngularVelocityScale)

	accel := gravity.Add(update.Force)
	rb.Velocity = rb.Velocity.Add(accel.Mul(dt))

	rb.Velocity = rb.Velocity.Mul(dragFactor(rb.LinearDrag, dt))
	rb.AngularVelocity = rb.AngularVelocity.Mul(dragFactor(rb.AngularDrag, dt))

	rb.Position = rb.Position.Add(rb.Velocity.Mul(dt))
	rb.Yaw = wrapDegrees(rb.Yaw + mgl64.RadToDeg(rb.AngularVelocity.Y()*dt))
}

// Place applies a surface-lock update. Velocities are zeroed because a locked
// body is not moved by the solver.
func Place(rb *RigidBody, update LockUpdate) {
	rb.Position = update.Target
	rb.Velocity = mgl64.Vec3{}
	rb.AngularVelocity = mgl64.Vec3{}
	rb.Yaw = wrapDegrees(rb.Yaw + update.SpinDelta)
}

// dragFactor is the per-step linear damping multiplier, clamped at zero so
// very high drag stops a body instead of reversing it.
func dragFactor(drag, dt float64) float64 {
	return math.Max(0, 1-drag*dt)
}

func wrapDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
