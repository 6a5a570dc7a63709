// pkg/render/engo/camera.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-floatsim/pkg/physics"
)

// CameraSystem is a side-view camera over the pond. World X runs across the
// screen and world Y runs up it; Z is dropped.
type CameraSystem struct {
	// Target to follow, in the X/Y plane
	target    physics.Vector2D
	targetSet bool

	// Pixels per metre at zoom 1
	pixelsPerMetre float64

	zoom    float32
	minZoom float32
	maxZoom float32

	followSpeed float32
	smoothing   bool

	currentPos physics.Vector2D

	viewWidth  float32
	viewHeight float32
}

// NewCameraSystem creates a camera with a 800x600 viewport
func NewCameraSystem(pixelsPerMetre float64) *CameraSystem {
	return &CameraSystem{
		pixelsPerMetre: pixelsPerMetre,
		zoom:           1.0,
		minZoom:        0.1,
		maxZoom:        8.0,
		followSpeed:    2.0,
		smoothing:      true,
		viewWidth:      800,
		viewHeight:     600,
	}
}

// Remove satisfies the ecs.System interface
func (cs *CameraSystem) Remove(basic ecs.BasicEntity) {}

// Update handles zoom keys and moves toward the target
func (cs *CameraSystem) Update(dt float32) {
	cs.handleZoomInput()
	cs.Follow(dt)
}

func (cs *CameraSystem) handleZoomInput() {
	if scrollY := engo.Input.Mouse.ScrollY; scrollY != 0 {
		cs.SetZoom(cs.zoom * (1.0 + scrollY*0.1))
	}
	if engo.Input.Button(ButtonZoomIn).Down() {
		cs.SetZoom(cs.zoom * 1.02)
	}
	if engo.Input.Button(ButtonZoomOut).Down() {
		cs.SetZoom(cs.zoom * 0.98)
	}
}

// Follow eases the camera toward its target over dt seconds
func (cs *CameraSystem) Follow(dt float32) {
	if !cs.targetSet {
		return
	}
	if !cs.smoothing {
		cs.currentPos = cs.target
		return
	}
	k := float64(cs.followSpeed) * float64(dt)
	if k > 1 {
		k = 1
	}
	cs.currentPos.X += (cs.target.X - cs.currentPos.X) * k
	cs.currentPos.Y += (cs.target.Y - cs.currentPos.Y) * k
}

// SetTarget sets the point the camera follows. The first target is taken
// immediately.
func (cs *CameraSystem) SetTarget(target physics.Vector2D) {
	first := !cs.targetSet
	cs.target = target
	cs.targetSet = true
	if first || !cs.smoothing {
		cs.currentPos = target
	}
}

// ClearTarget stops following
func (cs *CameraSystem) ClearTarget() {
	cs.targetSet = false
}

// SetViewport sets the screen size in pixels
func (cs *CameraSystem) SetViewport(width, height float32) {
	cs.viewWidth = width
	cs.viewHeight = height
}

// SetZoom sets the zoom level, clamped to the camera's range
func (cs *CameraSystem) SetZoom(zoom float32) {
	switch {
	case zoom < cs.minZoom:
		zoom = cs.minZoom
	case zoom > cs.maxZoom:
		zoom = cs.maxZoom
	}
	cs.zoom = zoom
}

// GetZoom returns the current zoom level
func (cs *CameraSystem) GetZoom() float32 {
	return cs.zoom
}

// EnableSmoothing turns eased following on or off
func (cs *CameraSystem) EnableSmoothing(enabled bool) {
	cs.smoothing = enabled
}

// GetCurrentPosition returns the world point at the centre of the screen
func (cs *CameraSystem) GetCurrentPosition() physics.Vector2D {
	return cs.currentPos
}

// Scale is the number of pixels per metre at the current zoom
func (cs *CameraSystem) Scale() float64 {
	return cs.pixelsPerMetre * float64(cs.zoom)
}

// WorldToScreen converts a world X/Y point to screen pixels. Screen Y grows
// downward.
func (cs *CameraSystem) WorldToScreen(x, y float64) engo.Point {
	s := cs.Scale()
	return engo.Point{
		X: float32((x-cs.currentPos.X)*s) + cs.viewWidth/2,
		Y: float32(-(y-cs.currentPos.Y)*s) + cs.viewHeight/2,
	}
}

// ScreenToWorld converts screen pixels back to a world X/Y point
func (cs *CameraSystem) ScreenToWorld(p engo.Point) physics.Vector2D {
	s := cs.Scale()
	return physics.Vector2D{
		X: float64(p.X-cs.viewWidth/2)/s + cs.currentPos.X,
		Y: -float64(p.Y-cs.viewHeight/2)/s + cs.currentPos.Y,
	}
}
