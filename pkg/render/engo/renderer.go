// pkg/render/engo/renderer.go
package engo

import (
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-floatsim/pkg/entity"
)

// renderSink is the part of common.RenderSystem the renderer uses
type renderSink interface {
	Add(basic *ecs.BasicEntity, render *common.RenderComponent, space *common.SpaceComponent)
	Remove(basic ecs.BasicEntity)
}

// sprite is one drawn entity with the components the render system reads
type sprite struct {
	basic  ecs.BasicEntity
	render common.RenderComponent
	space  common.SpaceComponent
	seen   bool
}

var anomalyTint = color.RGBA{255, 80, 80, 255}

// EngoRenderer implements entity.Renderer on top of an engo render system.
// Bodies not drawn between Clear and Present are removed from the scene.
type EngoRenderer struct {
	sink    renderSink
	camera  *CameraSystem
	sprites *SpriteSet

	bodies map[entity.ID]*sprite
	water  []*sprite
}

// NewEngoRenderer creates a renderer drawing into sink through camera
func NewEngoRenderer(sink renderSink, camera *CameraSystem, sprites *SpriteSet) *EngoRenderer {
	return &EngoRenderer{
		sink:    sink,
		camera:  camera,
		sprites: sprites,
		bodies:  make(map[entity.ID]*sprite),
	}
}

// Clear implements entity.Renderer
func (r *EngoRenderer) Clear() {
	for _, s := range r.bodies {
		s.seen = false
	}
}

// Present implements entity.Renderer
func (r *EngoRenderer) Present() {
	for id, s := range r.bodies {
		if !s.seen {
			r.sink.Remove(s.basic)
			delete(r.bodies, id)
		}
	}
}

// RenderBody implements entity.Renderer
func (r *EngoRenderer) RenderBody(body *entity.FloatingBody) {
	s, ok := r.bodies[body.ID]
	if !ok {
		s = &sprite{basic: ecs.NewBasic()}
		s.render.SetZIndex(1)
		r.bodies[body.ID] = s
		r.sink.Add(&s.basic, &s.render, &s.space)
	}
	s.seen = true

	if d, ok := r.sprites.Drawable(KeyFor(body)); ok {
		s.render.Drawable = d
	}
	s.render.Color = color.White
	if body.Anomalies > 0 {
		s.render.Color = anomalyTint
	}

	size := float32(r.sprites.Size())
	center := r.camera.WorldToScreen(body.Position.X(), body.Position.Y())
	s.space.Width = size
	s.space.Height = size
	s.space.Position = engo.Point{X: center.X - size/2, Y: center.Y - size/2}
	s.space.Rotation = float32(body.Yaw)
}

// RenderWater lays one water tile per column along height, sampled at the
// world X under each column centre.
func (r *EngoRenderer) RenderWater(height func(x float64) float64, columns int) {
	for len(r.water) < columns {
		s := &sprite{basic: ecs.NewBasic()}
		s.render.Drawable = r.sprites.WaterDrawable()
		r.water = append(r.water, s)
		r.sink.Add(&s.basic, &s.render, &s.space)
	}

	width := r.camera.viewWidth / float32(columns)
	for i := 0; i < columns; i++ {
		s := r.water[i]
		x := float32(i)*width + width/2
		world := r.camera.ScreenToWorld(engo.Point{X: x})
		top := r.camera.WorldToScreen(world.X, height(world.X))

		s.space.Position = engo.Point{X: x - width/2, Y: top.Y}
		s.space.Width = width
		s.space.Height = r.camera.viewHeight - top.Y
		if s.space.Height < 0 {
			s.space.Height = 0
		}
		if d := r.sprites.WaterDrawable(); d != nil {
			s.render.Drawable = d
			s.render.Scale = engo.Point{
				X: width / d.Width(),
				Y: s.space.Height / d.Height(),
			}
		}
	}
}

// Sprite returns the space component drawn for a body
func (r *EngoRenderer) Sprite(id entity.ID) (common.SpaceComponent, bool) {
	s, ok := r.bodies[id]
	if !ok {
		return common.SpaceComponent{}, false
	}
	return s.space, true
}

// Len returns the number of bodies currently in the scene
func (r *EngoRenderer) Len() int {
	return len(r.bodies)
}
