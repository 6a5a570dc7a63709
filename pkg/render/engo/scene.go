// pkg/render/engo/scene.go
package engo

import (
	"context"
	"image/color"
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-floatsim/pkg/engine"
	"github.com/opd-ai/go-floatsim/pkg/logging"
	"github.com/opd-ai/go-floatsim/pkg/physics"
)

const (
	// maxStepsPerFrame bounds catch-up after a slow frame
	maxStepsPerFrame = 5
	waterColumns     = 64
	spriteSize       = 24
	pixelsPerMetre   = 60
)

// PondScene is an engo scene that steps a pond at its fixed rate and draws
// it side-on
type PondScene struct {
	pond   *engine.Pond
	logger *logging.Logger

	renderer *EngoRenderer
	camera   *CameraSystem
	input    *InputSystem
	hud      *HUDSystem
	sprites  *SpriteSet

	accumulator float64
	paused      bool
}

// NewPondScene creates a scene over pond. spawnProfile is the profile the
// spawn key drops.
func NewPondScene(pond *engine.Pond, logger *logging.Logger, spawnProfile string) *PondScene {
	scene := &PondScene{
		pond:    pond,
		logger:  logger,
		camera:  NewCameraSystem(pixelsPerMetre),
		hud:     NewHUDSystem(8),
		sprites: NewSpriteSet(spriteSize),
	}
	scene.input = NewInputSystem(scene, spawnProfile)
	return scene
}

// Type returns the scene type (required by Engo)
func (scene *PondScene) Type() string {
	return "PondScene"
}

// Preload is called before the scene starts (required by Engo)
func (scene *PondScene) Preload() {}

// Setup is called when the scene starts (required by Engo)
func (scene *PondScene) Setup(u engo.Updater) {
	ctx := context.Background()
	world, _ := u.(*ecs.World)
	common.SetBackground(color.RGBA{200, 225, 240, 255})

	if err := scene.sprites.Load(); err != nil {
		scene.logger.Error(ctx, "failed to load sprites", err)
	}

	renderSys := &common.RenderSystem{}
	world.AddSystem(renderSys)

	scene.camera.SetViewport(engo.GameWidth(), engo.GameHeight())
	scene.renderer = NewEngoRenderer(renderSys, scene.camera, scene.sprites)

	SetupInputBindings()
	if err := scene.hud.LoadFont(renderSys); err != nil {
		scene.logger.Warn(ctx, "HUD text disabled", "error", err)
	}
	scene.hud.Subscribe(scene.pond.EventBus)

	world.AddSystem(scene.input)
	world.AddSystem(&pondSystem{scene: scene})
	world.AddSystem(scene.camera)
	world.AddSystem(scene.hud)

	scene.logger.Info(ctx, "pond scene ready", "bodies", scene.pond.Len())
}

// Exit is called when the scene is exiting (required by Engo)
func (scene *PondScene) Exit() {
	scene.hud.Unsubscribe()
	scene.logger.Info(context.Background(), "pond scene exiting", "ticks", scene.pond.Tick())
}

// TogglePause stops or restarts stepping
func (scene *PondScene) TogglePause() {
	scene.paused = !scene.paused
}

// Paused reports whether stepping is stopped
func (scene *PondScene) Paused() bool {
	return scene.paused
}

// advance adds dt seconds of frame time and runs every whole tick it covers,
// up to maxStepsPerFrame. Leftover time past the cap is dropped.
func (scene *PondScene) advance(dt float32) int {
	if scene.paused {
		return 0
	}
	step := scene.pond.TimeStep()
	scene.accumulator += float64(dt)

	steps := 0
	for scene.accumulator >= step && steps < maxStepsPerFrame {
		scene.pond.Step()
		scene.accumulator -= step
		steps++
	}
	if steps == maxStepsPerFrame {
		scene.accumulator = 0
	}
	return steps
}

// draw renders the current pond state and points the camera at the bodies
func (scene *PondScene) draw() {
	st := scene.pond.State()

	if c, ok := scene.pond.Container(); ok {
		scene.renderer.RenderWater(containerWater(c), waterColumns)
	} else {
		scene.renderer.RenderWater(func(x float64) float64 {
			return scene.pond.SurfaceHeight(physics.Vector2D{X: x})
		}, waterColumns)
	}

	scene.renderer.Clear()
	bodies := scene.pond.Bodies()
	var sum physics.Vector2D
	for i := range bodies {
		bodies[i].Render(scene.renderer)
		sum.X += bodies[i].Position.X()
		sum.Y += bodies[i].Position.Y()
	}
	scene.renderer.Present()

	if n := float64(len(bodies)); n > 0 {
		scene.camera.SetTarget(physics.Vector2D{X: sum.X / n, Y: sum.Y / n})
	}
	scene.hud.UpdateState(st, scene.paused)
}

// containerWater is the container's water line across its width; outside
// the walls there is no water.
func containerWater(c physics.Container) func(x float64) float64 {
	return func(x float64) float64 {
		if math.Abs(x-c.Center.X()) > c.Radius {
			return math.Inf(-1)
		}
		return c.Center.Y() + c.WaterLevel
	}
}

// pondSystem steps and draws the pond once per frame
type pondSystem struct {
	scene *PondScene
}

func (s *pondSystem) Remove(basic ecs.BasicEntity) {}

func (s *pondSystem) Update(dt float32) {
	s.scene.advance(dt)
	s.scene.draw()
}
