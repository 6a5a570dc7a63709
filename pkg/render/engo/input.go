// pkg/render/engo/input.go
package engo

import (
	"context"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-floatsim/pkg/engine"
	"github.com/opd-ai/go-floatsim/pkg/entity"
	"github.com/opd-ai/go-floatsim/pkg/logging"
)

// Button names registered by SetupInputBindings
const (
	ButtonPause          = "pause"
	ButtonSpawn          = "spawn"
	ButtonReenable       = "reenable"
	ButtonContainerLeft  = "containerLeft"
	ButtonContainerRight = "containerRight"
	ButtonZoomIn         = "zoomIn"
	ButtonZoomOut        = "zoomOut"
)

// containerNudge is how far one key press moves the container, in metres
const containerNudge = 0.05

// InputSystem turns key presses into pond commands
type InputSystem struct {
	pond   *engine.Pond
	scene  *PondScene
	logger *logging.Logger

	// Profile spawned by the spawn key
	spawnProfile string
	spawnRadius  float64
}

// NewInputSystem creates an input system acting on scene's pond
func NewInputSystem(scene *PondScene, spawnProfile string) *InputSystem {
	return &InputSystem{
		pond:         scene.pond,
		scene:        scene,
		logger:       scene.logger,
		spawnProfile: spawnProfile,
		spawnRadius:  1.0,
	}
}

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {}

// Update reads the bound buttons
func (is *InputSystem) Update(dt float32) {
	if engo.Input.Button(ButtonPause).JustPressed() {
		is.scene.TogglePause()
	}
	if engo.Input.Button(ButtonSpawn).JustPressed() {
		is.Spawn()
	}
	if engo.Input.Button(ButtonReenable).JustPressed() {
		is.ReenableAll()
	}
	if engo.Input.Button(ButtonContainerLeft).Down() {
		is.NudgeContainer(-containerNudge)
	}
	if engo.Input.Button(ButtonContainerRight).Down() {
		is.NudgeContainer(containerNudge)
	}
}

// Spawn drops one body of the spawn profile near the camera target. Contained
// profiles go into the container.
func (is *InputSystem) Spawn() []entity.ID {
	ctx := context.Background()
	pos := is.scene.camera.GetCurrentPosition()
	ids, err := is.pond.SpawnScatter(is.spawnProfile, 1, mgl64.Vec3{pos.X, 0, 0}, is.spawnRadius, 0.5)
	if err != nil {
		is.logger.Warn(ctx, "spawn failed", "profile", is.spawnProfile, "error", err)
		return nil
	}
	return ids
}

// ReenableAll returns every settled body to floating and reports how many
// changed
func (is *InputSystem) ReenableAll() int {
	ctx := context.Background()
	n := 0
	for _, b := range is.pond.Bodies() {
		if b.State != entity.Settled {
			continue
		}
		if err := is.pond.Reenable(b.ID); err != nil {
			is.logger.Warn(ctx, "reenable failed", "body_id", uint64(b.ID), "error", err)
			continue
		}
		n++
	}
	return n
}

// NudgeContainer moves the container along X by dx. It does nothing in a
// pond without a container.
func (is *InputSystem) NudgeContainer(dx float64) bool {
	c, ok := is.pond.Container()
	if !ok {
		return false
	}
	if err := is.pond.MoveContainer(c.Center.Add(mgl64.Vec3{dx, 0, 0})); err != nil {
		is.logger.Warn(context.Background(), "move container failed", "error", err)
		return false
	}
	return true
}

// SetupInputBindings registers the viewer's key bindings
func SetupInputBindings() {
	engo.Input.RegisterButton(ButtonPause, engo.KeySpace)
	engo.Input.RegisterButton(ButtonSpawn, engo.KeyO)
	engo.Input.RegisterButton(ButtonReenable, engo.KeyR)
	engo.Input.RegisterButton(ButtonContainerLeft, engo.KeyArrowLeft, engo.KeyA)
	engo.Input.RegisterButton(ButtonContainerRight, engo.KeyArrowRight, engo.KeyD)
	engo.Input.RegisterButton(ButtonZoomIn, engo.KeyEquals)
	engo.Input.RegisterButton(ButtonZoomOut, engo.KeyDash)
}
