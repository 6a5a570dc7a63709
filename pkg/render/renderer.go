// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-floatsim/pkg/entity"
	"github.com/opd-ai/go-floatsim/pkg/logging"
)

// NullRenderer is a simple implementation of entity.Renderer for headless
// runs. It draws nothing and logs each call at debug level.
type NullRenderer struct {
	logger *logging.Logger
	frames int
}

// NewNullRenderer creates a new NullRenderer with structured logging.
func NewNullRenderer() *NullRenderer {
	return NewNullRendererWithLogger(logging.NewLogger())
}

// NewNullRendererWithLogger creates a NullRenderer that logs to logger.
func NewNullRendererWithLogger(logger *logging.Logger) *NullRenderer {
	return &NullRenderer{logger: logger}
}

// Frames returns the number of frames presented so far.
func (d *NullRenderer) Frames() int {
	return d.frames
}

// Clear implements entity.Renderer.
func (d *NullRenderer) Clear() {
	ctx := context.Background()
	d.logger.Debug(ctx, "Clear called")
}

// Present implements entity.Renderer.
func (d *NullRenderer) Present() {
	ctx := context.Background()
	d.frames++
	d.logger.Debug(ctx, "Present called", "frame", d.frames)
}

// RenderBody implements entity.Renderer.
func (d *NullRenderer) RenderBody(body *entity.FloatingBody) {
	ctx := context.Background()
	if body == nil {
		d.logger.Debug(ctx, "RenderBody called with nil body")
		return
	}
	d.logger.Debug(ctx, "RenderBody called",
		"body_id", uint64(body.ID),
		"kind", body.Kind,
		"state", body.State.String(),
		"y", body.Position.Y(),
	)
}

// NullRendererInstance is a global instance of NullRenderer for convenience.
var NullRendererInstance entity.Renderer = NewNullRendererWithLogger(logging.NewDiscardLogger())
