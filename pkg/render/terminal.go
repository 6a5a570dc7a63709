package render

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-floatsim/pkg/engine"
	"github.com/opd-ai/go-floatsim/pkg/entity"
	"github.com/opd-ai/go-floatsim/pkg/physics"
)

// Glyphs used by the terminal view.
const (
	waterGlyph     = '~'
	wallGlyph      = '|'
	floatingGlyph  = 'o'
	lockedGlyph    = '*'
	settledGlyph   = '_'
	containedGlyph = '°'
)

var (
	waterStyle   = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	wallStyle    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	bodyStyle    = tcell.StyleDefault.Foreground(tcell.ColorOrange)
	settledStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	anomalyStyle = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	statusStyle  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
)

// TerminalRenderer draws a side view of the pond (X across, Y up) on a tcell
// screen. The top row is kept for a status line.
type TerminalRenderer struct {
	screen  tcell.Screen
	scale   float64 // world metres per cell
	centerX float64
	centerY float64
}

// NewTerminalRenderer creates a renderer over an initialised screen.
func NewTerminalRenderer(screen tcell.Screen, scale float64) *TerminalRenderer {
	return &TerminalRenderer{
		screen: screen,
		scale:  scale,
	}
}

// SetCenter sets the world point shown in the middle of the screen
func (r *TerminalRenderer) SetCenter(x, y float64) {
	r.centerX = x
	r.centerY = y
}

// worldToScreen converts world coordinates to screen cells. Screen rows grow
// downward, so Y is flipped.
func (r *TerminalRenderer) worldToScreen(x, y float64) (int, int) {
	w, h := r.screen.Size()
	col := int(math.Floor((x-r.centerX)/r.scale + float64(w)/2))
	row := int(math.Floor(-(y-r.centerY)/r.scale + float64(h)/2))
	return col, row
}

// screenToWorldX is the world X at the middle of a column.
func (r *TerminalRenderer) screenToWorldX(col int) float64 {
	w, _ := r.screen.Size()
	return (float64(col)+0.5-float64(w)/2)*r.scale + r.centerX
}

func (r *TerminalRenderer) set(col, row int, glyph rune, style tcell.Style) {
	w, h := r.screen.Size()
	if col < 0 || col >= w || row < 1 || row >= h {
		return
	}
	r.screen.SetContent(col, row, glyph, nil, style)
}

// Clear implements entity.Renderer
func (r *TerminalRenderer) Clear() {
	r.screen.Clear()
}

// Present implements entity.Renderer
func (r *TerminalRenderer) Present() {
	r.screen.Show()
}

// RenderBody implements entity.Renderer
func (r *TerminalRenderer) RenderBody(body *entity.FloatingBody) {
	col, row := r.worldToScreen(body.Position.X(), body.Position.Y())

	glyph, style := floatingGlyph, bodyStyle
	switch {
	case body.State == entity.Settled:
		glyph, style = settledGlyph, settledStyle
	case body.Policy == entity.SurfaceLocked:
		glyph = lockedGlyph
	case body.Policy == entity.Contained:
		glyph = containedGlyph
	}
	if body.Anomalies > 0 {
		style = anomalyStyle
	}
	r.set(col, row, glyph, style)
}

// RenderWater draws the water line, sampling height once per column.
func (r *TerminalRenderer) RenderWater(height func(x float64) float64) {
	w, _ := r.screen.Size()
	for col := 0; col < w; col++ {
		_, row := r.worldToScreen(0, height(r.screenToWorldX(col)))
		r.set(col, row, waterGlyph, waterStyle)
	}
}

// RenderContainer draws the container's walls and its water line.
func (r *TerminalRenderer) RenderContainer(c physics.Container) {
	left, bottom := r.worldToScreen(c.Center.X()-c.Radius, c.Center.Y()+c.MinY)
	right, top := r.worldToScreen(c.Center.X()+c.Radius, c.Center.Y()+c.MaxY)
	for row := top; row <= bottom; row++ {
		r.set(left, row, wallGlyph, wallStyle)
		r.set(right, row, wallGlyph, wallStyle)
	}
	_, waterRow := r.worldToScreen(0, c.Center.Y()+c.WaterLevel)
	for col := left + 1; col < right; col++ {
		r.set(col, waterRow, waterGlyph, waterStyle)
	}
}

// RenderStatus writes text on the top row.
func (r *TerminalRenderer) RenderStatus(text string) {
	w, _ := r.screen.Size()
	col := 0
	for _, ch := range text {
		if col >= w {
			break
		}
		r.screen.SetContent(col, 0, ch, nil, statusStyle)
		col++
	}
}

// DrawPond renders one frame of a pond snapshot.
func (r *TerminalRenderer) DrawPond(pond *engine.Pond) {
	st := pond.State()

	r.Clear()
	if st.Container == nil {
		r.RenderWater(func(x float64) float64 {
			return pond.SurfaceHeight(physics.Vector2D{X: x})
		})
	} else {
		r.RenderContainer(*st.Container)
	}

	bodies := pond.Bodies()
	for i := range bodies {
		bodies[i].Render(r)
	}

	r.RenderStatus(fmt.Sprintf(" tick %d  t=%.2fs  bodies %d  anomalies %d  surface %s ",
		st.Tick, st.SimTime, len(st.Bodies), st.Anomalies, st.Surface))
	r.Present()
}
