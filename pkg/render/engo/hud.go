// pkg/render/engo/hud.go
package engo

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/opd-ai/go-floatsim/pkg/engine"
	"github.com/opd-ai/go-floatsim/pkg/event"
)

const hudFontURL = "hud/goregular.ttf"

// HUDSystem shows the pond status line and a short log of notable events
type HUDSystem struct {
	mu sync.Mutex

	status      string
	events      []string
	maxEvents   int
	paused      bool
	subscribed  []*event.Subscription
	font        *common.Font
	sink        renderSink
	lines       []*sprite
	lineSpacing float32
}

// NewHUDSystem creates a HUD keeping the last maxEvents log lines
func NewHUDSystem(maxEvents int) *HUDSystem {
	return &HUDSystem{
		maxEvents:   maxEvents,
		lineSpacing: 18,
	}
}

// Remove satisfies the ecs.System interface
func (hud *HUDSystem) Remove(basic ecs.BasicEntity) {}

// Update pushes the current lines into the text entities, if a font is set
func (hud *HUDSystem) Update(dt float32) {
	if hud.font == nil || hud.sink == nil {
		return
	}
	lines := hud.Lines()
	for len(hud.lines) < len(lines) {
		s := &sprite{basic: ecs.NewBasic()}
		s.render.SetShader(common.TextHUDShader)
		s.render.SetZIndex(10)
		s.space.Position = engo.Point{X: 10, Y: 10 + float32(len(hud.lines))*hud.lineSpacing}
		hud.lines = append(hud.lines, s)
		hud.sink.Add(&s.basic, &s.render, &s.space)
	}
	for i, s := range hud.lines {
		text := ""
		if i < len(lines) {
			text = lines[i]
		}
		s.render.Drawable = common.Text{Font: hud.font, Text: text}
	}
}

// LoadFont registers the bundled font and attaches the HUD to sink. It needs
// a GL context.
func (hud *HUDSystem) LoadFont(sink renderSink) error {
	if err := engo.Files.LoadReaderData(hudFontURL, bytes.NewReader(goregular.TTF)); err != nil {
		return fmt.Errorf("hud font: %w", err)
	}
	font := &common.Font{
		URL:  hudFontURL,
		FG:   color.White,
		Size: 14,
	}
	if err := font.CreatePreloaded(); err != nil {
		return fmt.Errorf("hud font: %w", err)
	}
	hud.font = font
	hud.sink = sink
	return nil
}

// Subscribe logs settle, anomaly and surface events from bus
func (hud *HUDSystem) Subscribe(bus *event.Bus) {
	hud.subscribed = append(hud.subscribed,
		bus.Subscribe(event.BodySettled, func(e event.Event) {
			if be, ok := e.(*event.BodyEvent); ok {
				hud.AddEvent(fmt.Sprintf("%s #%d settled", be.Kind, be.BodyID))
			}
		}),
		bus.Subscribe(event.NumericAnomaly, func(e event.Event) {
			if ae, ok := e.(*event.AnomalyEvent); ok {
				hud.AddEvent(fmt.Sprintf("anomaly on #%d at tick %d", ae.BodyID, ae.Tick))
			}
		}),
		bus.Subscribe(event.SurfaceDegraded, func(e event.Event) {
			hud.AddEvent("water surface degraded")
		}),
		bus.Subscribe(event.SurfaceRestored, func(e event.Event) {
			if se, ok := e.(*event.SurfaceEvent); ok {
				hud.AddEvent("water surface " + se.To)
			}
		}),
	)
}

// Unsubscribe drops every bus subscription
func (hud *HUDSystem) Unsubscribe() {
	for _, s := range hud.subscribed {
		s.Cancel()
	}
	hud.subscribed = nil
}

// AddEvent appends a log line, dropping the oldest past the limit
func (hud *HUDSystem) AddEvent(line string) {
	hud.mu.Lock()
	defer hud.mu.Unlock()
	hud.events = append(hud.events, line)
	if over := len(hud.events) - hud.maxEvents; over > 0 {
		hud.events = append(hud.events[:0], hud.events[over:]...)
	}
}

// UpdateState refreshes the status line from a pond snapshot
func (hud *HUDSystem) UpdateState(st engine.PondState, paused bool) {
	hud.mu.Lock()
	defer hud.mu.Unlock()
	hud.status = fmt.Sprintf("tick %d  t=%.2fs  bodies %d  anomalies %d  surface %s",
		st.Tick, st.SimTime, len(st.Bodies), st.Anomalies, st.Surface)
	hud.paused = paused
}

// Lines returns the text the HUD shows, top to bottom
func (hud *HUDSystem) Lines() []string {
	hud.mu.Lock()
	defer hud.mu.Unlock()
	lines := make([]string, 0, len(hud.events)+2)
	lines = append(lines, hud.status)
	if hud.paused {
		lines = append(lines, "paused")
	}
	return append(lines, hud.events...)
}
