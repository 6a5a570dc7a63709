package engo

import (
	"fmt"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-floatsim/pkg/engine"
	"github.com/opd-ai/go-floatsim/pkg/event"
)

func TestHUDSystem_EventLogLimit(t *testing.T) {
	hud := NewHUDSystem(3)

	for i := 0; i < 5; i++ {
		hud.AddEvent(fmt.Sprintf("event %d", i))
	}

	lines := hud.Lines()
	want := []string{"", "event 2", "event 3", "event 4"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Errorf("got %q, want %q", lines, want)
	}
}

func TestHUDSystem_UpdateState(t *testing.T) {
	hud := NewHUDSystem(3)

	st := engine.PondState{
		Tick:      50,
		SimTime:   1,
		Bodies:    make([]engine.BodyState, 4),
		Anomalies: 2,
		Surface:   "closed",
	}
	hud.UpdateState(st, false)
	if got := hud.Lines()[0]; got != "tick 50  t=1.00s  bodies 4  anomalies 2  surface closed" {
		t.Errorf("unexpected status %q", got)
	}

	hud.UpdateState(st, true)
	if lines := hud.Lines(); len(lines) != 2 || lines[1] != "paused" {
		t.Errorf("expected a paused line, got %q", lines)
	}
}

func TestHUDSystem_Subscribe(t *testing.T) {
	bus := event.NewEventBus()
	hud := NewHUDSystem(10)
	hud.Subscribe(bus)

	bus.Publish(event.NewBodyEvent(event.BodySettled, nil, 4, "orange", mgl64.Vec3{}))
	bus.Publish(event.NewAnomalyEvent(nil, 5, 12, 0.24))
	bus.Publish(event.NewSurfaceEvent(event.SurfaceDegraded, nil, "closed", "open"))
	bus.Publish(event.NewSurfaceEvent(event.SurfaceRestored, nil, "open", "half-open"))
	// Not shown.
	bus.Publish(event.NewBodyEvent(event.BodySpawned, nil, 6, "orange", mgl64.Vec3{}))

	want := []string{
		"orange #4 settled",
		"anomaly on #5 at tick 12",
		"water surface degraded",
		"water surface half-open",
	}
	lines := hud.Lines()[1:]
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Errorf("got %q, want %q", lines, want)
	}

	hud.Unsubscribe()
	bus.Publish(event.NewBodyEvent(event.BodySettled, nil, 9, "crate", mgl64.Vec3{}))
	if len(hud.Lines()) != len(want)+1 {
		t.Error("expected no new lines after Unsubscribe")
	}
}

func TestHUDSystem_UpdateWithoutFont(t *testing.T) {
	hud := NewHUDSystem(3)
	hud.AddEvent("something")
	hud.Update(0.016)

	if len(hud.lines) != 0 {
		t.Errorf("expected no text entities without a font, got %d", len(hud.lines))
	}
}
