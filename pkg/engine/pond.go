// pkg/engine/pond.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/EngoEngine/ecs"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sony/gobreaker"

	"github.com/opd-ai/go-floatsim/pkg/config"
	"github.com/opd-ai/go-floatsim/pkg/entity"
	"github.com/opd-ai/go-floatsim/pkg/event"
	"github.com/opd-ai/go-floatsim/pkg/logging"
	"github.com/opd-ai/go-floatsim/pkg/physics"
	"github.com/opd-ai/go-floatsim/pkg/validation"
)

var (
	// ErrUnknownBody is returned for ids the pond does not hold.
	ErrUnknownBody = errors.New("unknown body")
	// ErrUnknownZone is returned for zone names the pond was not built with.
	ErrUnknownZone = errors.New("unknown zone")
)

// anomalyLogBurst is how many anomaly warnings one body may log per
// simulated second.
const anomalyLogBurst = 3

// BodySpec describes a body to spawn.
type BodySpec struct {
	Kind        string
	Profile     physics.Profile
	Policy      entity.Policy
	Position    mgl64.Vec3
	Velocity    mgl64.Vec3
	Yaw         float64
	Mass        float64
	LinearDrag  float64
	AngularDrag float64
}

// bodyRecord is everything the pond keeps per body.
type bodyRecord struct {
	basic ecs.BasicEntity
	body  *entity.FloatingBody
	sim   *physics.Simulator

	// Results of the buoyancy pass, consumed by the integration pass.
	force physics.ForceUpdate
	lock  physics.LockUpdate

	// Zones the body was inside after the last zone pass.
	inside map[string]bool
}

// Option configures a Pond.
type Option func(*Pond)

// WithLogger sets the pond's logger.
func WithLogger(l *logging.Logger) Option {
	return func(p *Pond) { p.logger = l }
}

// WithEventBus makes the pond publish on an existing bus.
func WithEventBus(b *event.Bus) Option {
	return func(p *Pond) { p.EventBus = b }
}

// Pond owns a set of floating bodies and steps them at a fixed rate. It is
// the host side of the buoyancy simulator: it integrates the forces the
// simulators return and handles zones and spawning.
type Pond struct {
	EventBus *event.Bus

	cfg       *config.PondConfig
	surface   physics.Surface
	guard     *physics.GuardedSurface
	container *physics.Container
	zones     []Zone
	profiles  map[string]config.ProfileConfig
	gravity   mgl64.Vec3
	timeStep  float64

	world       *ecs.World
	zoneSys     *zoneSystem
	buoyancySys *buoyancySystem
	motionSys   *integrationSystem
	bodies      map[entity.ID]*bodyRecord
	order       []entity.ID
	rng         *rand.Rand
	spawned     int64

	tick      uint64
	simTime   float64
	lastTick  time.Time
	anomalies uint64
	running   bool

	// Anomaly warnings per body per simulated second
	anomalyLog *logThrottle

	// Last breaker state seen by onSurfaceStateChange.
	surfaceState gobreaker.State

	// Events raised while the lock is held; published once it is released.
	pending []event.Event
	stepCtx context.Context

	logger *logging.Logger
	mu     sync.RWMutex
}

// NewPond validates cfg and builds a pond over surface. Spawns listed in cfg
// are created immediately.
func NewPond(cfg *config.PondConfig, surface physics.Surface, opts ...Option) (*Pond, error) {
	if cfg == nil {
		return nil, fmt.Errorf("pond: config: %w", physics.ErrMissingReference)
	}
	if surface == nil {
		return nil, fmt.Errorf("pond: water surface: %w", physics.ErrMissingReference)
	}
	if err := cfg.Validate(); err != nil {
		return nil, logging.WrapError(err, "pond: invalid config")
	}

	p := &Pond{
		EventBus: event.NewEventBus(),
		cfg:      cfg,
		surface:  surface,
		profiles: cfg.Profiles,
		gravity:  mgl64.Vec3{0, cfg.Gravity, 0},
		timeStep: cfg.TimeStep,
		world:    &ecs.World{},
		bodies:   make(map[entity.ID]*bodyRecord),
		rng:      rand.New(rand.NewPCG(uint64(cfg.Seed), 0x5851f42d4c957f2d)),
		logger:   logging.NewDiscardLogger(),
		stepCtx:  context.Background(),

		anomalyLog: newLogThrottle(anomalyLogBurst, 1),
	}
	for _, opt := range opts {
		opt(p)
	}

	if cfg.Guard.Enabled {
		if err := p.guardSurface(); err != nil {
			return nil, err
		}
	}
	if cfg.Container != nil {
		c := *cfg.Container
		p.container = &c
	}
	for _, zc := range cfg.Zones {
		p.zones = append(p.zones, NewZone(zc))
	}

	p.zoneSys = &zoneSystem{pond: p}
	p.buoyancySys = &buoyancySystem{pond: p}
	p.motionSys = &integrationSystem{pond: p}
	p.world.AddSystem(p.zoneSys)
	p.world.AddSystem(p.buoyancySys)
	p.world.AddSystem(p.motionSys)

	for i, s := range cfg.Spawns {
		if _, err := p.SpawnScatter(s.Profile, s.Count, s.Center, s.Radius, s.HeightOffset); err != nil {
			return nil, fmt.Errorf("pond: spawns[%d]: %w", i, err)
		}
	}

	return p, nil
}

// NewPondFromConfig builds a pond over the sine surface described in cfg.
func NewPondFromConfig(cfg *config.PondConfig, opts ...Option) (*Pond, error) {
	if cfg == nil {
		return nil, fmt.Errorf("pond: config: %w", physics.ErrMissingReference)
	}
	return NewPond(cfg, cfg.Surface, opts...)
}

func (p *Pond) guardSurface() error {
	g := p.cfg.Guard
	guard, err := physics.NewGuardedSurface(p.surface, physics.GuardSettings{
		Name:                   "water-surface",
		MaxConsecutiveFailures: g.MaxConsecutiveFailures,
		Timeout:                time.Duration(g.TimeoutSeconds * float64(time.Second)),
		Fallback:               g.FallbackHeight,
		OnStateChange:          p.onSurfaceStateChange,
	})
	if err != nil {
		return fmt.Errorf("pond: %w", err)
	}
	p.guard = guard
	p.surface = guard
	return nil
}

// onSurfaceStateChange runs inside a surface sample, so with the lock held.
func (p *Pond) onSurfaceStateChange(from, to gobreaker.State) {
	p.surfaceState = to
	eventType := event.SurfaceRestored
	if to == gobreaker.StateOpen {
		eventType = event.SurfaceDegraded
		p.logger.Warn(p.stepCtx, "water surface degraded, serving fallback height",
			"from", from.String(), "to", to.String(), "tick", p.tick)
	} else {
		p.logger.Info(p.stepCtx, "water surface breaker changed state",
			"from", from.String(), "to", to.String(), "tick", p.tick)
	}
	p.pending = append(p.pending, event.NewSurfaceEvent(eventType, p, from.String(), to.String()))
}

// Spawn adds one body and returns its id.
func (p *Pond) Spawn(spec BodySpec) (entity.ID, error) {
	p.mu.Lock()
	id, err := p.spawnLocked(spec)
	events := p.takePending()
	p.mu.Unlock()

	p.publish(events)
	return id, err
}

func (p *Pond) spawnLocked(spec BodySpec) (entity.ID, error) {
	if !isFiniteVec3(spec.Position) || !isFiniteVec3(spec.Velocity) {
		return 0, fmt.Errorf("spawn %q: position and velocity must be finite: %w", spec.Kind, physics.ErrInvalidParameter)
	}
	if err := validation.Collect(
		validation.NonNegative("linearDrag", spec.LinearDrag),
		validation.NonNegative("angularDrag", spec.AngularDrag),
		validation.Finite("yaw", spec.Yaw),
	); err != nil {
		return 0, fmt.Errorf("spawn %q: %w", spec.Kind, err)
	}

	seed := p.cfg.Seed + p.spawned*7919
	phase := p.rng.Float64() * 2 * math.Pi

	var (
		sim *physics.Simulator
		err error
	)
	switch spec.Policy {
	case entity.Contained:
		if p.container == nil {
			return 0, fmt.Errorf("spawn %q: container: %w", spec.Kind, physics.ErrMissingReference)
		}
		sim, err = physics.NewContainerSimulator(spec.Profile, p.container, seed, phase)
	default:
		sim, err = physics.NewSimulator(spec.Profile, p.surface, seed, phase)
	}
	if err != nil {
		return 0, fmt.Errorf("spawn %q: %w", spec.Kind, err)
	}

	basic := ecs.NewBasic()
	id := entity.ID(basic.ID())
	body := entity.NewFloatingBody(id, spec.Kind, spec.Profile, spec.Policy, physics.RigidBody{
		Body:        physics.Body{Position: spec.Position, Velocity: spec.Velocity},
		Mass:        spec.Mass,
		LinearDrag:  spec.LinearDrag,
		AngularDrag: spec.AngularDrag,
		Yaw:         spec.Yaw,
	})
	body.Seed = seed
	body.Phase = phase

	rec := &bodyRecord{
		basic:  basic,
		body:   body,
		sim:    sim,
		inside: make(map[string]bool),
	}
	p.bodies[id] = rec
	p.order = append(p.order, id)
	p.zoneSys.Add(&rec.basic, rec)
	p.buoyancySys.Add(&rec.basic, rec)
	p.motionSys.Add(&rec.basic, rec)
	p.spawned++

	p.logger.Debug(p.stepCtx, "body spawned", "body_id", uint64(id), "kind", spec.Kind,
		"policy", spec.Policy.String(), "x", spec.Position.X(), "y", spec.Position.Y(), "z", spec.Position.Z())
	p.pending = append(p.pending, event.NewBodyEvent(event.BodySpawned, p, uint64(id), spec.Kind, spec.Position))
	return id, nil
}

// Remove deletes a body from the pond.
func (p *Pond) Remove(id entity.ID) error {
	p.mu.Lock()
	rec, ok := p.bodies[id]
	if !ok {
		p.mu.Unlock()
		return fmt.Errorf("remove %d: %w", id, ErrUnknownBody)
	}
	delete(p.bodies, id)
	p.order = slices.DeleteFunc(p.order, func(other entity.ID) bool { return other == id })
	p.world.RemoveEntity(rec.basic)
	p.anomalyLog.Forget(id)
	p.mu.Unlock()

	p.publish([]event.Event{event.NewBodyEvent(event.BodyRemoved, p, uint64(id), rec.body.Kind, rec.body.Position)})
	return nil
}

// Body returns a copy of the body's current record.
func (p *Pond) Body(id entity.ID) (entity.FloatingBody, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	rec, ok := p.bodies[id]
	if !ok {
		return entity.FloatingBody{}, false
	}
	return *rec.body, true
}

// Bodies returns copies of all bodies in spawn order.
func (p *Pond) Bodies() []entity.FloatingBody {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]entity.FloatingBody, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, *p.bodies[id].body)
	}
	return out
}

// Len returns the number of bodies in the pond.
func (p *Pond) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.order)
}

// Step advances the pond by one fixed tick.
func (p *Pond) Step() {
	p.step(context.Background())
}

func (p *Pond) step(ctx context.Context) {
	p.mu.Lock()
	p.stepCtx = ctx
	p.world.Update(float32(p.timeStep))
	p.tick++
	p.simTime = float64(p.tick) * p.timeStep
	p.lastTick = time.Now()
	p.stepCtx = context.Background()
	events := p.takePending()
	p.mu.Unlock()

	p.publish(events)
}

// Run steps the pond in real time until ctx is cancelled.
func (p *Pond) Run(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return errors.New("pond: already running")
	}
	p.running = true
	p.lastTick = time.Now()
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	interval := time.Duration(p.timeStep * float64(time.Second))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.logger.Info(ctx, "pond running", "time_step", p.timeStep, "bodies", p.Len())
	for {
		select {
		case <-ctx.Done():
			p.logger.Info(ctx, "pond stopped", "tick", p.Tick(), "anomalies", p.Anomalies())
			return ctx.Err()
		case <-ticker.C:
			p.step(ctx)
		}
	}
}

// EnterZone signals that a body entered the named zone, for hosts that
// detect zone contact themselves.
func (p *Pond) EnterZone(id entity.ID, zoneName string) error {
	p.mu.Lock()
	rec, ok := p.bodies[id]
	if !ok {
		p.mu.Unlock()
		return fmt.Errorf("enter zone %q: body %d: %w", zoneName, id, ErrUnknownBody)
	}
	idx := slices.IndexFunc(p.zones, func(z Zone) bool { return z.Name == zoneName })
	if idx < 0 {
		p.mu.Unlock()
		return fmt.Errorf("enter zone %q: %w", zoneName, ErrUnknownZone)
	}
	p.enterZone(rec, p.zones[idx], true)
	events := p.takePending()
	p.mu.Unlock()

	p.publish(events)
	return nil
}

// enterZone applies a zone's effect. Caller holds the lock.
func (p *Pond) enterZone(rec *bodyRecord, z Zone, external bool) {
	b := rec.body
	if !z.Admits(b.Kind) {
		return
	}
	p.pending = append(p.pending, event.NewZoneEvent(p, uint64(b.ID), z.Name, external))

	switch z.Kind {
	case config.ZoneSettle:
		if b.Settle(z.LinearDrag, z.AngularDrag) {
			p.logger.Info(p.stepCtx, "body settled", "body_id", uint64(b.ID), "kind", b.Kind, "zone", z.Name)
			p.pending = append(p.pending, event.NewBodyEvent(event.BodySettled, p, uint64(b.ID), b.Kind, b.Position))
		}
	case config.ZoneSink:
		if b.Policy != entity.SurfaceLocked {
			b.Velocity = mgl64.Vec3{b.Velocity.X(), -z.SinkSpeed, b.Velocity.Z()}
		}
	}
}

// Reenable returns a settled body to floating.
func (p *Pond) Reenable(id entity.ID) error {
	p.mu.Lock()
	rec, ok := p.bodies[id]
	if !ok {
		p.mu.Unlock()
		return fmt.Errorf("reenable %d: %w", id, ErrUnknownBody)
	}
	var events []event.Event
	if rec.body.Reenable() {
		events = append(events, event.NewBodyEvent(event.BodyReenabled, p, uint64(id), rec.body.Kind, rec.body.Position))
	}
	p.mu.Unlock()

	p.publish(events)
	return nil
}

// MoveContainer relocates the bounded container, as when a bucket is carried.
func (p *Pond) MoveContainer(center mgl64.Vec3) error {
	if !isFiniteVec3(center) {
		return fmt.Errorf("move container: center must be finite: %w", physics.ErrInvalidParameter)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.container == nil {
		return fmt.Errorf("move container: %w", physics.ErrMissingReference)
	}
	p.container.Center = center
	return nil
}

// Container returns a copy of the container, if the pond has one.
func (p *Pond) Container() (physics.Container, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.container == nil {
		return physics.Container{}, false
	}
	return *p.container, true
}

// Zones returns the pond's zones.
func (p *Pond) Zones() []Zone {
	return slices.Clone(p.zones)
}

// SurfaceHeight samples the open water at xz at the current time, with no
// per-body phase.
func (p *Pond) SurfaceHeight(xz physics.Vector2D) float64 {
	p.mu.Lock()
	h := p.surface.Height(xz, p.simTime, 0)
	events := p.takePending()
	p.mu.Unlock()

	p.publish(events)
	return h
}

// SurfaceState reports the surface guard's breaker state. Ponds without a
// guard always report closed.
func (p *Pond) SurfaceState() gobreaker.State {
	if p.guard == nil {
		return gobreaker.StateClosed
	}

	// Reading the state can move an expired open breaker to half-open, which
	// fires onSurfaceStateChange.
	p.mu.Lock()
	state := p.guard.State()
	events := p.takePending()
	p.mu.Unlock()

	p.publish(events)
	return state
}

// Tick returns the number of completed ticks.
func (p *Pond) Tick() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tick
}

// SimTime returns the simulated time in seconds.
func (p *Pond) SimTime() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.simTime
}

// LastTick returns the wall-clock time of the last completed tick.
func (p *Pond) LastTick() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastTick
}

// Running reports whether Run is active.
func (p *Pond) Running() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.running
}

// TimeStep returns the fixed tick length in seconds.
func (p *Pond) TimeStep() float64 {
	return p.timeStep
}

// Anomalies returns the number of suppressed body ticks so far.
func (p *Pond) Anomalies() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.anomalies
}

func (p *Pond) takePending() []event.Event {
	events := p.pending
	p.pending = nil
	return events
}

// publish delivers events without the lock held, so handlers may call back
// into the pond.
func (p *Pond) publish(events []event.Event) {
	for _, e := range events {
		p.EventBus.Publish(e)
	}
}

func isFiniteVec3(v mgl64.Vec3) bool {
	return validation.IsFinite(v[0]) && validation.IsFinite(v[1]) && validation.IsFinite(v[2])
}
