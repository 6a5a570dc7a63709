// pkg/event/event.go
package event

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Type represents the type of event
type Type string

// Pond event types
const (
	BodySpawned     Type = "body_spawned"
	BodyRemoved     Type = "body_removed"
	ZoneEntered     Type = "zone_entered"
	BodySettled     Type = "body_settled"
	BodyReenabled   Type = "body_reenabled"
	NumericAnomaly  Type = "numeric_anomaly"
	SurfaceDegraded Type = "surface_degraded"
	SurfaceRestored Type = "surface_restored"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription is returned by Subscribe. Cancel removes the handler.
type Subscription struct {
	ID     uint64
	Cancel func()
}

type registration struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching. Handlers run
// synchronously on the publishing goroutine.
type Bus struct {
	handlers map[Type][]registration
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]registration),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], registration{id: id, handler: handler})

	var once sync.Once
	return &Subscription{
		ID: id,
		Cancel: func() {
			once.Do(func() { b.Unsubscribe(eventType, id) })
		},
	}
}

// Unsubscribe removes the subscription with the given id
func (b *Bus) Unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	regs := b.handlers[eventType]
	for i, r := range regs {
		if r.id == id {
			// Copy so a Publish iterating the old slice is unaffected.
			next := make([]registration, 0, len(regs)-1)
			next = append(next, regs[:i]...)
			next = append(next, regs[i+1:]...)
			if len(next) == 0 {
				delete(b.handlers, eventType)
			} else {
				b.handlers[eventType] = next
			}
			return
		}
	}
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	regs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, r := range regs {
		r.handler(event)
	}
}

// Specific event implementations

// BodyEvent covers lifecycle changes of a single body
type BodyEvent struct {
	BaseEvent
	BodyID   uint64
	Kind     string
	Position mgl64.Vec3
}

// NewBodyEvent creates a new body event
func NewBodyEvent(eventType Type, source interface{}, bodyID uint64, kind string, position mgl64.Vec3) *BodyEvent {
	return &BodyEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		BodyID:   bodyID,
		Kind:     kind,
		Position: position,
	}
}

// ZoneEvent is published when a body enters a named zone
type ZoneEvent struct {
	BaseEvent
	BodyID uint64
	Zone   string
	// External is true when the entry was signalled by the host rather than
	// detected from the body's position.
	External bool
}

// NewZoneEvent creates a new zone event
func NewZoneEvent(source interface{}, bodyID uint64, zone string, external bool) *ZoneEvent {
	return &ZoneEvent{
		BaseEvent: BaseEvent{
			EventType: ZoneEntered,
			Source:    source,
		},
		BodyID:   bodyID,
		Zone:     zone,
		External: external,
	}
}

// AnomalyEvent reports a tick whose force was suppressed for one body
type AnomalyEvent struct {
	BaseEvent
	BodyID  uint64
	Tick    uint64
	SimTime float64
}

// NewAnomalyEvent creates a new anomaly event
func NewAnomalyEvent(source interface{}, bodyID, tick uint64, simTime float64) *AnomalyEvent {
	return &AnomalyEvent{
		BaseEvent: BaseEvent{
			EventType: NumericAnomaly,
			Source:    source,
		},
		BodyID:  bodyID,
		Tick:    tick,
		SimTime: simTime,
	}
}

// SurfaceEvent reports a change in the surface guard's breaker state
type SurfaceEvent struct {
	BaseEvent
	From string
	To   string
}

// NewSurfaceEvent creates a new surface event
func NewSurfaceEvent(eventType Type, source interface{}, from, to string) *SurfaceEvent {
	return &SurfaceEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		From: from,
		To:   to,
	}
}
