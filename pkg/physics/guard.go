package physics

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sony/gobreaker"
)

var errNonFiniteHeight = errors.New("non-finite surface height")

// GuardSettings configures a GuardedSurface.
type GuardSettings struct {
	Name string
	// MaxConsecutiveFailures non-finite samples in a row trip the breaker.
	MaxConsecutiveFailures uint32
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
	// Fallback is the flat height served while the breaker is open.
	Fallback float64
	// OnStateChange, if set, observes breaker transitions.
	OnStateChange func(from, to gobreaker.State)
}

// GuardedSurface isolates an unreliable surface. A single bad sample comes
// back as NaN, which the simulator turns into a zero-force tick. A run of bad
// samples opens the breaker, and the guard serves the flat fallback height
// until a probe succeeds.
type GuardedSurface struct {
	inner    Surface
	breaker  *gobreaker.CircuitBreaker
	fallback float64
}

// NewGuardedSurface wraps inner.
func NewGuardedSurface(inner Surface, settings GuardSettings) (*GuardedSurface, error) {
	if inner == nil {
		return nil, fmt.Errorf("guarded surface: %w", ErrMissingReference)
	}
	if settings.MaxConsecutiveFailures == 0 {
		return nil, fmt.Errorf("guarded surface: max consecutive failures must be positive: %w", ErrInvalidParameter)
	}
	if math.IsNaN(settings.Fallback) || math.IsInf(settings.Fallback, 0) {
		return nil, fmt.Errorf("guarded surface: fallback height must be finite: %w", ErrInvalidParameter)
	}

	name := settings.Name
	if name == "" {
		name = "water-surface"
	}

	cbSettings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.MaxConsecutiveFailures
		},
	}
	if settings.OnStateChange != nil {
		cbSettings.OnStateChange = func(_ string, from, to gobreaker.State) {
			settings.OnStateChange(from, to)
		}
	}

	return &GuardedSurface{
		inner:    inner,
		breaker:  gobreaker.NewCircuitBreaker(cbSettings),
		fallback: settings.Fallback,
	}, nil
}

// Height implements Surface.
func (g *GuardedSurface) Height(xz Vector2D, simTime, phase float64) float64 {
	h, err := g.breaker.Execute(func() (interface{}, error) {
		h := g.inner.Height(xz, simTime, phase)
		if math.IsNaN(h) || math.IsInf(h, 0) {
			return nil, errNonFiniteHeight
		}
		return h, nil
	})
	switch {
	case err == nil:
		return h.(float64)
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return g.fallback
	default:
		return math.NaN()
	}
}

// State returns the breaker state.
func (g *GuardedSurface) State() gobreaker.State {
	return g.breaker.State()
}

// Counts returns the breaker's request counters for the current interval.
func (g *GuardedSurface) Counts() gobreaker.Counts {
	return g.breaker.Counts()
}
