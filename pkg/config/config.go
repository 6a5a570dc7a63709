// pkg/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-floatsim/pkg/entity"
	"github.com/opd-ai/go-floatsim/pkg/physics"
	"github.com/opd-ai/go-floatsim/pkg/validation"
)

// PondConfig contains configuration for a simulated pond
type PondConfig struct {
	// TimeStep is the fixed physics tick in seconds.
	TimeStep  float64                  `json:"timeStep"`
	Gravity   float64                  `json:"gravity"`
	Seed      int64                    `json:"seed"`
	Surface   physics.WaterSurface     `json:"surface"`
	Guard     GuardConfig              `json:"guard"`
	Container *physics.Container       `json:"container,omitempty"`
	Profiles  map[string]ProfileConfig `json:"profiles"`
	Spawns    []SpawnConfig            `json:"spawns"`
	Zones     []ZoneConfig             `json:"zones"`
}

// GuardConfig configures the circuit breaker around the water surface
type GuardConfig struct {
	Enabled                bool    `json:"enabled"`
	MaxConsecutiveFailures uint32  `json:"maxConsecutiveFailures"`
	TimeoutSeconds         float64 `json:"timeoutSeconds"`
	FallbackHeight         float64 `json:"fallbackHeight"`
}

// ProfileConfig is a named buoyancy profile plus the rigid body it is
// spawned with
type ProfileConfig struct {
	physics.Profile
	Policy      entity.Policy `json:"policy"`
	Mass        float64       `json:"mass"`
	LinearDrag  float64       `json:"linearDrag"`
	AngularDrag float64       `json:"angularDrag"`
}

// SpawnConfig scatters Count bodies of one profile
type SpawnConfig struct {
	Profile      string     `json:"profile"`
	Count        int        `json:"count"`
	Center       mgl64.Vec3 `json:"center"`
	Radius       float64    `json:"radius"`
	HeightOffset float64    `json:"heightOffset"`
}

// ZoneKind selects what a zone does to bodies entering it
type ZoneKind string

const (
	// ZoneSettle disables buoyancy and raises drag.
	ZoneSettle ZoneKind = "settle"
	// ZoneSink forces a downward velocity.
	ZoneSink ZoneKind = "sink"
)

// ZoneConfig is an axis-aligned box in world space
type ZoneConfig struct {
	Name        string     `json:"name"`
	Kind        ZoneKind   `json:"kind"`
	Center      mgl64.Vec3 `json:"center"`
	HalfExtents mgl64.Vec3 `json:"halfExtents"`
	LinearDrag  float64    `json:"linearDrag,omitempty"`
	AngularDrag float64    `json:"angularDrag,omitempty"`
	SinkSpeed   float64    `json:"sinkSpeed,omitempty"`
	// Accepts lists the body kinds the zone reacts to. Empty means all.
	Accepts []string `json:"accepts,omitempty"`
}

// LoadConfig loads a configuration from a file
func LoadConfig(path string) (*PondConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config PondConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *PondConfig, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a garden pond with a few oranges, a crate and a
// settling zone near the bank
func DefaultConfig() *PondConfig {
	return &PondConfig{
		TimeStep: 0.02,
		Gravity:  -9.81,
		Seed:     1,
		Surface: physics.WaterSurface{
			BaseHeight: 0,
			Amplitude:  0.05,
			Frequency:  1.5,
		},
		Guard: GuardConfig{
			Enabled:                true,
			MaxConsecutiveFailures: 5,
			TimeoutSeconds:         5,
		},
		Profiles: StockProfiles(),
		Spawns: []SpawnConfig{
			{Profile: "orange", Count: 6, Radius: 2, HeightOffset: 0.5},
			{Profile: "crate", Count: 1, Center: mgl64.Vec3{3, 0, 0}, HeightOffset: 1},
			{Profile: "decoration", Count: 3, Center: mgl64.Vec3{-3, 0, 0}, Radius: 1},
		},
		Zones: []ZoneConfig{
			{
				Name:        "bank",
				Kind:        ZoneSettle,
				Center:      mgl64.Vec3{6, 0, 0},
				HalfExtents: mgl64.Vec3{1, 2, 4},
				LinearDrag:  5,
				AngularDrag: 5,
			},
		},
	}
}

// StockProfiles returns the built-in profiles keyed by name
func StockProfiles() map[string]ProfileConfig {
	return map[string]ProfileConfig{
		"orange":        {Profile: physics.Orange, Mass: 0.2, LinearDrag: 0.05, AngularDrag: 0.05},
		"crate":         {Profile: physics.Crate, Mass: 20, LinearDrag: 0.1, AngularDrag: 0.1},
		"bucket_orange": {Profile: physics.BucketOrange, Policy: entity.Contained, Mass: 0.2, LinearDrag: 0.5, AngularDrag: 0.5},
		"capybara":      {Profile: physics.Capybara, Mass: 50, LinearDrag: 0.2, AngularDrag: 0.5},
		"decoration":    {Profile: physics.Decoration, Policy: entity.SurfaceLocked},
		"wader":         {Profile: physics.Wader, Policy: entity.SurfaceLocked},
	}
}

// Validate reports every invalid field in the configuration
func (c *PondConfig) Validate() error {
	errs := []error{
		validation.Positive("timeStep", c.TimeStep),
		validation.Finite("gravity", c.Gravity),
		c.Surface.Validate(),
	}

	if c.Guard.Enabled {
		if c.Guard.MaxConsecutiveFailures == 0 {
			errs = append(errs, &validation.ParameterError{
				Field:  "guard.maxConsecutiveFailures",
				Reason: "must be positive",
			})
		}
		errs = append(errs,
			validation.NonNegative("guard.timeoutSeconds", c.Guard.TimeoutSeconds),
			validation.Finite("guard.fallbackHeight", c.Guard.FallbackHeight),
		)
	}

	if c.Container != nil {
		errs = append(errs, c.Container.Validate())
	}

	for name, p := range c.Profiles {
		if err := p.Profile.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("profile %q: %w", name, err))
		}
		if p.Policy != entity.SurfaceLocked {
			errs = append(errs, validation.Positive(fmt.Sprintf("profiles.%s.mass", name), p.Mass))
		}
		errs = append(errs,
			validation.NonNegative(fmt.Sprintf("profiles.%s.linearDrag", name), p.LinearDrag),
			validation.NonNegative(fmt.Sprintf("profiles.%s.angularDrag", name), p.AngularDrag),
		)
	}

	for i, s := range c.Spawns {
		p, ok := c.Profiles[s.Profile]
		if !ok {
			errs = append(errs, fmt.Errorf("spawns[%d]: unknown profile %q: %w", i, s.Profile, physics.ErrMissingReference))
		}
		if ok && p.Policy == entity.Contained && c.Container == nil {
			errs = append(errs, fmt.Errorf("spawns[%d]: profile %q needs a container: %w", i, s.Profile, physics.ErrMissingReference))
		}
		if s.Count < 0 {
			errs = append(errs, &validation.ParameterError{
				Field:  fmt.Sprintf("spawns[%d].count", i),
				Value:  float64(s.Count),
				Reason: "must be non-negative",
			})
		}
		errs = append(errs, validation.NonNegative(fmt.Sprintf("spawns[%d].radius", i), s.Radius))
	}

	for i, z := range c.Zones {
		errs = append(errs, z.validate(i))
	}

	return validation.Collect(errs...)
}

func (z ZoneConfig) validate(i int) error {
	field := fmt.Sprintf("zones[%d]", i)
	errs := []error{
		validation.Positive(field+".halfExtents.x", z.HalfExtents.X()),
		validation.Positive(field+".halfExtents.y", z.HalfExtents.Y()),
		validation.Positive(field+".halfExtents.z", z.HalfExtents.Z()),
	}
	if z.Name == "" {
		errs = append(errs, fmt.Errorf("%s: name is required: %w", field, validation.ErrInvalidParameter))
	}
	switch z.Kind {
	case ZoneSettle:
		errs = append(errs,
			validation.NonNegative(field+".linearDrag", z.LinearDrag),
			validation.NonNegative(field+".angularDrag", z.AngularDrag),
		)
	case ZoneSink:
		errs = append(errs, validation.Positive(field+".sinkSpeed", z.SinkSpeed))
	default:
		errs = append(errs, fmt.Errorf("%s: unknown zone kind %q: %w", field, z.Kind, validation.ErrInvalidParameter))
	}
	return validation.Collect(errs...)
}
