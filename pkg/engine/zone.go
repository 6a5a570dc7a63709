package engine

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-floatsim/pkg/config"
)

// Zone is an axis-aligned trigger volume. Entering it changes how the body
// floats: settle zones switch buoyancy off, sink zones push the body down.
type Zone struct {
	config.ZoneConfig
	min mgl64.Vec3
	max mgl64.Vec3
}

// NewZone builds a zone from its configuration.
func NewZone(cfg config.ZoneConfig) Zone {
	return Zone{
		ZoneConfig: cfg,
		min:        cfg.Center.Sub(cfg.HalfExtents),
		max:        cfg.Center.Add(cfg.HalfExtents),
	}
}

// Contains reports whether p lies inside the zone, boundary included.
func (z Zone) Contains(p mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < z.min[i] || p[i] > z.max[i] {
			return false
		}
	}
	return true
}

// Admits reports whether bodies of the given kind react to this zone.
func (z Zone) Admits(kind string) bool {
	return len(z.ZoneConfig.Accepts) == 0 || slices.Contains(z.ZoneConfig.Accepts, kind)
}
